package models

import (
	"fmt"
	"strings"
)

// NoSignal is the sentinel MaxSignalDB value meaning no numeric SNR was
// observed on the band; renderers show "N/A" for it.
const NoSignal = -999

// BandSummary aggregates the current spot collection for one band.
// Recomputed wholesale on every refresh, never merged.
type BandSummary struct {
	Band            string   `json:"band"`
	Count           int      `json:"count"`
	MaxSignalDB     int      `json:"maxSignal"`
	AvgFrequencyMHz float64  `json:"avgFreq"`
	Modes           []string `json:"modes"`

	// ActivityLevel is ceil(Count/5) capped at 5.
	ActivityLevel int `json:"activity"`
}

// ActivityStars renders the activity level as filled plus empty stars.
func (b BandSummary) ActivityStars() string {
	level := b.ActivityLevel
	if level < 0 {
		level = 0
	}
	if level > 5 {
		level = 5
	}
	return strings.Repeat("★", level) + strings.Repeat("☆", 5-level)
}

// MaxSignalLabel renders the best SNR, or "N/A" when none was observed.
func (b BandSummary) MaxSignalLabel() string {
	if b.MaxSignalDB <= NoSignal {
		return "N/A"
	}
	return fmt.Sprintf("%d dB", b.MaxSignalDB)
}
