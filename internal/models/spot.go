package models

import (
	"fmt"
	"strconv"
	"time"
)

// Spot is one reception report of the station's transmission, decoded
// from an ADIF record served by the spotter network.
type Spot struct {
	// TimestampSeconds is the UTC epoch time reconstructed from the
	// ADIF qso_date and time_on fields.
	TimestampSeconds int64 `json:"timestamp"`

	// Callsign of the receiving operator, uppercased.
	Callsign string `json:"call"`

	// FrequencyMHz is the reported frequency rounded to 3 fractional digits.
	FrequencyMHz float64 `json:"freq"`

	// Mode is free text (FT8, CW, ...); not validated against an enum.
	Mode string `json:"mode"`

	// GridSquare is the raw Maidenhead locator as received. Truncation
	// for display happens in FormatGrid, never here.
	GridSquare string `json:"grid"`

	// SignalDB is the SNR estimate in dB; nil means the report carried none.
	SignalDB *int `json:"db,omitempty"`

	// DistanceKm is the reported great-circle distance; nil means unknown.
	DistanceKm *float64 `json:"distance,omitempty"`
}

// Time returns the spot timestamp as a UTC time.Time.
func (s Spot) Time() time.Time {
	return time.Unix(s.TimestampSeconds, 0).UTC()
}

// TimeLabel renders the spot time as HH:MM:SS in UTC.
func (s Spot) TimeLabel() string {
	return s.Time().Format("15:04:05")
}

// AgeLabel renders the spot age relative to now: "now", "5m", "2h", "1d".
func (s Spot) AgeLabel(now time.Time) string {
	diff := now.Unix() - s.TimestampSeconds
	switch {
	case diff < 60:
		return "now"
	case diff < 3600:
		return fmt.Sprintf("%dm", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%dh", diff/3600)
	default:
		return fmt.Sprintf("%dd", diff/86400)
	}
}

// SignalLabel renders the SNR, or "?" when the report carried none.
func (s Spot) SignalLabel() string {
	if s.SignalDB == nil {
		return "?"
	}
	return strconv.Itoa(*s.SignalDB)
}

// DistanceLabel renders the distance rounded to whole km, or "?" when unknown.
func (s Spot) DistanceLabel() string {
	if s.DistanceKm == nil {
		return "?"
	}
	return strconv.Itoa(int(*s.DistanceKm + 0.5))
}

// FormatGrid uppercases and pads/truncates a locator to maxDigits for display.
func FormatGrid(grid string, maxDigits int) string {
	if grid == "" {
		return ""
	}
	if maxDigits <= 0 {
		maxDigits = 4
	}
	out := []rune(grid)
	for i, r := range out {
		if r >= 'a' && r <= 'z' {
			out[i] = r - 32
		}
	}
	for len(out) < maxDigits {
		out = append(out, ' ')
	}
	return string(out[:maxDigits])
}
