// Package bands maps frequencies to named amateur bands and folds spot
// collections into per-band activity summaries.
package bands

import (
	"math"
	"sort"

	"ham-kiosk/dashboard/internal/models"
)

// Unknown is the classification for frequencies outside every known range.
const Unknown = "Unknown"

// Range is one amateur band allocation. Bounds are inclusive, in MHz.
type Range struct {
	Name   string
	MinMHz float64
	MaxMHz float64
}

// ranges covers 160m through 70cm, ordered by ascending lower edge.
// First match wins; ranges are non-overlapping by construction.
var ranges = []Range{
	{Name: "160m", MinMHz: 1.8, MaxMHz: 2.0},
	{Name: "80m", MinMHz: 3.5, MaxMHz: 4.0},
	{Name: "40m", MinMHz: 7.0, MaxMHz: 7.3},
	{Name: "30m", MinMHz: 10.1, MaxMHz: 10.15},
	{Name: "20m", MinMHz: 14.0, MaxMHz: 14.35},
	{Name: "17m", MinMHz: 18.068, MaxMHz: 18.168},
	{Name: "15m", MinMHz: 21.0, MaxMHz: 21.45},
	{Name: "12m", MinMHz: 24.89, MaxMHz: 24.99},
	{Name: "10m", MinMHz: 28.0, MaxMHz: 29.7},
	{Name: "6m", MinMHz: 50.0, MaxMHz: 54.0},
	{Name: "2m", MinMHz: 144.0, MaxMHz: 148.0},
	{Name: "70cm", MinMHz: 420.0, MaxMHz: 450.0},
}

// Ranges returns a copy of the band allocation table.
func Ranges() []Range {
	out := make([]Range, len(ranges))
	copy(out, ranges)
	return out
}

// Classify maps a frequency in MHz to its band name, or Unknown when it
// falls outside every allocation.
func Classify(freqMHz float64) string {
	for _, r := range ranges {
		if freqMHz >= r.MinMHz && freqMHz <= r.MaxMHz {
			return r.Name
		}
	}
	return Unknown
}

// Aggregate folds spots into per-band summaries in one pass. Spots whose
// frequency matches no allocation land under Unknown; they count toward
// totals but sorted display views exclude them. Empty input yields an
// empty map.
func Aggregate(spots []models.Spot) map[string]models.BandSummary {
	type acc struct {
		count   int
		maxSig  int
		freqSum float64
		modes   map[string]struct{}
		order   []string
	}

	groups := make(map[string]*acc)
	for _, spot := range spots {
		band := Classify(spot.FrequencyMHz)
		g := groups[band]
		if g == nil {
			g = &acc{maxSig: models.NoSignal, modes: make(map[string]struct{})}
			groups[band] = g
		}

		g.count++
		g.freqSum += spot.FrequencyMHz
		if spot.Mode != "" {
			if _, seen := g.modes[spot.Mode]; !seen {
				g.modes[spot.Mode] = struct{}{}
				g.order = append(g.order, spot.Mode)
			}
		}
		if spot.SignalDB != nil && *spot.SignalDB > g.maxSig {
			g.maxSig = *spot.SignalDB
		}
	}

	summary := make(map[string]models.BandSummary, len(groups))
	for band, g := range groups {
		level := int(math.Ceil(float64(g.count) / 5))
		if level > 5 {
			level = 5
		}
		summary[band] = models.BandSummary{
			Band:            band,
			Count:           g.count,
			MaxSignalDB:     g.maxSig,
			AvgFrequencyMHz: g.freqSum / float64(g.count),
			Modes:           g.order,
			ActivityLevel:   level,
		}
	}
	return summary
}

// Totals reports how many named bands saw activity and how many spots
// the summary holds in all. The Unknown bucket counts toward spots but
// is not an active band.
func Totals(summary map[string]models.BandSummary) (bandCount, spotCount int) {
	for band, s := range summary {
		if band != Unknown {
			bandCount++
		}
		spotCount += s.Count
	}
	return bandCount, spotCount
}

// Sorted returns the summaries ordered by ascending band lower edge,
// excluding the Unknown bucket. This is the display view.
func Sorted(summary map[string]models.BandSummary) []models.BandSummary {
	minEdge := make(map[string]float64, len(ranges))
	for _, r := range ranges {
		minEdge[r.Name] = r.MinMHz
	}

	out := make([]models.BandSummary, 0, len(summary))
	for band, s := range summary {
		if band == Unknown {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return minEdge[out[i].Band] < minEdge[out[j].Band]
	})
	return out
}
