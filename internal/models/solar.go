package models

import (
	"fmt"
	"strings"
	"time"
)

// SolarConditions is one snapshot of the hamqsl.com space-weather feed.
// Scalar fields keep the feed's free-text values; an absent element is
// an empty string, never an error.
type SolarConditions struct {
	Source        string `json:"source"`
	Updated       string `json:"updated"`
	SolarFlux     string `json:"solarFlux"`
	AIndex        string `json:"aIndex"`
	KIndex        string `json:"kIndex"`
	KIndexNT      string `json:"kIndexNT"`
	XRay          string `json:"xRay"`
	Sunspots      string `json:"sunspots"`
	HeliumLine    string `json:"heliumLine"`
	ProtonFlux    string `json:"protonFlux"`
	ElectronFlux  string `json:"electronFlux"`
	Aurora        string `json:"aurora"`
	Normalization string `json:"normalization"`
	LatDegree     string `json:"latDegree"`
	SolarWind     string `json:"solarWind"`
	MagneticField string `json:"magneticField"`
	GeomagField   string `json:"geomagField"`
	SignalNoise   string `json:"signalNoise"`
	FoF2          string `json:"fof2"`
	MUFFactor     string `json:"mufFactor"`
	MUF           string `json:"muf"`

	// BandConditions maps "day"/"night" to band name to condition label.
	BandConditions map[string]map[string]string `json:"bandConditions"`

	// BandSeen keeps the order bands were first seen per time-of-day, so
	// the overall-condition tiebreak is deterministic across reads.
	BandSeen map[string][]string `json:"-"`

	// VHFConditions maps phenomenon name to location to status label.
	VHFConditions map[string]map[string]string `json:"vhfConditions"`
}

// UpdatedLabel reformats the feed's update stamp for display:
// "17 Apr 2023 0430 GMT" becomes "17 Apr 2023 04:30 GMT". Anything that
// does not match that shape is returned unchanged.
func (sc SolarConditions) UpdatedLabel() string {
	parts := strings.Fields(strings.TrimSpace(sc.Updated))
	if len(parts) < 4 {
		return sc.Updated
	}
	hhmm := parts[3]
	if len(hhmm) == 4 {
		hhmm = hhmm[:2] + ":" + hhmm[2:]
	}
	zone := "GMT"
	if len(parts) > 4 {
		zone = parts[4]
	}
	return fmt.Sprintf("%s %s %s %s %s", parts[0], parts[1], parts[2], hhmm, zone)
}

// TimeOfDay maps a wall-clock instant to the feed's "day"/"night" buckets.
// Day is the local hour in [6,18). The bucket follows the clock of the
// machine evaluating it, matching the kiosk display's observed behavior.
func TimeOfDay(now time.Time) string {
	h := now.Hour()
	if h >= 6 && h < 18 {
		return "day"
	}
	return "night"
}

// BandOrder returns the bands of one time-of-day bucket in the order the
// parser first saw them. Snapshots built without the parser fall back to
// map iteration order.
func (sc SolarConditions) BandOrder(timeOfDay string) []string {
	if order, ok := sc.BandSeen[timeOfDay]; ok {
		return order
	}
	out := make([]string, 0, len(sc.BandConditions[timeOfDay]))
	for band := range sc.BandConditions[timeOfDay] {
		out = append(out, band)
	}
	return out
}

// OverallCondition derives the headline condition: the most frequent label
// among the current time-of-day's band conditions, ties resolved by the
// order labels were first seen. "Unknown" when there is no band data.
// Always recomputed at read time, never cached on the snapshot.
func (sc SolarConditions) OverallCondition(now time.Time) string {
	tod := TimeOfDay(now)
	relevant := sc.BandConditions[tod]
	if len(relevant) == 0 {
		return "Unknown"
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(relevant))
	for _, band := range sc.BandOrder(tod) {
		cond, ok := relevant[band]
		if !ok {
			continue
		}
		if counts[cond] == 0 {
			order = append(order, cond)
		}
		counts[cond]++
	}

	best := "Unknown"
	max := 0
	for _, cond := range order {
		if counts[cond] > max {
			max = counts[cond]
			best = cond
		}
	}
	return best
}
