// Package adif converts ADIF-formatted spot text from the spotter network
// into structured Spot records. The feed is untrusted: malformed records
// are dropped, never fatal to the batch.
package adif

import (
	"math"
	"strconv"
	"strings"
	"time"

	"ham-kiosk/dashboard/internal/models"
)

// recordTerminator separates ADIF records.
const recordTerminator = "<eor>"

// Parser extracts Spot records from ADIF text.
//
// In strict mode (the default) a record must carry non-empty qso_date,
// time_on, freq, operator, my_gridsquare and mode fields. Lenient mode
// only requires the first three, matching the feed's minimal contract.
type Parser struct {
	Lenient bool
}

// Stats reports what one Parse call did with its input.
type Stats struct {
	Records int // non-blank candidate records seen
	Spots   int // records accepted as spots
	Dropped int // records rejected (missing fields, bad date/freq)
}

// Parse splits adifText on the record terminator and converts each
// non-blank chunk. Output order is parse order; callers sort by recency
// before display. An empty input yields an empty slice, not an error.
func (p Parser) Parse(adifText string) ([]models.Spot, Stats) {
	var stats Stats
	if adifText == "" {
		return nil, stats
	}

	var spots []models.Spot
	for _, record := range strings.Split(adifText, recordTerminator) {
		if strings.TrimSpace(record) == "" {
			continue
		}
		stats.Records++

		spot, ok := p.parseRecord(record)
		if !ok {
			stats.Dropped++
			continue
		}
		spots = append(spots, spot)
		stats.Spots++
	}
	return spots, stats
}

func (p Parser) parseRecord(record string) (models.Spot, bool) {
	fields := scanFields(record)

	required := []string{"qso_date", "time_on", "freq"}
	if !p.Lenient {
		required = append(required, "operator", "my_gridsquare", "mode")
	}
	for _, name := range required {
		if fields[name] == "" {
			return models.Spot{}, false
		}
	}

	ts, err := time.Parse("20060102 150405", fields["qso_date"]+" "+fields["time_on"])
	if err != nil {
		return models.Spot{}, false
	}

	freq, err := strconv.ParseFloat(fields["freq"], 64)
	if err != nil {
		return models.Spot{}, false
	}

	spot := models.Spot{
		TimestampSeconds: ts.UTC().Unix(),
		Callsign:         strings.ToUpper(fields["operator"]),
		FrequencyMHz:     math.Round(freq*1000) / 1000,
		Mode:             fields["mode"],
		GridSquare:       fields["my_gridsquare"],
	}

	if raw := fields["app_pskrep_snr"]; raw != "" {
		if snr, err := strconv.Atoi(raw); err == nil {
			spot.SignalDB = &snr
		}
	}
	if raw := fields["distance"]; raw != "" {
		if km, err := strconv.ParseFloat(raw, 64); err == nil {
			spot.DistanceKm = &km
		}
	}

	return spot, true
}

// scanFields extracts <FIELDNAME[:length[:type]]>VALUE pairs from one
// record. The declared length is ignored; the value runs to the next '<'
// or the end of the record, as the feed actually emits it. Field names
// are case-folded to lowercase keys.
func scanFields(record string) map[string]string {
	fields := make(map[string]string)

	i := 0
	for i < len(record) {
		open := strings.IndexByte(record[i:], '<')
		if open < 0 {
			break
		}
		i += open + 1

		closeIdx := strings.IndexByte(record[i:], '>')
		if closeIdx < 0 {
			break
		}
		tag := record[i : i+closeIdx]
		i += closeIdx + 1

		name := tag
		if colon := strings.IndexByte(tag, ':'); colon >= 0 {
			name = tag[:colon]
		}
		if name == "" || !isFieldName(name) {
			continue
		}

		end := strings.IndexByte(record[i:], '<')
		if end < 0 {
			end = len(record) - i
		}
		value := strings.TrimSpace(record[i : i+end])
		fields[strings.ToLower(name)] = value
		i += end
	}
	return fields
}

func isFieldName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
