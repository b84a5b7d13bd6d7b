// Package solar decodes the hamqsl.com solar-weather XML feed into a
// SolarConditions snapshot. Element names are matched exactly as the
// feed's schema spells them.
package solar

import (
	"encoding/xml"
	"fmt"
	"strings"

	"ham-kiosk/dashboard/internal/models"
)

// document mirrors the feed layout: a <solar> root wrapping one
// <solardata> element. The root name itself is not pinned so that a
// well-formed but unrecognizable document decodes to an empty snapshot
// instead of failing.
type document struct {
	Data solarData `xml:"solardata"`
}

type solarData struct {
	Source        string `xml:"source"`
	Updated       string `xml:"updated"`
	SolarFlux     string `xml:"solarflux"`
	AIndex        string `xml:"aindex"`
	KIndex        string `xml:"kindex"`
	KIndexNT      string `xml:"kindexnt"`
	XRay          string `xml:"xray"`
	Sunspots      string `xml:"sunspots"`
	HeliumLine    string `xml:"heliumline"`
	ProtonFlux    string `xml:"protonflux"`
	ElectronFlux  string `xml:"electonflux"` // feed misspells "electron"
	Aurora        string `xml:"aurora"`
	Normalization string `xml:"normalization"`
	LatDegree     string `xml:"latdegree"`
	SolarWind     string `xml:"solarwind"`
	MagneticField string `xml:"magneticfield"`
	GeomagField   string `xml:"geomagfield"`
	SignalNoise   string `xml:"signalnoise"`
	FoF2          string `xml:"fof2"`
	MUFFactor     string `xml:"muffactor"`
	MUF           string `xml:"muf"`

	Bands []bandElement `xml:"calculatedconditions>band"`
	VHF   []phenomenon  `xml:"calculatedvhfconditions>phenomenon"`
}

type bandElement struct {
	Name      string `xml:"name,attr"`
	Time      string `xml:"time,attr"`
	Condition string `xml:",chardata"`
}

type phenomenon struct {
	Name     string `xml:"name,attr"`
	Location string `xml:"location,attr"`
	Status   string `xml:",chardata"`
}

// Parse decodes xmlText into a SolarConditions snapshot.
//
// Malformed XML is a hard error; a well-formed document with no
// recognizable fields yields a snapshot with empty fields. Individual
// missing elements never fail the parse.
func Parse(xmlText string) (*models.SolarConditions, error) {
	var doc document
	if err := xml.Unmarshal([]byte(xmlText), &doc); err != nil {
		return nil, fmt.Errorf("malformed solar XML: %w", err)
	}

	d := doc.Data
	sc := &models.SolarConditions{
		Source:         strings.TrimSpace(d.Source),
		Updated:        strings.TrimSpace(d.Updated),
		SolarFlux:      strings.TrimSpace(d.SolarFlux),
		AIndex:         strings.TrimSpace(d.AIndex),
		KIndex:         strings.TrimSpace(d.KIndex),
		KIndexNT:       strings.TrimSpace(d.KIndexNT),
		XRay:           strings.TrimSpace(d.XRay),
		Sunspots:       strings.TrimSpace(d.Sunspots),
		HeliumLine:     strings.TrimSpace(d.HeliumLine),
		ProtonFlux:     strings.TrimSpace(d.ProtonFlux),
		ElectronFlux:   strings.TrimSpace(d.ElectronFlux),
		Aurora:         strings.TrimSpace(d.Aurora),
		Normalization:  strings.TrimSpace(d.Normalization),
		LatDegree:      strings.TrimSpace(d.LatDegree),
		SolarWind:      strings.TrimSpace(d.SolarWind),
		MagneticField:  strings.TrimSpace(d.MagneticField),
		GeomagField:    strings.TrimSpace(d.GeomagField),
		SignalNoise:    strings.TrimSpace(d.SignalNoise),
		FoF2:           strings.TrimSpace(d.FoF2),
		MUFFactor:      strings.TrimSpace(d.MUFFactor),
		MUF:            strings.TrimSpace(d.MUF),
		BandConditions: make(map[string]map[string]string),
		BandSeen:       make(map[string][]string),
		VHFConditions:  make(map[string]map[string]string),
	}

	for _, band := range d.Bands {
		bucket := sc.BandConditions[band.Time]
		if bucket == nil {
			bucket = make(map[string]string)
			sc.BandConditions[band.Time] = bucket
		}
		if _, seen := bucket[band.Name]; !seen {
			sc.BandSeen[band.Time] = append(sc.BandSeen[band.Time], band.Name)
		}
		// Same (time, name) appearing twice: last wins.
		bucket[band.Name] = strings.TrimSpace(band.Condition)
	}

	for _, ph := range d.VHF {
		bucket := sc.VHFConditions[ph.Name]
		if bucket == nil {
			bucket = make(map[string]string)
			sc.VHFConditions[ph.Name] = bucket
		}
		bucket[ph.Location] = strings.TrimSpace(ph.Status)
	}

	return sc, nil
}
