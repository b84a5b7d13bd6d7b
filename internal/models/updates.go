package models

import "time"

// SpotsUpdate is the payload published on every spots state change.
// Error keeps the prior spot slice alongside it so renderers can show
// stale data under an error banner.
type SpotsUpdate struct {
	IsLoading  bool      `json:"isLoading"`
	Error      string    `json:"error,omitempty"`
	Spots      []Spot    `json:"spots"`
	LastUpdate time.Time `json:"lastUpdate,omitempty"`
	NextUpdate time.Time `json:"nextUpdate,omitempty"`
}

// SolarUpdate is the payload published on every solar state change.
type SolarUpdate struct {
	IsLoading  bool             `json:"isLoading"`
	Error      string           `json:"error,omitempty"`
	Solar      *SolarConditions `json:"solarData,omitempty"`
	LastUpdate time.Time        `json:"lastUpdate,omitempty"`
	NextUpdate time.Time        `json:"nextUpdate,omitempty"`
}

// BandsUpdate is the payload published on every band-summary recompute.
type BandsUpdate struct {
	IsLoading  bool                   `json:"isLoading"`
	Error      string                 `json:"error,omitempty"`
	Summary    map[string]BandSummary `json:"bandSummary"`
	IsEmpty    bool                   `json:"isEmpty,omitempty"`
	LastUpdate time.Time              `json:"lastUpdate,omitempty"`
}

// QuoteUpdate is the payload published when the rotator picks a quote.
type QuoteUpdate struct {
	Quote Quote `json:"quote"`
}
