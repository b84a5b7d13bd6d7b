// Package config loads and validates the dashboard's YAML configuration.
// The loaded Config is read-only for the rest of the process.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ham-kiosk/dashboard/internal/table"
)

// Retention selects the spot retention policy.
type Retention string

const (
	// RetentionReplace swaps the whole spot set on every fetch.
	RetentionReplace Retention = "replace"
	// RetentionAccumulate dedupes on (timestamp, callsign) and keeps a
	// rolling 24 hour window across fetches.
	RetentionAccumulate Retention = "accumulate"
)

// Station identifies the monitored operator.
type Station struct {
	Callsign   string `yaml:"callsign"`
	GridSquare string `yaml:"gridsquare"`
	Operator   string `yaml:"operator"`
}

// Feeds holds the upstream endpoints.
type Feeds struct {
	PSKReporterBaseURL   string `yaml:"psk_reporter_base_url"`
	PSKReporterQueryPath string `yaml:"psk_reporter_query_path"`
	SolarURL             string `yaml:"solar_url"`
}

// ColumnConfig is one declarative table column. Formatter names are
// resolved against the table package's registry during validation.
type ColumnConfig struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	Align     string `yaml:"align"`
	Visible   *bool  `yaml:"visible"`
	Formatter string `yaml:"formatter"`
}

// CardConfig configures one paginated card.
type CardConfig struct {
	PageSize        int            `yaml:"page_size"`
	AutoCycle       bool           `yaml:"auto_cycle"`
	CyclePeriodSecs int            `yaml:"cycle_period_seconds"`
	Columns         []ColumnConfig `yaml:"columns"`
}

// Intervals holds per-source refresh periods in seconds.
type Intervals struct {
	SpotsSecs  int `yaml:"spots_seconds"`
	SolarSecs  int `yaml:"solar_seconds"`
	BandsSecs  int `yaml:"bands_seconds"`
	QuotesSecs int `yaml:"quotes_seconds"`
}

// Config is the root configuration object.
type Config struct {
	Environment string `yaml:"environment"`
	ListenAddr  string `yaml:"listen_addr"`

	Station Station  `yaml:"station"`
	Feeds   Feeds    `yaml:"feeds"`
	Proxies []string `yaml:"proxies"`

	FetchTimeoutSecs int       `yaml:"fetch_timeout_seconds"`
	Intervals        Intervals `yaml:"refresh_intervals"`

	SpotRetention Retention `yaml:"spot_retention"`
	GridDigits    int       `yaml:"grid_digits"`
	LenientADIF   bool      `yaml:"lenient_adif"`

	SpotsCard CardConfig `yaml:"spots_card"`
	BandsCard CardConfig `yaml:"bands_card"`
}

// Default returns the built-in configuration the example file mirrors.
func Default() *Config {
	visible := true
	hidden := false
	return &Config{
		Environment: "development",
		ListenAddr:  ":8080",
		Station:     Station{Callsign: "W2SZ", GridSquare: "FN32", Operator: "KD2TAI"},
		Feeds: Feeds{
			PSKReporterBaseURL:   "https://pskreporter.info/cgi-bin",
			PSKReporterQueryPath: "/pskdata.pl",
			SolarURL:             "https://www.hamqsl.com/solarxml.php",
		},
		Proxies:          []string{"https://api.allorigins.win/raw?url="},
		FetchTimeoutSecs: 10,
		Intervals: Intervals{
			SpotsSecs:  300,
			SolarSecs:  3600,
			BandsSecs:  300,
			QuotesSecs: 30,
		},
		SpotRetention: RetentionReplace,
		GridDigits:    4,
		SpotsCard: CardConfig{
			PageSize:        20,
			AutoCycle:       true,
			CyclePeriodSecs: 8,
			Columns: []ColumnConfig{
				{ID: "call", Label: "CALL", Align: "left", Visible: &visible},
				{ID: "time", Label: "TIME", Align: "left", Visible: &hidden},
				{ID: "freq", Label: "FREQ", Align: "right", Visible: &visible, Formatter: "frequency"},
				{ID: "mode", Label: "MODE", Align: "right", Visible: &visible},
				{ID: "grid", Label: "GRID", Align: "right", Visible: &visible},
				{ID: "db", Label: "DB", Align: "right", Visible: &hidden, Formatter: "db"},
				{ID: "distance", Label: "DIST", Align: "right", Visible: &visible, Formatter: "distance"},
				{ID: "age", Label: "AGE", Align: "right", Visible: &visible},
			},
		},
		BandsCard: CardConfig{
			PageSize: 12,
			Columns: []ColumnConfig{
				{ID: "band", Label: "BAND", Align: "left", Visible: &visible},
				{ID: "count", Label: "SPOTS", Align: "right", Visible: &visible},
				{ID: "maxSignal", Label: "BEST DB", Align: "right", Visible: &visible, Formatter: "signal"},
			},
		},
	}
}

// Load reads path, overlays it on the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot safely run with.
// Formatter names are resolved here so an unknown name fails at startup,
// not at render time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Station.Callsign) == "" {
		return fmt.Errorf("station.callsign is required")
	}
	if len(c.Proxies) == 0 {
		return fmt.Errorf("at least one proxy URL is required")
	}
	switch c.SpotRetention {
	case RetentionReplace, RetentionAccumulate:
	case "":
		c.SpotRetention = RetentionReplace
	default:
		return fmt.Errorf("spot_retention must be %q or %q, got %q",
			RetentionReplace, RetentionAccumulate, c.SpotRetention)
	}
	if c.GridDigits <= 0 {
		c.GridDigits = 4
	}
	if c.FetchTimeoutSecs <= 0 {
		c.FetchTimeoutSecs = 10
	}

	for _, iv := range []struct {
		name string
		secs int
	}{
		{"spots_seconds", c.Intervals.SpotsSecs},
		{"solar_seconds", c.Intervals.SolarSecs},
		{"bands_seconds", c.Intervals.BandsSecs},
		{"quotes_seconds", c.Intervals.QuotesSecs},
	} {
		if iv.secs <= 0 {
			return fmt.Errorf("refresh_intervals.%s must be positive", iv.name)
		}
	}

	for _, card := range []struct {
		name string
		cfg  *CardConfig
	}{
		{"spots_card", &c.SpotsCard},
		{"bands_card", &c.BandsCard},
	} {
		if card.cfg.PageSize < 1 {
			return fmt.Errorf("%s.page_size must be at least 1", card.name)
		}
		for _, col := range card.cfg.Columns {
			if col.ID == "" {
				return fmt.Errorf("%s has a column without an id", card.name)
			}
			if _, err := table.ResolveFormatter(col.Formatter); err != nil {
				return fmt.Errorf("%s column %q: %w (known: %s)",
					card.name, col.ID, err, strings.Join(table.FormatterNames(), ", "))
			}
		}
	}
	return nil
}

// TableColumns converts a card's column configs into resolved table
// columns. Validate must have accepted the config first.
func (c CardConfig) TableColumns() []table.Column {
	cols := make([]table.Column, 0, len(c.Columns))
	for _, cc := range c.Columns {
		visible := cc.Visible == nil || *cc.Visible
		formatter, _ := table.ResolveFormatter(cc.Formatter)
		cols = append(cols, table.Column{
			ID:        cc.ID,
			Label:     cc.Label,
			Align:     cc.Align,
			Visible:   visible,
			Formatter: formatter,
		})
	}
	return cols
}

// CyclePeriod returns the card's auto-cycle period.
func (c CardConfig) CyclePeriod() time.Duration {
	if c.CyclePeriodSecs <= 0 {
		return 8 * time.Second
	}
	return time.Duration(c.CyclePeriodSecs) * time.Second
}

// SpotsURL builds the spotter-network request URL for the configured
// station: fixed adif=1 and days=1 parameters plus the callsign.
func (c *Config) SpotsURL() string {
	params := url.Values{}
	params.Set("adif", "1")
	params.Set("days", "1")
	params.Set("callsign", c.Station.Callsign)
	return c.Feeds.PSKReporterBaseURL + c.Feeds.PSKReporterQueryPath + "?" + params.Encode()
}

// FetchTimeout returns the per-proxy-attempt timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSecs) * time.Second
}

// Interval returns the refresh period for a named source.
func (c *Config) Interval(source string) time.Duration {
	secs := 0
	switch source {
	case "spots":
		secs = c.Intervals.SpotsSecs
	case "solar":
		secs = c.Intervals.SolarSecs
	case "bands":
		secs = c.Intervals.BandsSecs
	case "quotes":
		secs = c.Intervals.QuotesSecs
	}
	return time.Duration(secs) * time.Second
}
