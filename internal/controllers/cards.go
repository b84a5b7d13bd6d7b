package controllers

import (
	"strconv"
	"time"

	"ham-kiosk/dashboard/internal/bands"
	"ham-kiosk/dashboard/internal/config"
	"ham-kiosk/dashboard/internal/events"
	"ham-kiosk/dashboard/internal/models"
	"ham-kiosk/dashboard/internal/table"
)

// Card names addressable over the HTTP surface.
const (
	CardSpots = "spots"
	CardBands = "bands"
)

// CardsController binds the table engine to the bus: each dashboard
// card is one Table fed from its source's update events. Page state
// lives server side so every display of the kiosk shows the same page.
type CardsController struct {
	cfg   *config.Config
	bus   *events.Bus
	now   func() time.Time
	cards map[string]*table.Table

	unsubscribes []func()
}

// NewCardsController builds the spots and bands card tables from the
// card configs. Tickers is optional; tests pass a manual factory.
func NewCardsController(cfg *config.Config, bus *events.Bus, tickers table.TickerFactory) *CardsController {
	c := &CardsController{
		cfg: cfg,
		bus: bus,
		now: time.Now,
	}

	c.cards = map[string]*table.Table{
		CardSpots: table.New(table.Options{
			PageSize:    cfg.SpotsCard.PageSize,
			Columns:     cfg.SpotsCard.TableColumns(),
			CyclePeriod: cfg.SpotsCard.CyclePeriod(),
			OnRetry:     func() { bus.Publish(events.RefreshSpots, nil) },
			NewTicker:   tickers,
		}),
		CardBands: table.New(table.Options{
			PageSize:    cfg.BandsCard.PageSize,
			Columns:     cfg.BandsCard.TableColumns(),
			CyclePeriod: cfg.BandsCard.CyclePeriod(),
			OnRetry:     func() { bus.Publish(events.RefreshBands, nil) },
			NewTicker:   tickers,
		}),
	}
	return c
}

// Start subscribes the card tables to their sources and arms the
// configured auto-cycle timers.
func (c *CardsController) Start() {
	c.unsubscribes = append(c.unsubscribes,
		c.bus.Subscribe(events.SpotsUpdated, func(payload interface{}) {
			upd, ok := payload.(models.SpotsUpdate)
			if !ok {
				return
			}
			c.applySpots(upd)
		}),
		c.bus.Subscribe(events.BandsUpdated, func(payload interface{}) {
			upd, ok := payload.(models.BandsUpdate)
			if !ok {
				return
			}
			c.applyBands(upd)
		}),
	)

	if c.cfg.SpotsCard.AutoCycle {
		c.cards[CardSpots].StartAutoCycle()
	}
	if c.cfg.BandsCard.AutoCycle {
		c.cards[CardBands].StartAutoCycle()
	}
}

// Stop disarms timers and detaches from the bus.
func (c *CardsController) Stop() {
	for _, unsub := range c.unsubscribes {
		unsub()
	}
	c.unsubscribes = nil
	for _, t := range c.cards {
		t.StopAutoCycle()
	}
}

// Card returns the named table, or nil for an unknown card.
func (c *CardsController) Card(name string) *table.Table {
	return c.cards[name]
}

func (c *CardsController) applySpots(upd models.SpotsUpdate) {
	t := c.cards[CardSpots]
	switch {
	case upd.IsLoading:
		t.SetLoading(true)
	case upd.Error != "":
		t.SetError(upd.Error)
	default:
		t.SetData(c.spotRows(upd.Spots))
	}
}

func (c *CardsController) applyBands(upd models.BandsUpdate) {
	t := c.cards[CardBands]
	if upd.Error != "" {
		t.SetError(upd.Error)
		return
	}
	t.SetData(c.bandRows(upd.Summary))
}

// spotRows maps spots onto generic rows keyed by column ID. Values that
// have a display formatter stay raw here; the formatter runs at
// snapshot time.
func (c *CardsController) spotRows(spots []models.Spot) []table.Row {
	now := c.now()
	rows := make([]table.Row, 0, len(spots))
	for _, s := range spots {
		row := table.Row{
			"call": s.Callsign,
			"time": s.TimeLabel(),
			"freq": strconv.FormatFloat(s.FrequencyMHz, 'f', -1, 64),
			"mode": s.Mode,
			"grid": models.FormatGrid(s.GridSquare, c.cfg.GridDigits),
			"age":  s.AgeLabel(now),
		}
		if s.SignalDB != nil {
			row["db"] = strconv.Itoa(*s.SignalDB)
		}
		if s.DistanceKm != nil {
			row["distance"] = strconv.FormatFloat(*s.DistanceKm, 'f', -1, 64)
		}
		rows = append(rows, row)
	}
	return rows
}

func (c *CardsController) bandRows(summary map[string]models.BandSummary) []table.Row {
	sorted := bands.Sorted(summary)
	rows := make([]table.Row, 0, len(sorted))
	for _, b := range sorted {
		rows = append(rows, table.Row{
			"band":      b.Band,
			"count":     strconv.Itoa(b.Count),
			"maxSignal": strconv.Itoa(b.MaxSignalDB),
			"activity":  b.ActivityStars(),
		})
	}
	return rows
}
