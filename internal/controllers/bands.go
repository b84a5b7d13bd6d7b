package controllers

import (
	"sync"
	"time"

	"ham-kiosk/dashboard/internal/bands"
	"ham-kiosk/dashboard/internal/common"
	"ham-kiosk/dashboard/internal/events"
	"ham-kiosk/dashboard/internal/metrics"
	"ham-kiosk/dashboard/internal/models"
)

// BandsController derives per-band activity summaries from the current
// spot set. It fetches nothing itself: it recomputes whenever the spots
// controller publishes fresh data, and on its own refresh signal so the
// summary card re-renders even when spots are quiet.
type BandsController struct {
	bus     *events.Bus
	cache   common.CacheInterface
	metrics *metrics.MetricsRegistry
	now     func() time.Time

	mu         sync.Mutex
	spots      []models.Spot
	lastUpdate time.Time

	unsubscribes []func()
}

// NewBandsController creates a bands controller. Call Start to begin
// listening.
func NewBandsController(bus *events.Bus, cache common.CacheInterface, m *metrics.MetricsRegistry) *BandsController {
	return &BandsController{
		bus:     bus,
		cache:   cache,
		metrics: m,
		now:     time.Now,
	}
}

// Start subscribes to spot updates and the bands refresh topic.
func (c *BandsController) Start() {
	c.unsubscribes = append(c.unsubscribes,
		c.bus.Subscribe(events.SpotsUpdated, func(payload interface{}) {
			upd, ok := payload.(models.SpotsUpdate)
			if !ok || upd.IsLoading || upd.Error != "" {
				return
			}
			c.mu.Lock()
			c.spots = upd.Spots
			c.mu.Unlock()
			c.Recompute()
		}),
		c.bus.Subscribe(events.RefreshBands, func(interface{}) {
			c.Recompute()
		}),
	)
}

// Stop detaches the controller from the bus.
func (c *BandsController) Stop() {
	for _, unsub := range c.unsubscribes {
		unsub()
	}
	c.unsubscribes = nil
}

// Recompute aggregates the held spot set and publishes the result.
func (c *BandsController) Recompute() {
	start := c.now()

	c.mu.Lock()
	spots := c.spots
	c.mu.Unlock()

	summary := bands.Aggregate(spots)
	c.cache.Set(cacheKeyBands, summary, snapshotTTL)

	c.mu.Lock()
	c.lastUpdate = c.now()
	upd := c.updateLocked()
	c.mu.Unlock()

	c.metrics.RefreshDuration.WithLabelValues("bands").Observe(c.now().Sub(start).Seconds())

	c.bus.Publish(events.BandsUpdated, upd)
	c.metrics.EventsPublishedTotal.WithLabelValues(events.BandsUpdated).Inc()
}

// Snapshot returns the current band summary state for API handlers.
func (c *BandsController) Snapshot() models.BandsUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateLocked()
}

// cachedSummary reads the last computed summary from the cache.
func (c *BandsController) cachedSummary() map[string]models.BandSummary {
	v, ok := c.cache.Get(cacheKeyBands)
	if !ok {
		return nil
	}
	summary, _ := v.(map[string]models.BandSummary)
	return summary
}

func (c *BandsController) updateLocked() models.BandsUpdate {
	summary := c.cachedSummary()
	activeBands, _ := bands.Totals(summary)
	return models.BandsUpdate{
		Summary:    summary,
		IsEmpty:    activeBands == 0,
		LastUpdate: c.lastUpdate,
	}
}
