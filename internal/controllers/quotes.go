package controllers

import (
	"sync"

	"ham-kiosk/dashboard/internal/common"
	"ham-kiosk/dashboard/internal/events"
	"ham-kiosk/dashboard/internal/metrics"
	"ham-kiosk/dashboard/internal/models"
	"ham-kiosk/dashboard/internal/quotes"
)

// QuotesController rotates through the local quote corpus on its
// refresh signal. No network involved.
type QuotesController struct {
	bus     *events.Bus
	cache   common.CacheInterface
	metrics *metrics.MetricsRegistry

	mu      sync.Mutex
	rotator *quotes.Rotator

	unsubscribe func()
}

// NewQuotesController creates a quotes controller over the given
// rotator. Call Start to begin listening.
func NewQuotesController(bus *events.Bus, cache common.CacheInterface, m *metrics.MetricsRegistry, rotator *quotes.Rotator) *QuotesController {
	return &QuotesController{
		bus:     bus,
		cache:   cache,
		metrics: m,
		rotator: rotator,
	}
}

// Start subscribes the controller to its refresh topic.
func (c *QuotesController) Start() {
	c.unsubscribe = c.bus.Subscribe(events.RefreshQuote, func(interface{}) {
		c.Rotate()
	})
}

// Stop detaches the controller from the bus.
func (c *QuotesController) Stop() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Rotate advances to the next quote and publishes it.
func (c *QuotesController) Rotate() {
	c.mu.Lock()
	q := c.rotator.Next()
	c.mu.Unlock()

	c.cache.Set(cacheKeyQuote, q, snapshotTTL)
	c.bus.Publish(events.QuoteUpdated, models.QuoteUpdate{Quote: q})
	c.metrics.EventsPublishedTotal.WithLabelValues(events.QuoteUpdated).Inc()
}

// Current returns the quote on display. The cached copy ages out with
// the other snapshots, so a quote survives at most one TTL window.
func (c *QuotesController) Current() (models.Quote, bool) {
	v, ok := c.cache.Get(cacheKeyQuote)
	if !ok {
		return models.Quote{}, false
	}
	q, ok := v.(models.Quote)
	return q, ok
}
