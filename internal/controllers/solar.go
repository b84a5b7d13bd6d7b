package controllers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"ham-kiosk/dashboard/internal/common"
	"ham-kiosk/dashboard/internal/config"
	"ham-kiosk/dashboard/internal/events"
	"ham-kiosk/dashboard/internal/logging"
	"ham-kiosk/dashboard/internal/metrics"
	"ham-kiosk/dashboard/internal/models"
	"ham-kiosk/dashboard/internal/solar"
)

// SolarController owns the solar/propagation feed.
type SolarController struct {
	cfg     *config.Config
	bus     *events.Bus
	fetcher Fetcher
	cache   common.CacheInterface
	metrics *metrics.MetricsRegistry
	now     func() time.Time

	inFlight atomic.Bool

	mu         sync.Mutex
	lastUpdate time.Time
	lastErr    string
	loading    bool

	unsubscribe func()
}

// NewSolarController creates a solar controller. Call Start to begin
// listening for refresh signals.
func NewSolarController(
	cfg *config.Config,
	bus *events.Bus,
	fetcher Fetcher,
	cache common.CacheInterface,
	m *metrics.MetricsRegistry,
) *SolarController {
	return &SolarController{
		cfg:     cfg,
		bus:     bus,
		fetcher: fetcher,
		cache:   cache,
		metrics: m,
		now:     time.Now,
	}
}

// Start subscribes the controller to its refresh topic.
func (c *SolarController) Start() {
	c.unsubscribe = c.bus.Subscribe(events.RefreshSolar, func(interface{}) {
		c.Refresh(context.Background())
	})
}

// Stop detaches the controller from the bus.
func (c *SolarController) Stop() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Refresh runs one full fetch/parse/publish cycle. Overlapping refreshes
// are dropped. A fetch or parse failure keeps the prior conditions so
// the display can show stale data under an error banner.
func (c *SolarController) Refresh(ctx context.Context) {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.metrics.RefreshDropped.WithLabelValues("solar").Inc()
		logging.Warn("solar refresh dropped, previous still in flight")
		return
	}
	defer c.inFlight.Store(false)

	start := c.now()
	c.setLoading()
	c.publish()

	body, err := c.fetcher.Fetch(ctx, c.cfg.Feeds.SolarURL)
	if err != nil {
		c.metrics.FeedFetchesTotal.WithLabelValues("solar", "failure").Inc()
		logging.Error("solar fetch failed", "error", err.Error())
		c.setError(err.Error())
		c.publish()
		return
	}
	c.metrics.FeedFetchesTotal.WithLabelValues("solar", "success").Inc()

	conditions, err := solar.Parse(body)
	if err != nil {
		c.metrics.ParseErrorsTotal.WithLabelValues("solar").Inc()
		logging.Error("solar parse failed", "error", err.Error())
		c.setError(err.Error())
		c.publish()
		return
	}

	c.cache.Set(cacheKeySolar, conditions, snapshotTTL)

	c.mu.Lock()
	c.lastUpdate = c.now()
	c.lastErr = ""
	c.loading = false
	c.mu.Unlock()

	c.metrics.RefreshDuration.WithLabelValues("solar").Observe(c.now().Sub(start).Seconds())
	logging.WithSource("solar").Infow("solar conditions updated",
		"updated", conditions.Updated,
		"sfi", conditions.SolarFlux,
	)
	c.publish()
}

// Snapshot returns the current solar state for API handlers.
func (c *SolarController) Snapshot() models.SolarUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateLocked()
}

func (c *SolarController) setLoading() {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
}

func (c *SolarController) setError(msg string) {
	c.mu.Lock()
	c.lastErr = msg
	c.loading = false
	c.mu.Unlock()
}

// cachedConditions reads the last-known-good conditions from the
// cache. A miss after a successful refresh means the snapshot aged out.
func (c *SolarController) cachedConditions() (*models.SolarConditions, bool) {
	v, ok := c.cache.Get(cacheKeySolar)
	if !ok {
		return nil, false
	}
	conditions, ok := v.(*models.SolarConditions)
	return conditions, ok
}

func (c *SolarController) updateLocked() models.SolarUpdate {
	conditions, ok := c.cachedConditions()
	upd := models.SolarUpdate{
		IsLoading:  c.loading,
		Error:      c.lastErr,
		Solar:      conditions,
		LastUpdate: c.lastUpdate,
	}
	if !ok && upd.Error == "" && !c.lastUpdate.IsZero() {
		upd.Error = "solar data expired"
	}
	if !c.lastUpdate.IsZero() {
		upd.NextUpdate = c.lastUpdate.Add(c.cfg.Interval("solar"))
	}
	return upd
}

func (c *SolarController) publish() {
	c.mu.Lock()
	upd := c.updateLocked()
	c.mu.Unlock()

	c.bus.Publish(events.SolarUpdated, upd)
	c.metrics.EventsPublishedTotal.WithLabelValues(events.SolarUpdated).Inc()
}
