package controllers

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"ham-kiosk/dashboard/internal/adif"
	"ham-kiosk/dashboard/internal/common"
	"ham-kiosk/dashboard/internal/config"
	"ham-kiosk/dashboard/internal/events"
	"ham-kiosk/dashboard/internal/logging"
	"ham-kiosk/dashboard/internal/metrics"
	"ham-kiosk/dashboard/internal/models"
)

// spotRetentionWindow bounds how old an accumulated spot may get.
const spotRetentionWindow = 24 * time.Hour

// SpotsController owns the reception-spot feed: fetch, parse, retention
// and publication.
type SpotsController struct {
	cfg     *config.Config
	bus     *events.Bus
	fetcher Fetcher
	cache   common.CacheInterface
	metrics *metrics.MetricsRegistry
	parser  adif.Parser
	now     func() time.Time

	inFlight atomic.Bool

	mu         sync.Mutex
	lastUpdate time.Time
	lastErr    string
	loading    bool

	unsubscribe func()
}

// NewSpotsController creates a spots controller. Call Start to begin
// listening for refresh signals.
func NewSpotsController(
	cfg *config.Config,
	bus *events.Bus,
	fetcher Fetcher,
	cache common.CacheInterface,
	m *metrics.MetricsRegistry,
) *SpotsController {
	return &SpotsController{
		cfg:     cfg,
		bus:     bus,
		fetcher: fetcher,
		cache:   cache,
		metrics: m,
		parser:  adif.Parser{Lenient: cfg.LenientADIF},
		now:     time.Now,
	}
}

// Start subscribes the controller to its refresh topic.
func (c *SpotsController) Start() {
	c.unsubscribe = c.bus.Subscribe(events.RefreshSpots, func(interface{}) {
		c.Refresh(context.Background())
	})
}

// Stop detaches the controller from the bus.
func (c *SpotsController) Stop() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Refresh runs one full fetch/parse/publish cycle. A refresh arriving
// while one is in flight is dropped, not queued.
func (c *SpotsController) Refresh(ctx context.Context) {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.metrics.RefreshDropped.WithLabelValues("spots").Inc()
		logging.Warn("spots refresh dropped, previous still in flight")
		return
	}
	defer c.inFlight.Store(false)

	start := c.now()
	c.setLoading()
	c.publish()

	body, err := c.fetcher.Fetch(ctx, c.cfg.SpotsURL())
	if err != nil {
		c.metrics.FeedFetchesTotal.WithLabelValues("spots", "failure").Inc()
		logging.Error("spots fetch failed", "error", err.Error())
		c.setError(err.Error())
		c.publish()
		return
	}
	c.metrics.FeedFetchesTotal.WithLabelValues("spots", "success").Inc()

	parsed, stats := c.parser.Parse(body)
	c.metrics.SpotsParsedTotal.Add(float64(stats.Spots))
	c.metrics.SpotsDroppedTotal.Add(float64(stats.Dropped))
	logging.WithSource("spots").Infow("parsed spot feed",
		"records", stats.Records,
		"spots", stats.Spots,
		"dropped", stats.Dropped,
	)

	merged := c.retain(parsed)
	c.cache.Set(cacheKeySpots, merged, snapshotTTL)

	c.mu.Lock()
	c.lastUpdate = c.now()
	c.lastErr = ""
	c.loading = false
	c.mu.Unlock()

	c.metrics.RefreshDuration.WithLabelValues("spots").Observe(c.now().Sub(start).Seconds())
	c.publish()
}

// Snapshot returns the current spots state for API handlers.
func (c *SpotsController) Snapshot() models.SpotsUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateLocked()
}

// retain applies the configured retention policy to a freshly parsed
// batch and returns the new working set, newest first.
func (c *SpotsController) retain(incoming []models.Spot) []models.Spot {
	var merged []models.Spot

	switch c.cfg.SpotRetention {
	case config.RetentionAccumulate:
		cutoff := c.now().Add(-spotRetentionWindow).Unix()
		prior, _ := c.cachedSpots()

		type key struct {
			ts       int64
			callsign string
		}
		seen := make(map[key]struct{}, len(incoming)+len(prior))
		for _, batch := range [][]models.Spot{incoming, prior} {
			for _, s := range batch {
				if s.TimestampSeconds < cutoff {
					continue
				}
				k := key{s.TimestampSeconds, s.Callsign}
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				merged = append(merged, s)
			}
		}
	default:
		merged = append(merged, incoming...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TimestampSeconds > merged[j].TimestampSeconds
	})
	return merged
}

func (c *SpotsController) setLoading() {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
}

func (c *SpotsController) setError(msg string) {
	c.mu.Lock()
	c.lastErr = msg
	c.loading = false
	c.mu.Unlock()
}

// cachedSpots reads the last-known-good spot set from the cache. A
// miss after a successful refresh means the snapshot aged out.
func (c *SpotsController) cachedSpots() ([]models.Spot, bool) {
	v, ok := c.cache.Get(cacheKeySpots)
	if !ok {
		return nil, false
	}
	spots, ok := v.([]models.Spot)
	return spots, ok
}

func (c *SpotsController) updateLocked() models.SpotsUpdate {
	spots, ok := c.cachedSpots()
	upd := models.SpotsUpdate{
		IsLoading:  c.loading,
		Error:      c.lastErr,
		Spots:      spots,
		LastUpdate: c.lastUpdate,
	}
	if !ok && upd.Error == "" && !c.lastUpdate.IsZero() {
		upd.Error = "spot data expired"
	}
	if !c.lastUpdate.IsZero() {
		upd.NextUpdate = c.lastUpdate.Add(c.cfg.Interval("spots"))
	}
	return upd
}

func (c *SpotsController) publish() {
	c.mu.Lock()
	upd := c.updateLocked()
	c.mu.Unlock()

	c.bus.Publish(events.SpotsUpdated, upd)
	c.metrics.EventsPublishedTotal.WithLabelValues(events.SpotsUpdated).Inc()
}
