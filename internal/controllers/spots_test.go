package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ham-kiosk/dashboard/internal/common"
	"ham-kiosk/dashboard/internal/config"
	"ham-kiosk/dashboard/internal/events"
	"ham-kiosk/dashboard/internal/metrics"
	"ham-kiosk/dashboard/internal/models"
)

// One registry for the whole test binary; promauto registers globally.
var testMetrics = metrics.NewMetricsRegistry()

type stubFetcher struct {
	mu      sync.Mutex
	body    string
	err     error
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (s *stubFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	return s.body, s.err
}

func (s *stubFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func adifRecord(date, tod, freq, call string) string {
	return fmt.Sprintf("<qso_date:8>%s<time_on:6>%s<freq:6>%s<operator:5>%s<my_gridsquare:4>FN32<mode:3>FT8<eor>",
		date, tod, freq, call)
}

func newTestCache() common.CacheInterface {
	return common.NewCacheService(60, 120)
}

func TestSpotsRefreshPublishesLoadingThenData(t *testing.T) {
	bus := events.NewBus()
	cfg := config.Default()
	f := &stubFetcher{body: adifRecord("20240301", "120000", "14.074", "W1AW")}

	var updates []models.SpotsUpdate
	bus.Subscribe(events.SpotsUpdated, func(p interface{}) {
		updates = append(updates, p.(models.SpotsUpdate))
	})

	c := NewSpotsController(cfg, bus, f, newTestCache(), testMetrics)
	c.Start()
	defer c.Stop()

	bus.Publish(events.RefreshSpots, nil)

	if len(updates) != 2 {
		t.Fatalf("got %d updates, want 2 (loading, data)", len(updates))
	}
	if !updates[0].IsLoading {
		t.Error("first update should be the loading state")
	}
	final := updates[1]
	if final.IsLoading || final.Error != "" {
		t.Fatalf("final update not clean: %+v", final)
	}
	if len(final.Spots) != 1 || final.Spots[0].Callsign != "W1AW" {
		t.Fatalf("unexpected spots: %+v", final.Spots)
	}
	if final.LastUpdate.IsZero() || !final.NextUpdate.After(final.LastUpdate) {
		t.Errorf("timestamps not set: last=%v next=%v", final.LastUpdate, final.NextUpdate)
	}
}

func TestSpotsFetchFailureKeepsPriorData(t *testing.T) {
	bus := events.NewBus()
	cfg := config.Default()
	f := &stubFetcher{body: adifRecord("20240301", "120000", "14.074", "W1AW")}

	c := NewSpotsController(cfg, bus, f, newTestCache(), testMetrics)
	c.Refresh(context.Background())

	f.mu.Lock()
	f.err = errors.New("upstream down")
	f.mu.Unlock()
	c.Refresh(context.Background())

	snap := c.Snapshot()
	if snap.Error == "" {
		t.Error("error not surfaced in snapshot")
	}
	if len(snap.Spots) != 1 {
		t.Errorf("prior spots lost on failure: %+v", snap.Spots)
	}
}

func TestSpotsErrorClearsOnNextSuccess(t *testing.T) {
	bus := events.NewBus()
	cfg := config.Default()
	f := &stubFetcher{err: errors.New("upstream down")}

	c := NewSpotsController(cfg, bus, f, newTestCache(), testMetrics)
	c.Refresh(context.Background())
	if c.Snapshot().Error == "" {
		t.Fatal("expected error after failed refresh")
	}

	f.mu.Lock()
	f.err = nil
	f.body = adifRecord("20240301", "120000", "14.074", "W1AW")
	f.mu.Unlock()
	c.Refresh(context.Background())

	if got := c.Snapshot().Error; got != "" {
		t.Errorf("error not cleared after success: %q", got)
	}
}

func TestSpotsReplaceRetentionSwapsWholeSet(t *testing.T) {
	bus := events.NewBus()
	cfg := config.Default()
	cfg.SpotRetention = config.RetentionReplace
	f := &stubFetcher{body: adifRecord("20240301", "120000", "14.074", "W1AW")}

	c := NewSpotsController(cfg, bus, f, newTestCache(), testMetrics)
	c.Refresh(context.Background())

	f.mu.Lock()
	f.body = adifRecord("20240301", "130000", "7.074", "K2ABC")
	f.mu.Unlock()
	c.Refresh(context.Background())

	snap := c.Snapshot()
	if len(snap.Spots) != 1 || snap.Spots[0].Callsign != "K2ABC" {
		t.Fatalf("replace retention kept old spots: %+v", snap.Spots)
	}
}

func TestSpotsAccumulateRetentionMergesAndDedupes(t *testing.T) {
	bus := events.NewBus()
	cfg := config.Default()
	cfg.SpotRetention = config.RetentionAccumulate

	base := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	f := &stubFetcher{body: adifRecord("20240301", "120000", "14.074", "W1AW")}

	c := NewSpotsController(cfg, bus, f, newTestCache(), testMetrics)
	c.now = func() time.Time { return base }
	c.Refresh(context.Background())

	// Second batch repeats W1AW at the same time and adds a newer spot
	// plus one outside the retention window.
	f.mu.Lock()
	f.body = adifRecord("20240301", "120000", "14.074", "W1AW") +
		adifRecord("20240301", "130000", "7.074", "K2ABC") +
		adifRecord("20240229", "100000", "3.573", "N0OLD")
	f.mu.Unlock()
	c.Refresh(context.Background())

	snap := c.Snapshot()
	if len(snap.Spots) != 2 {
		t.Fatalf("got %d spots, want 2 (dedupe + window): %+v", len(snap.Spots), snap.Spots)
	}
	if snap.Spots[0].Callsign != "K2ABC" || snap.Spots[1].Callsign != "W1AW" {
		t.Errorf("spots not newest first: %+v", snap.Spots)
	}
}

func TestSpotsOverlappingRefreshIsDropped(t *testing.T) {
	bus := events.NewBus()
	cfg := config.Default()
	f := &stubFetcher{
		body:    adifRecord("20240301", "120000", "14.074", "W1AW"),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	c := NewSpotsController(cfg, bus, f, newTestCache(), testMetrics)

	done := make(chan struct{})
	go func() {
		c.Refresh(context.Background())
		close(done)
	}()
	<-f.entered

	// Arrives while the first is blocked in fetch; must not fetch again.
	c.Refresh(context.Background())

	close(f.release)
	<-done

	if got := f.callCount(); got != 1 {
		t.Errorf("fetch called %d times, want 1", got)
	}
}

func TestSpotsSnapshotExpiresFromCache(t *testing.T) {
	bus := events.NewBus()
	cfg := config.Default()
	f := &stubFetcher{body: adifRecord("20240301", "120000", "14.074", "W1AW")}
	cache := newTestCache()

	c := NewSpotsController(cfg, bus, f, cache, testMetrics)
	c.Refresh(context.Background())
	if len(c.Snapshot().Spots) != 1 {
		t.Fatal("expected one spot after refresh")
	}

	cache.Delete(cacheKeySpots)

	snap := c.Snapshot()
	if len(snap.Spots) != 0 {
		t.Errorf("expired snapshot still serves spots: %+v", snap.Spots)
	}
	if snap.Error == "" {
		t.Error("expired snapshot should surface an error")
	}
	if snap.LastUpdate.IsZero() {
		t.Error("last update time should survive expiry")
	}
}
