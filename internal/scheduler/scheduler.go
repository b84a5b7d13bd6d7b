// Package scheduler fires periodic "refresh requested" signals per data
// source. It holds no data: the per-source controllers subscribed on the
// bus do the actual fetching and parsing.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ham-kiosk/dashboard/internal/events"
	"ham-kiosk/dashboard/internal/logging"
)

// Source names match the config's interval keys.
const (
	SourceSpots  = "spots"
	SourceSolar  = "solar"
	SourceBands  = "bands"
	SourceQuotes = "quotes"
)

// refreshTopics maps a source to its inbound bus topic.
var refreshTopics = map[string]string{
	SourceSpots:  events.RefreshSpots,
	SourceSolar:  events.RefreshSolar,
	SourceBands:  events.RefreshBands,
	SourceQuotes: events.RefreshQuote,
}

// Scheduler owns one repeating timer per data source.
type Scheduler struct {
	bus *events.Bus

	mu        sync.Mutex
	cron      *cron.Cron
	entries   map[string]cron.EntryID
	intervals map[string]time.Duration
	active    bool
}

// New builds a scheduler over the given per-source intervals.
func New(bus *events.Bus, intervals map[string]time.Duration) *Scheduler {
	return &Scheduler{
		bus:       bus,
		cron:      cron.New(),
		entries:   make(map[string]cron.EntryID),
		intervals: intervals,
	}
}

// Start fires every source's refresh once immediately, then arms the
// repeating timers. Starting an active scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	intervals := s.intervals
	s.mu.Unlock()

	for source, interval := range intervals {
		// Immediate first fire so the display populates without
		// waiting a full interval.
		s.RefreshNow(source)
		if err := s.schedule(source, interval); err != nil {
			logging.Error("failed to schedule refresh", "source", source, "error", err.Error())
		}
	}

	s.cron.Start()
	logging.Info("refresh scheduler started", "sources", len(intervals))
}

// Stop cancels all timers. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	for source, id := range s.entries {
		s.cron.Remove(id)
		delete(s.entries, source)
	}
	<-s.cron.Stop().Done()
	logging.Info("refresh scheduler stopped")
}

// RefreshNow publishes a single refresh signal for source, outside its
// regular cadence. Unknown sources are logged and ignored.
func (s *Scheduler) RefreshNow(source string) {
	topic, ok := refreshTopics[source]
	if !ok {
		logging.Warn("refresh requested for unknown source", "source", source)
		return
	}
	s.bus.Publish(topic, nil)
}

// KnownSource reports whether source has a refresh topic.
func KnownSource(source string) bool {
	_, ok := refreshTopics[source]
	return ok
}

// schedule arms (or replaces) the repeating timer for one source.
func (s *Scheduler) schedule(source string, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("non-positive interval for %s", source)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[source]; ok {
		s.cron.Remove(old)
	}

	src := source
	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.RefreshNow(src)
	})
	if err != nil {
		return err
	}
	s.entries[source] = id
	logging.Info("scheduled refresh", "source", source, "interval", interval.String())
	return nil
}

// EntryCount reports how many source timers are armed.
func (s *Scheduler) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
