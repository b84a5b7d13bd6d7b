package scheduler

import (
	"testing"
	"time"

	"ham-kiosk/dashboard/internal/events"
)

func testIntervals() map[string]time.Duration {
	return map[string]time.Duration{
		SourceSpots:  time.Hour,
		SourceSolar:  time.Hour,
		SourceBands:  time.Hour,
		SourceQuotes: time.Hour,
	}
}

func TestStartFiresEverySourceImmediately(t *testing.T) {
	bus := events.NewBus()
	got := make(map[string]int)
	for _, topic := range []string{events.RefreshSpots, events.RefreshSolar, events.RefreshBands, events.RefreshQuote} {
		tp := topic
		bus.Subscribe(tp, func(any) { got[tp]++ })
	}

	s := New(bus, testIntervals())
	s.Start()
	defer s.Stop()

	for topic, n := range got {
		if n != 1 {
			t.Errorf("topic %s fired %d times at startup, want 1", topic, n)
		}
	}
	if len(got) != 4 {
		t.Errorf("got %d topics fired, want 4", len(got))
	}
	if s.EntryCount() != 4 {
		t.Errorf("EntryCount = %d, want 4", s.EntryCount())
	}
}

func TestStartIsIdempotent(t *testing.T) {
	bus := events.NewBus()
	fires := 0
	bus.Subscribe(events.RefreshSpots, func(any) { fires++ })

	s := New(bus, map[string]time.Duration{SourceSpots: time.Hour})
	s.Start()
	s.Start()
	defer s.Stop()

	if fires != 1 {
		t.Errorf("immediate fire count = %d after double Start, want 1", fires)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	bus := events.NewBus()
	s := New(bus, map[string]time.Duration{SourceSpots: time.Hour})
	s.Start()

	s.Stop()
	s.Stop()

	if s.EntryCount() != 0 {
		t.Errorf("EntryCount = %d after Stop, want 0", s.EntryCount())
	}
}

func TestRescheduleReplacesEntry(t *testing.T) {
	bus := events.NewBus()
	s := New(bus, map[string]time.Duration{SourceSpots: time.Hour})
	s.Start()
	defer s.Stop()

	if err := s.schedule(SourceSpots, 30*time.Minute); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if s.EntryCount() != 1 {
		t.Errorf("EntryCount = %d after reschedule, want 1", s.EntryCount())
	}
}

func TestScheduleRejectsNonPositiveInterval(t *testing.T) {
	s := New(events.NewBus(), nil)
	if err := s.schedule(SourceSpots, 0); err == nil {
		t.Error("schedule accepted a zero interval")
	}
}

func TestRefreshNowPublishesSingleSignal(t *testing.T) {
	bus := events.NewBus()
	fires := 0
	bus.Subscribe(events.RefreshSolar, func(any) { fires++ })

	s := New(bus, nil)
	s.RefreshNow(SourceSolar)
	if fires != 1 {
		t.Errorf("fires = %d, want 1", fires)
	}
}

func TestRefreshNowIgnoresUnknownSource(t *testing.T) {
	s := New(events.NewBus(), nil)
	s.RefreshNow("weather") // must not panic
}

func TestKnownSource(t *testing.T) {
	for _, src := range []string{SourceSpots, SourceSolar, SourceBands, SourceQuotes} {
		if !KnownSource(src) {
			t.Errorf("KnownSource(%q) = false", src)
		}
	}
	if KnownSource("weather") {
		t.Error(`KnownSource("weather") = true`)
	}
}
