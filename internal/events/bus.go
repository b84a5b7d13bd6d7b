// Package events provides the in-process publish/subscribe bus that
// decouples data-source controllers from renderers. The bus is a
// constructed object handed to its users, never a package-level global.
package events

import (
	"sync"

	"ham-kiosk/dashboard/internal/logging"
)

// Topic names shared by controllers, scheduler and renderers.
const (
	RefreshSpots = "refresh_spots"
	RefreshSolar = "refresh_solar"
	RefreshBands = "refresh_bands"
	RefreshQuote = "refresh_quote"

	SpotsUpdated = "spots_updated"
	SolarUpdated = "solar_updated"
	BandsUpdated = "bands_updated"
	QuoteUpdated = "quote_updated"
)

// Handler receives the payload published on a topic. Handlers must treat
// the payload as a read-only snapshot.
type Handler func(payload interface{})

type subscriber struct {
	id      int
	handler Handler
}

// Bus delivers events synchronously to subscribers in subscription order.
// A panicking subscriber is contained and logged; delivery continues to
// the remaining subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	topics map[string][]subscriber
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{topics: make(map[string][]subscriber)}
}

// Subscribe registers a handler for a topic and returns its unsubscribe
// function.
func (b *Bus) Subscribe(topic string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := subscriber{id: b.nextID, handler: handler}
	b.topics[topic] = append(b.topics[topic], sub)

	id := sub.id
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.topics[topic]
		for i, s := range subs {
			if s.id == id {
				b.topics[topic] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers payload to every current subscriber of topic, in the
// order they subscribed, on the caller's goroutine.
func (b *Bus) Publish(topic string, payload interface{}) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.topics[topic]))
	copy(subs, b.topics[topic])
	b.mu.RUnlock()

	for _, s := range subs {
		deliver(topic, s, payload)
	}
}

func deliver(topic string, s subscriber, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("event subscriber panicked",
				"topic", topic,
				"subscriber_id", s.id,
				"panic", r,
			)
		}
	}()
	s.handler(payload)
}
