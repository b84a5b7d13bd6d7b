package events

import (
	"testing"
)

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe("topic", func(payload interface{}) {
		order = append(order, "first")
	})
	bus.Subscribe("topic", func(payload interface{}) {
		order = append(order, "second")
	})

	bus.Publish("topic", nil)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected [first second], got %v", order)
	}
}

func TestBus_PanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	bus := NewBus()

	bus.Subscribe("topic", func(payload interface{}) {
		panic("boom")
	})

	delivered := false
	bus.Subscribe("topic", func(payload interface{}) {
		delivered = true
	})

	bus.Publish("topic", "data")

	if !delivered {
		t.Fatal("second subscriber was not reached after first panicked")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsub := bus.Subscribe("topic", func(payload interface{}) {
		calls++
	})

	bus.Publish("topic", nil)
	unsub()
	bus.Publish("topic", nil)

	if calls != 1 {
		t.Fatalf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestBus_PublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	bus.Publish("nobody-listening", 42)
}

func TestBus_PayloadPassedThrough(t *testing.T) {
	bus := NewBus()

	var got interface{}
	bus.Subscribe("topic", func(payload interface{}) {
		got = payload
	})

	bus.Publish("topic", "hello")

	if got != "hello" {
		t.Fatalf("expected payload hello, got %v", got)
	}
}
