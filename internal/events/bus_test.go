package events

import "testing"

func TestBusPublish(t *testing.T) {
	bus := NewBus[int]()

	var got []int
	sub := bus.Subscribe(func(v int) { got = append(got, v) })
	defer sub.Unsubscribe()

	bus.Publish(1)
	bus.Publish(2)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected [1 2], got %v", got)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus[string]()

	count := 0
	sub := bus.Subscribe(func(string) { count++ })

	bus.Publish("a")
	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent
	bus.Publish("b")

	if count != 1 {
		t.Errorf("expected 1 delivery, got %d", count)
	}
	if bus.Len() != 0 {
		t.Errorf("expected 0 subscribers, got %d", bus.Len())
	}
}

func TestBusClose(t *testing.T) {
	bus := NewBus[int]()

	count := 0
	bus.Subscribe(func(int) { count++ })
	bus.Close()
	bus.Publish(1)

	if count != 0 {
		t.Error("publish after close should deliver to no one")
	}

	sub := bus.Subscribe(func(int) { count++ })
	bus.Publish(2)
	sub.Unsubscribe()

	if count != 0 {
		t.Error("subscribe after close should be inert")
	}
}
