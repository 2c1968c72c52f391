package rules

import "testing"

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	played := 0
	moved := 0

	handle1 := bus.SubscribeTyped(EventUnitPlayed, func(Event) {
		played++
	})
	bus.SubscribeTyped(EventUnitMoved, func(Event) {
		moved++
	})

	bus.Publish(NewEvent(EventUnitPlayed, 0))
	if played != 1 || moved != 0 {
		t.Fatalf("expected 1/0, got %d/%d", played, moved)
	}

	bus.Publish(NewEvent(EventUnitMoved, 1))
	if played != 1 || moved != 1 {
		t.Fatalf("expected 1/1, got %d/%d", played, moved)
	}

	bus.Unsubscribe(handle1)
	bus.Publish(NewEvent(EventUnitPlayed, 0))
	if played != 1 {
		t.Fatalf("unsubscribed listener fired, count %d", played)
	}
}

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus()

	var seen []EventType
	handle := bus.Subscribe(func(e Event) {
		seen = append(seen, e.Type)
	})
	if handle < 0 {
		t.Fatal("expected a valid handle")
	}
	if bus.Subscribe(nil) != -1 || bus.SubscribeTyped(EventGameOver, nil) != -1 {
		t.Fatal("nil listeners must be rejected")
	}

	bus.Publish(NewEvent(EventTurnEnded, 0))
	bus.Publish(NewEvent(EventGameOver, 1))
	if len(seen) != 2 || seen[0] != EventTurnEnded || seen[1] != EventGameOver {
		t.Fatalf("unexpected events %v", seen)
	}
}

func TestNewEventStampsTime(t *testing.T) {
	e := NewEvent(EventCardDrawn, 1)
	if e.Timestamp.IsZero() {
		t.Fatal("expected timestamp")
	}
	if e.Player != 1 {
		t.Fatalf("expected player 1, got %d", e.Player)
	}
}

func TestEventBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()

	var order []int
	handles := make([]int, 0, 8)
	for i := 0; i < 8; i++ {
		i := i
		handles = append(handles, bus.Subscribe(func(Event) {
			order = append(order, i)
		}))
	}
	bus.Unsubscribe(handles[3])

	for round := 0; round < 20; round++ {
		order = order[:0]
		bus.Publish(NewEvent(EventCardDrawn, 0))
		want := []int{0, 1, 2, 4, 5, 6, 7}
		if len(order) != len(want) {
			t.Fatalf("round %d: expected %v, got %v", round, want, order)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("round %d: expected %v, got %v", round, want, order)
			}
		}
	}
}
