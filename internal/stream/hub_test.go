package stream

import (
	"testing"
	"time"

	"blood-orders/internal/orders"
)

func event(id string) orders.UpdateEvent {
	return orders.UpdateEvent{
		ID:        id,
		Status:    orders.StatusConfirmed,
		UpdatedAt: time.Now(),
	}
}

func recv(t *testing.T, sub *Subscription) orders.UpdateEvent {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return orders.UpdateEvent{}
}

func TestHub_DeliversInPublishOrder(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	sub := hub.Subscribe("h1", 8)
	defer sub.Close()

	for _, id := range []string{"O1", "O2", "O3"} {
		hub.Publish("h1", event(id))
	}

	for _, want := range []string{"O1", "O2", "O3"} {
		if got := recv(t, sub); got.ID != want {
			t.Fatalf("out of order: got %s, want %s", got.ID, want)
		}
	}
}

func TestHub_ScopesByHospital(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	h1 := hub.Subscribe("h1", 8)
	h2 := hub.Subscribe("h2", 8)
	defer h1.Close()
	defer h2.Close()

	hub.Publish("h2", event("O1"))

	if got := recv(t, h2); got.ID != "O1" {
		t.Fatalf("h2 expected O1, got %s", got.ID)
	}
	select {
	case ev := <-h1.Events():
		t.Fatalf("h1 received another hospital's event: %s", ev.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	sub := hub.Subscribe("h1", 1)
	probe := hub.Subscribe("h1", 8)
	defer probe.Close()

	// Fill the buffer, then overflow it.
	hub.Publish("h1", event("O1"))
	hub.Publish("h1", event("O2"))

	// The probe confirms both publishes were fully processed before the
	// slow subscriber is read, so the overflow has already happened.
	recv(t, probe)
	recv(t, probe)

	// First event is readable; the channel must then close, signaling
	// the client to fall back to a full refetch.
	if got := recv(t, sub); got.ID != "O1" {
		t.Fatalf("expected buffered O1, got %s", got.ID)
	}

	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Fatal("expected closed channel after overflow")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestHub_StopClosesSubscriptions(t *testing.T) {
	hub := NewHub()
	hub.Start()

	sub := hub.Subscribe("h1", 8)
	hub.Stop()

	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Fatal("expected closed channel after Stop")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}

	// Publishing and subscribing after Stop must not panic.
	hub.Publish("h1", event("O9"))
	late := hub.Subscribe("h1", 8)
	if _, ok := <-late.Events(); ok {
		t.Fatal("late subscription must start closed")
	}
}
