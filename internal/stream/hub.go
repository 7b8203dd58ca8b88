// Package stream fans order update events out to live subscribers.
// Delivery is push-based with no sequence numbers: a subscriber that
// falls behind is dropped and is expected to refetch its page.
package stream

import (
	"log"
	"sync"

	"blood-orders/internal/orders"
)

// DefaultBuffer is the per-subscriber channel depth
const DefaultBuffer = 16

// Subscription is one live feed of update events for a hospital. The
// Events channel is closed when the subscriber is dropped or the hub
// stops.
type Subscription struct {
	hub        *Hub
	hospitalID string
	events     chan orders.UpdateEvent
}

// Events returns the subscriber's event channel
func (s *Subscription) Events() <-chan orders.UpdateEvent {
	return s.events
}

// Close detaches the subscription from the hub
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

type hubAction struct {
	subscribe   *Subscription
	unsubscribe *Subscription
	publish     *publishAction
}

type publishAction struct {
	hospitalID string
	event      orders.UpdateEvent
}

// Hub routes update events to the subscribers of the matching
// hospital. A single goroutine owns all subscriber state, so events
// published in order are delivered to each subscriber in order.
type Hub struct {
	actions chan hubAction

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewHub creates a hub; call Start before use
func NewHub() *Hub {
	return &Hub{
		actions: make(chan hubAction, 64),
	}
}

// Start launches the hub's event loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.loop()
}

// Stop shuts the hub down and closes every subscription
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	close(h.actions)
	h.mu.Unlock()

	h.wg.Wait()
}

// Subscribe registers a feed for one hospital. buffer <= 0 uses
// DefaultBuffer.
func (h *Hub) Subscribe(hospitalID string, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	sub := &Subscription{
		hub:        h,
		hospitalID: hospitalID,
		events:     make(chan orders.UpdateEvent, buffer),
	}
	if !h.send(hubAction{subscribe: sub}) {
		close(sub.events)
	}
	return sub
}

// Publish delivers an event to every subscriber of the hospital.
// Publishing to a stopped hub is a no-op.
func (h *Hub) Publish(hospitalID string, event orders.UpdateEvent) {
	h.send(hubAction{publish: &publishAction{hospitalID: hospitalID, event: event}})
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.send(hubAction{unsubscribe: sub})
}

func (h *Hub) send(action hubAction) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.actions <- action
	return true
}

func (h *Hub) loop() {
	defer h.wg.Done()

	subs := make(map[string]map[*Subscription]struct{})

	for action := range h.actions {
		switch {
		case action.subscribe != nil:
			sub := action.subscribe
			if subs[sub.hospitalID] == nil {
				subs[sub.hospitalID] = make(map[*Subscription]struct{})
			}
			subs[sub.hospitalID][sub] = struct{}{}

		case action.unsubscribe != nil:
			sub := action.unsubscribe
			if _, ok := subs[sub.hospitalID][sub]; ok {
				delete(subs[sub.hospitalID], sub)
				close(sub.events)
			}

		case action.publish != nil:
			pub := action.publish
			for sub := range subs[pub.hospitalID] {
				select {
				case sub.events <- pub.event:
				default:
					// Subscriber fell behind; drop it rather than block the
					// hub. The closed channel tells the client to refetch.
					log.Printf("stream: dropping slow subscriber for hospital %s", pub.hospitalID)
					delete(subs[pub.hospitalID], sub)
					close(sub.events)
				}
			}
		}
	}

	for _, group := range subs {
		for sub := range group {
			close(sub.events)
		}
	}
}
