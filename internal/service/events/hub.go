// Package events fans game change notifications out to live subscribers
// such as websocket and SSE connections.
package events

import (
	"context"
	"time"

	"github.com/zhouzirui/crud-games/backend/internal/model/game"
)

const (
	// TypeCreated is published after a game is stored.
	TypeCreated = "game.created"
	// TypeDeleted is published after a game is removed.
	TypeDeleted = "game.deleted"

	defaultBuffer = 16
)

// Event describes a single change to the game collection.
type Event struct {
	Type      string    `json:"type"`
	Game      game.Game `json:"game"`
	Timestamp int64     `json:"timestamp"`
}

// NewEvent stamps an event with the current time in milliseconds.
func NewEvent(eventType string, g game.Game) Event {
	return Event{Type: eventType, Game: g, Timestamp: time.Now().UnixMilli()}
}

// Subscription receives events until it is unsubscribed, dropped for being
// too slow, or the hub stops. In each case the channel is closed.
type Subscription struct {
	events chan Event
}

// Events returns the receive side of the subscription.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Hub maintains the set of active subscriptions and broadcasts events.
// All subscriber bookkeeping happens on the Run goroutine.
type Hub struct {
	buffer int

	subs map[*Subscription]struct{}

	publish     chan Event
	register    chan *Subscription
	unregister  chan *Subscription
	subscribers chan chan int

	done chan struct{}
}

// NewHub creates a hub whose subscriptions buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = defaultBuffer
	}
	return &Hub{
		buffer:      buffer,
		subs:        make(map[*Subscription]struct{}),
		publish:     make(chan Event),
		register:    make(chan *Subscription),
		unregister:  make(chan *Subscription),
		subscribers: make(chan chan int),
		done:        make(chan struct{}),
	}
}

// Run processes hub traffic until ctx is cancelled, then closes every
// subscription.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for sub := range h.subs {
				h.drop(sub)
			}
			return

		case sub := <-h.register:
			h.subs[sub] = struct{}{}

		case sub := <-h.unregister:
			h.drop(sub)

		case ev := <-h.publish:
			for sub := range h.subs {
				select {
				case sub.events <- ev:
				default:
					// Subscriber is not keeping up.
					h.drop(sub)
				}
			}

		case reply := <-h.subscribers:
			reply <- len(h.subs)
		}
	}
}

func (h *Hub) drop(sub *Subscription) {
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.events)
}

// Publish broadcasts ev to every subscription. It returns without
// delivering once the hub has stopped.
func (h *Hub) Publish(ev Event) {
	select {
	case h.publish <- ev:
	case <-h.done:
	}
}

// Subscribe registers a new subscription. On a stopped hub the returned
// subscription is already closed.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{events: make(chan Event, h.buffer)}
	select {
	case h.register <- sub:
	case <-h.done:
		close(sub.events)
	}
	return sub
}

// Unsubscribe removes sub and closes its channel. It is safe to call more
// than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Subscribers reports the number of active subscriptions, or 0 once the
// hub has stopped.
func (h *Hub) Subscribers() int {
	reply := make(chan int, 1)
	select {
	case h.subscribers <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}
