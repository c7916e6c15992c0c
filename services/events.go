package services

import (
	"context"
	"sync"
	"time"

	"faculty-management-api/config"
	"faculty-management-api/models"

	"go.uber.org/zap"
)

// Event types carried on the hub.
const (
	EventRequestCreated  = "request.created"
	EventRequestReviewed = "request.reviewed"
	EventRequestRemoved  = "request.removed"
)

// Event is an entity-changed signal. Delivery is best effort.
type Event struct {
	Type        string               `json:"type"`
	Kind        models.RequestKind   `json:"kind"`
	RequestID   string               `json:"request_id"`
	OldStatus   models.RequestStatus `json:"old_status,omitempty"`
	NewStatus   models.RequestStatus `json:"new_status"`
	ActorID     uint                 `json:"actor_id,omitempty"`
	SubmitterID *uint                `json:"submitter_id,omitempty"`
	Department  string               `json:"department"`
	Notes       *string              `json:"notes,omitempty"`
	OccurredAt  time.Time            `json:"occurred_at"`
	// Origin identifies the instance that published the event when it
	// travelled through Redis.
	Origin string `json:"origin,omitempty"`
}

// EventPublisher is what the workflow needs from the notification side.
// Implementations must not block and must not fail the caller.
type EventPublisher interface {
	Publish(ctx context.Context, evt Event)
}

// EventHub is an in-process publish/subscribe channel. Slow subscribers lose
// events rather than blocking publishers.
type EventHub struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	buffer int
}

func NewEventHub(buffer int) *EventHub {
	if buffer <= 0 {
		buffer = 64
	}
	return &EventHub{subs: make(map[int]chan Event), buffer: buffer}
}

func (h *EventHub) Publish(_ context.Context, evt Event) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- evt:
		default:
			config.Log.Warn("event dropped for slow subscriber",
				zap.Int("subscriber", id),
				zap.String("type", evt.Type),
				zap.String("request_id", evt.RequestID))
		}
	}
}

// Subscribe registers a listener. The returned func unsubscribes and closes the channel.
func (h *EventHub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the current listener count.
func (h *EventHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
