// Package hub fans out change events to connected real-time subscribers.
package hub

import (
	"log/slog"
	"sync"
)

// Topic names the channels a subscriber can join.
const (
	TopicTasks    = "tasks"
	TopicPomodoro = "pomodoro"
)

// subscriber queue depth. A consumer that falls this far behind starts
// losing events and must resynchronize with a full fetch.
const subscriberBuffer = 32

// Subscriber receives events for the topics it joined. Events arrive on C in
// publish order per topic.
type Subscriber struct {
	C chan Event

	id     uint64
	topics map[string]struct{}
}

// Hub maintains the subscriber set and delivers published events. Delivery to
// one subscriber never blocks delivery to the others.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*Subscriber
	logger *slog.Logger
}

// New constructs an empty hub.
func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[uint64]*Subscriber),
		logger: logger,
	}
}

// Subscribe registers a new subscriber for the given topics and returns its
// handle. The caller owns the handle and must Unsubscribe it when done.
func (h *Hub) Subscribe(topics ...string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscriber{
		C:      make(chan Event, subscriberBuffer),
		id:     h.nextID,
		topics: make(map[string]struct{}, len(topics)),
	}
	for _, topic := range topics {
		sub.topics[topic] = struct{}{}
	}
	h.subs[sub.id] = sub
	return sub
}

// Unsubscribe removes the subscriber and closes its channel. Calling it again
// for the same subscriber is a no-op.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	close(sub.C)
}

// Publish delivers the event to every subscriber of the topic, including the
// one whose request triggered it. A subscriber with a full queue is skipped;
// the drop is logged and the remaining deliveries proceed.
func (h *Hub) Publish(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if _, ok := sub.topics[topic]; !ok {
			continue
		}
		select {
		case sub.C <- event:
		default:
			h.logger.Warn("dropping event for slow subscriber",
				slog.String("topic", topic),
				slog.String("event", event.Type),
				slog.Uint64("subscriber", sub.id))
		}
	}
}

// SubscriberCount reports how many subscribers are currently registered.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
