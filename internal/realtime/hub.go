package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// Subscription receives events for one topic until cancelled.
type Subscription struct {
	C     <-chan Event
	ch    chan Event
	topic string
	hub   *Hub
	once  sync.Once
}

// Cancel removes the subscription and closes its channel.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub is an in-process topic fan-out. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	logger zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		logger: logger.With().Str("component", "realtime-hub").Logger(),
	}
}

// Subscribe registers a subscriber for topic.
func (h *Hub) Subscribe(topic string, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan Event, buffer)
	s := &Subscription{C: ch, ch: ch, topic: topic, hub: h}

	h.mu.Lock()
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*Subscription]struct{})
	}
	h.subs[topic][s] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug().Str("topic", topic).Msg("subscriber added")
	return s
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[s.topic]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, s.topic)
		}
	}
	close(s.ch)
}

// Publish delivers e to every subscriber of e.Topic.
func (h *Hub) Publish(_ context.Context, e Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs[e.Topic] {
		select {
		case s.ch <- e:
		default:
			h.logger.Warn().
				Str("topic", e.Topic).
				Str("type", e.Type).
				Msg("subscriber buffer full, dropping event")
		}
	}
	return nil
}

// Subscribers returns the number of subscribers of topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}
