// Package eventbus fans session events out to in-process subscribers.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mochapay/mocha/pkg/eventbus"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 64

type subscription struct {
	sessionID string
	ch        chan eventbus.Event
}

// C delivers events. It is closed on teardown.
func (s *subscription) C() <-chan eventbus.Event { return s.ch }

var _ eventbus.Bus = (*Hub)(nil)

// Hub is an in-memory publisher with subscriptions scoped to a session id.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscription]struct{}
	buffer int
	logger *slog.Logger
	gauge  prometheus.Gauge
}

// NewHub creates a hub whose subscribers queue up to buffer events.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[string]map[*subscription]struct{}),
		buffer: buffer,
		logger: logger.With("bus", "memory"),
	}
}

// WithGauge reports the number of open subscriptions on g.
func (h *Hub) WithGauge(g prometheus.Gauge) *Hub {
	h.gauge = g
	return h
}

// Subscribe opens a subscription to sessionID. The returned func tears it
// down; calling it more than once is safe.
func (h *Hub) Subscribe(sessionID string) (eventbus.Subscription, func()) {
	sub := &subscription{sessionID: sessionID, ch: make(chan eventbus.Event, h.buffer)}

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[*subscription]struct{})
	}
	h.subs[sessionID][sub] = struct{}{}
	h.mu.Unlock()
	if h.gauge != nil {
		h.gauge.Inc()
	}

	var once sync.Once
	return sub, func() {
		once.Do(func() { h.remove(sub) })
	}
}

func (h *Hub) remove(sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[sub.sessionID]
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.sessionID)
	}
	close(sub.ch)
	if h.gauge != nil {
		h.gauge.Dec()
	}
}

// Publish delivers e to every subscriber of its session. Subscribers whose
// queue is full miss the event.
func (h *Hub) Publish(_ context.Context, e eventbus.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[e.SessionID] {
		select {
		case sub.ch <- e:
		default:
			h.logger.Warn("dropping event for slow subscriber",
				"session_id", e.SessionID, "type", e.Type, "version", e.Version)
		}
	}
}

// Count returns the number of open subscriptions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}

// Close tears down every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*subscription
	for _, set := range h.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	h.mu.Unlock()
	for _, sub := range all {
		h.remove(sub)
	}
}

// Ensure Hub implements the Publisher interface.
var _ eventbus.Publisher = (*Hub)(nil)
