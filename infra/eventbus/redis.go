package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/mochapay/mocha/pkg/eventbus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// subscribeTimeout bounds the wait for Redis to confirm a subscription.
const subscribeTimeout = 5 * time.Second

// wireEvent is an Event as it travels through Redis. Data stays raw so
// it is written out again unchanged.
type wireEvent struct {
	Type      eventbus.Type   `json:"type"`
	SessionID string          `json:"session_id"`
	Version   uint64          `json:"version"`
	At        time.Time       `json:"at"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Redis publishes session events on one pub/sub channel per session, so
// every instance sharing the Redis session store streams them. Events
// received from Redis carry their Data as json.RawMessage.
type Redis struct {
	client *redis.Client
	prefix string
	buffer int
	logger *slog.Logger
	gauge  prometheus.Gauge

	mu   sync.Mutex
	subs map[*subscription]func()
}

var _ eventbus.Bus = (*Redis)(nil)

// NewRedis creates a bus on client using channels named prefix+sessionID.
func NewRedis(client *redis.Client, prefix string, buffer int, logger *slog.Logger) *Redis {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Redis{
		client: client,
		prefix: prefix,
		buffer: buffer,
		logger: logger.With("bus", "redis"),
		subs:   make(map[*subscription]func()),
	}
}

// WithGauge reports the number of open subscriptions on g.
func (r *Redis) WithGauge(g prometheus.Gauge) *Redis {
	r.gauge = g
	return r
}

// Publish sends e to the session's channel. Failures are logged, not returned.
func (r *Redis) Publish(ctx context.Context, e eventbus.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		r.logger.Error("failed to marshal event", "type", e.Type, "session_id", e.SessionID, "error", err)
		return
	}
	if err := r.client.Publish(ctx, r.prefix+e.SessionID, payload).Err(); err != nil {
		r.logger.Warn("failed to publish event", "type", e.Type, "session_id", e.SessionID, "error", err)
	}
}

// Subscribe listens on the session's channel. It returns once Redis has
// confirmed the subscription, so nothing published afterwards is missed.
func (r *Redis) Subscribe(sessionID string) (eventbus.Subscription, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), subscribeTimeout)
	defer cancel()

	ps := r.client.Subscribe(ctx, r.prefix+sessionID)
	if _, err := ps.Receive(ctx); err != nil {
		r.logger.Warn("redis subscription not confirmed", "session_id", sessionID, "error", err)
	}

	sub := &subscription{sessionID: sessionID, ch: make(chan eventbus.Event, r.buffer)}
	done := make(chan struct{})
	go r.forward(ps, sub, done)

	var once sync.Once
	teardown := func() {
		once.Do(func() {
			_ = ps.Close()
			<-done
			r.mu.Lock()
			delete(r.subs, sub)
			r.mu.Unlock()
			if r.gauge != nil {
				r.gauge.Dec()
			}
		})
	}

	r.mu.Lock()
	r.subs[sub] = teardown
	r.mu.Unlock()
	if r.gauge != nil {
		r.gauge.Inc()
	}
	return sub, teardown
}

func (r *Redis) forward(ps *redis.PubSub, sub *subscription, done chan<- struct{}) {
	defer close(done)
	defer close(sub.ch)
	for msg := range ps.Channel() {
		var w wireEvent
		if err := json.Unmarshal([]byte(msg.Payload), &w); err != nil {
			r.logger.Error("failed to decode event", "channel", msg.Channel, "error", err)
			continue
		}
		e := eventbus.Event{Type: w.Type, SessionID: w.SessionID, Version: w.Version, At: w.At}
		if len(w.Data) > 0 {
			e.Data = w.Data
		}
		select {
		case sub.ch <- e:
		default:
			r.logger.Warn("dropping event for slow subscriber",
				"session_id", e.SessionID, "type", e.Type, "version", e.Version)
		}
	}
}

// Count returns the number of open subscriptions.
func (r *Redis) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Close tears down every subscription. The client is left open.
func (r *Redis) Close() {
	r.mu.Lock()
	teardowns := make([]func(), 0, len(r.subs))
	for _, t := range r.subs {
		teardowns = append(teardowns, t)
	}
	r.mu.Unlock()
	for _, t := range teardowns {
		t()
	}
}
