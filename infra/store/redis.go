package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mochapay/mocha/pkg/domain/session"
	"github.com/mochapay/mocha/pkg/provider"
	"github.com/mochapay/mocha/pkg/store"
	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 5

// Redis keeps encoded sessions under prefix+id with a TTL refreshed on
// every write. Updates use WATCH/MULTI so concurrent writers never lose
// each other's changes.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

// NewRedisFromURL connects to a redis:// URL. Options may adjust the
// parsed client options, such as pool size and timeouts.
func NewRedisFromURL(
	url, prefix string,
	ttl time.Duration,
	logger *slog.Logger,
	options ...func(*redis.Options),
) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	for _, o := range options {
		o(opt)
	}
	return NewRedis(redis.NewClient(opt), prefix, ttl, logger), nil
}

func (r *Redis) key(id string) string {
	return r.prefix + id
}

// Client returns the underlying client.
func (r *Redis) Client() *redis.Client {
	return r.client
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// CheckHealth pings the server.
func (r *Redis) CheckHealth(ctx context.Context) error {
	if err := r.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", provider.ErrProviderUnavailable, err)
	}
	return nil
}

// Metadata describes the store for health reports.
func (r *Redis) Metadata() provider.Metadata {
	return provider.Metadata{Name: "redis_session_store", Version: "1.0.0", IsActive: true}
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Create stores a new session unless the id is taken.
func (r *Redis) Create(ctx context.Context, s *session.Session) error {
	data, err := session.Encode(s)
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, r.key(s.ID), data, r.ttl).Result()
	if err != nil {
		r.logger.Error("Redis session create error", "id", s.ID, "error", err)
		return err
	}
	if !ok {
		return store.ErrExists
	}
	r.logger.Debug("Redis session created", "id", s.ID, "ttl", r.ttl)
	return nil
}

// Get loads a session.
func (r *Redis) Get(ctx context.Context, id string) (*session.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis session miss", "id", id)
		return nil, store.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Redis session get error", "id", id, "error", err)
		return nil, err
	}
	return session.Decode(data)
}

// Update applies fn inside an optimistic transaction, retrying when the
// key changed underneath it.
func (r *Redis) Update(ctx context.Context, id string, fn store.UpdateFunc) (*session.Session, error) {
	key := r.key(id)
	var updated *session.Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}
		s, err := session.Decode(data)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		out, err := session.Encode(s)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, r.ttl)
			return nil
		})
		if err == nil {
			updated = s
		}
		return err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			r.logger.Debug("Redis session update conflict", "id", id, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("%w: %s", store.ErrConflict, id)
}

// Delete removes a session.
func (r *Redis) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		r.logger.Error("Redis session delete error", "id", id, "error", err)
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
