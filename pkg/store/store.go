// Package store defines where transfer sessions live between requests.
package store

import (
	"context"
	"errors"

	"github.com/mochapay/mocha/pkg/domain/session"
)

var (
	// ErrNotFound is returned for an unknown or expired session id.
	ErrNotFound = errors.New("session not found")
	// ErrExists is returned when creating a session whose id is taken.
	ErrExists = errors.New("session already exists")
	// ErrConflict is returned when an update kept losing to concurrent writers.
	ErrConflict = errors.New("session changed concurrently")
)

// UpdateFunc mutates a session in place. Returning an error discards the mutation.
type UpdateFunc func(s *session.Session) error

// Store persists sessions for a limited time. Every read returns a copy
// the caller owns.
type Store interface {
	Create(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, id string) (*session.Session, error)
	// Update applies fn atomically and returns the stored result.
	Update(ctx context.Context, id string, fn UpdateFunc) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}
