// Package store implements session storage in process memory and in Redis.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/mochapay/mocha/pkg/domain/session"
	"github.com/mochapay/mocha/pkg/sim"
	"github.com/mochapay/mocha/pkg/store"
)

// Memory keeps encoded sessions in a map. Entries expire ttl after their
// last write and are removed by a periodic sweep.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	clock   sim.Clock

	stop     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemory creates an in-memory store. A positive sweepInterval starts a
// cleanup goroutine that runs until Close.
func NewMemory(ttl, sweepInterval time.Duration, clock sim.Clock) *Memory {
	m := &Memory{
		entries: make(map[string]*entry),
		ttl:     ttl,
		clock:   clock,
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go m.cleanup(sweepInterval)
	}
	return m
}

// Create stores a new session.
func (m *Memory) Create(_ context.Context, s *session.Session) error {
	data, err := session.Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[s.ID]; ok && !m.expired(e) {
		return store.ErrExists
	}
	m.entries[s.ID] = m.newEntry(data)
	return nil
}

// Get returns a copy of the session.
func (m *Memory) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok || m.expired(e) {
		return nil, store.ErrNotFound
	}
	return session.Decode(e.data)
}

// Update applies fn under the store lock.
func (m *Memory) Update(_ context.Context, id string, fn store.UpdateFunc) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || m.expired(e) {
		return nil, store.ErrNotFound
	}
	s, err := session.Decode(e.data)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	data, err := session.Encode(s)
	if err != nil {
		return nil, err
	}
	m.entries[id] = m.newEntry(data)
	return s, nil
}

// Delete removes the session.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Sweep removes expired entries and returns how many it removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// Close stops the cleanup goroutine.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) newEntry(data []byte) *entry {
	return &entry{data: data, expiresAt: m.clock.Now().Add(m.ttl)}
}

func (m *Memory) expired(e *entry) bool {
	return m.ttl > 0 && m.clock.Now().After(e.expiresAt)
}

// cleanup removes expired entries every interval.
func (m *Memory) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.stop:
			return
		}
	}
}
