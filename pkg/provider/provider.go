// Package provider defines the external services a transfer talks to:
// the payment processor and the WhatsApp receipt sender.
package provider

import (
	"context"
	"errors"
	"sync"
)

// ErrProviderUnavailable is returned by a provider that cannot serve requests.
var ErrProviderUnavailable = errors.New("provider unavailable")

// Metadata describes a provider implementation.
type Metadata struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	IsActive bool   `json:"is_active"`
}

// HealthChecker is implemented by providers that can report their health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
	Metadata() Metadata
}

// HealthCheckAll checks the health of all providers concurrently and
// returns the result per provider name.
func HealthCheckAll(ctx context.Context, providers ...HealthChecker) map[string]error {
	results := make(map[string]error, len(providers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, p := range providers {
		wg.Add(1)
		go func(p HealthChecker) {
			defer wg.Done()
			err := p.CheckHealth(ctx)
			mu.Lock()
			results[p.Metadata().Name] = err
			mu.Unlock()
		}(p)
	}

	wg.Wait()
	return results
}
