package provider

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mochapay/mocha/pkg/provider"
	"github.com/mochapay/mocha/pkg/sim"
)

// MockPayment simulates a payment processor for local development and demos.
//
// Every payment waits a fixed latency on the injected clock and then
// succeeds with a "mock-<unix-ms>-<random>" transaction id. This is NOT
// for production use.
type MockPayment struct {
	clock   sim.Clock
	latency time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	payments map[string]*provider.PaymentResult
	failure  error
}

// NewMockPayment creates a new instance of MockPayment.
func NewMockPayment(clock sim.Clock, latency time.Duration, logger *slog.Logger) *MockPayment {
	return &MockPayment{
		clock:    clock,
		latency:  latency,
		logger:   logger,
		payments: make(map[string]*provider.PaymentResult),
	}
}

// ProcessPayment waits the configured latency and records a successful payment.
func (m *MockPayment) ProcessPayment(
	ctx context.Context,
	req *provider.PaymentRequest,
) (*provider.PaymentResult, error) {
	log := m.logger.With(
		"provider", "mock_payment",
		"session_id", req.SessionID,
		"amount", req.Amount,
		"currency", req.Currency,
	)
	log.Debug("💳 processing mock payment", "latency", m.latency)

	if err := sim.Sleep(ctx, m.clock, m.latency); err != nil {
		return nil, fmt.Errorf("payment interrupted: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		log.Warn("❌ mock payment declined", "error", m.failure)
		return &provider.PaymentResult{
			Success:     false,
			Method:      req.Method,
			ProcessedAt: m.clock.Now(),
			Error:       m.failure.Error(),
		}, fmt.Errorf("%w: %w", provider.ErrPaymentDeclined, m.failure)
	}

	now := m.clock.Now()
	result := &provider.PaymentResult{
		Success:       true,
		TransactionID: fmt.Sprintf("mock-%d-%s", now.UnixMilli(), randomBase36(8)),
		Method:        provider.PaymentMethodCard,
		ProcessedAt:   now,
	}
	m.payments[result.TransactionID] = result
	log.Info("✅ mock payment processed", "transaction_id", result.TransactionID)
	return result, nil
}

// Payment returns a processed payment by transaction id.
func (m *MockPayment) Payment(transactionID string) (*provider.PaymentResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[transactionID]
	return p, ok
}

// FailWith makes every following payment fail with err. A nil err restores success.
func (m *MockPayment) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failure = err
}

// CheckHealth always reports healthy.
func (m *MockPayment) CheckHealth(context.Context) error { return nil }

// Metadata describes the provider.
func (m *MockPayment) Metadata() provider.Metadata {
	return provider.Metadata{Name: "mock_payment", Version: "1.0.0", IsActive: true}
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.IntN(len(base36))]
	}
	return string(b)
}
