package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mochapay/mocha/pkg/provider"
	"github.com/mochapay/mocha/pkg/sim"
)

// MockReceipt pretends to deliver WhatsApp receipts. It waits a fixed
// latency on the injected clock and keeps every receipt it "sent".
type MockReceipt struct {
	clock   sim.Clock
	latency time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	sent    []provider.ReceiptRequest
	failure error
}

// NewMockReceipt creates a new instance of MockReceipt.
func NewMockReceipt(clock sim.Clock, latency time.Duration, logger *slog.Logger) *MockReceipt {
	return &MockReceipt{clock: clock, latency: latency, logger: logger}
}

// SendReceipt waits the configured latency and records req.
func (m *MockReceipt) SendReceipt(
	ctx context.Context,
	req *provider.ReceiptRequest,
) (*provider.ReceiptResult, error) {
	log := m.logger.With("provider", "mock_receipt", "session_id", req.SessionID, "to", req.To)
	log.Debug("📨 sending mock WhatsApp receipt", "latency", m.latency)

	if err := sim.Sleep(ctx, m.clock, m.latency); err != nil {
		return nil, fmt.Errorf("receipt send interrupted: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		log.Warn("❌ mock receipt failed", "error", m.failure)
		return nil, m.failure
	}
	m.sent = append(m.sent, *req)
	result := &provider.ReceiptResult{
		Success:   true,
		MessageID: "wamid." + uuid.NewString(),
		SentAt:    m.clock.Now(),
	}
	log.Info("✅ mock receipt sent", "message_id", result.MessageID)
	return result, nil
}

// Sent returns a copy of the receipts sent so far.
func (m *MockReceipt) Sent() []provider.ReceiptRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]provider.ReceiptRequest(nil), m.sent...)
}

// FailWith makes every following send fail with err. A nil err restores success.
func (m *MockReceipt) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failure = err
}

// CheckHealth always reports healthy.
func (m *MockReceipt) CheckHealth(context.Context) error { return nil }

// Metadata describes the provider.
func (m *MockReceipt) Metadata() provider.Metadata {
	return provider.Metadata{Name: "mock_receipt", Version: "1.0.0", IsActive: true}
}
