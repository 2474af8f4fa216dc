package provider_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	infraprovider "github.com/mochapay/mocha/infra/provider"
	"github.com/mochapay/mocha/pkg/provider"
	"github.com/mochapay/mocha/pkg/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	epoch         = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	mockTxID      = regexp.MustCompile(`^mock-\d+-[0-9a-z]{8}$`)
)

// run calls fn in the background, advances the clock once the simulated
// latency is scheduled and returns fn's error.
func run(t *testing.T, clock *sim.FakeClock, d time.Duration, fn func() error) error {
	t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- fn() }()
	require.Eventually(t, func() bool { return clock.Pending() > 0 }, time.Second, time.Millisecond)
	clock.Advance(d)
	select {
	case err := <-errc:
		return err
	case <-time.After(time.Second):
		t.Fatal("provider did not return after the latency elapsed")
		return nil
	}
}

func TestMockPayment(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	p := infraprovider.NewMockPayment(clock, 2*time.Second, discardLogger)

	var res *provider.PaymentResult
	err := run(t, clock, 2*time.Second, func() error {
		var err error
		res, err = p.ProcessPayment(context.Background(), &provider.PaymentRequest{
			SessionID: "s1",
			Method:    provider.PaymentMethodCard,
			Amount:    "100.00",
			Currency:  "USD",
		})
		return err
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, provider.PaymentMethodCard, res.Method)
	assert.Regexp(t, mockTxID, res.TransactionID)
	assert.Contains(t, res.TransactionID, "mock-1714555802000-")
	assert.Equal(t, epoch.Add(2*time.Second), res.ProcessedAt)

	stored, ok := p.Payment(res.TransactionID)
	require.True(t, ok)
	assert.Same(t, res, stored)
}

func TestMockPayment_Declined(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	p := infraprovider.NewMockPayment(clock, time.Second, discardLogger)
	p.FailWith(errors.New("card expired"))

	var res *provider.PaymentResult
	err := run(t, clock, time.Second, func() error {
		var err error
		res, err = p.ProcessPayment(context.Background(), &provider.PaymentRequest{Method: provider.PaymentMethodCard})
		return err
	})
	require.ErrorIs(t, err, provider.ErrPaymentDeclined)
	assert.False(t, res.Success)
	assert.Equal(t, "card expired", res.Error)
}

func TestMockPayment_ContextCancelled(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	p := infraprovider.NewMockPayment(clock, time.Hour, discardLogger)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessPayment(ctx, &provider.PaymentRequest{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMockReceipt(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	r := infraprovider.NewMockReceipt(clock, 1500*time.Millisecond, discardLogger)
	req := &provider.ReceiptRequest{SessionID: "s1", To: "+23276123456", RecipientName: "Aminata Sesay"}

	var res *provider.ReceiptResult
	err := run(t, clock, 1500*time.Millisecond, func() error {
		var err error
		res, err = r.SendReceipt(context.Background(), req)
		return err
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Regexp(t, `^wamid\.`, res.MessageID)
	assert.Equal(t, []provider.ReceiptRequest{*req}, r.Sent())

	r.FailWith(errors.New("not on WhatsApp"))
	err = run(t, clock, 1500*time.Millisecond, func() error {
		_, err := r.SendReceipt(context.Background(), req)
		return err
	})
	require.EqualError(t, err, "not on WhatsApp")
	assert.Len(t, r.Sent(), 1)
}

func TestHealthCheckAll(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	results := provider.HealthCheckAll(
		context.Background(),
		infraprovider.NewMockPayment(clock, 0, discardLogger),
		infraprovider.NewMockReceipt(clock, 0, discardLogger),
	)
	assert.Equal(t, map[string]error{"mock_payment": nil, "mock_receipt": nil}, results)
}
