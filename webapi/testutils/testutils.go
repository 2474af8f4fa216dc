// Package testutils builds a fully wired API on virtual time for handler tests.
package testutils

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mochapay/mocha/infra/initializer"
	infraprovider "github.com/mochapay/mocha/infra/provider"
	"github.com/mochapay/mocha/pkg/app"
	"github.com/mochapay/mocha/pkg/config"
	"github.com/mochapay/mocha/pkg/sim"
	"github.com/mochapay/mocha/webapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Epoch is the start of virtual time in tests.
var Epoch = time.Date(2024, 5, 1, 9, 41, 0, 0, time.UTC)

// TestApp is a wired API whose delays run on Clock.
type TestApp struct {
	App      *fiber.App
	Core     *app.App
	Clock    *sim.FakeClock
	Payments *infraprovider.MockPayment
	Receipts *infraprovider.MockReceipt
}

// TestConfig returns the default configuration without reading the environment.
func TestConfig() *config.App {
	return &config.App{
		Env:       "test",
		Server:    &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:       &config.Log{Format: "text"},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Fee:       &config.Fee{Percentage: decimal.RequireFromString("0.01")},
		Rates: &config.Rates{
			USD: decimal.RequireFromString("23.5"),
			GBP: decimal.RequireFromString("29"),
			EUR: decimal.RequireFromString("24"),
		},
		Wizard: &config.Wizard{
			Variant:        "known-sender",
			Brand:          "Mocha",
			TypingDelay:    300 * time.Millisecond,
			FollowUpDelay:  800 * time.Millisecond,
			PaymentLatency: 2 * time.Second,
			ReceiptLatency: 1500 * time.Millisecond,
		},
		Session: &config.Session{Store: config.StoreMemory, TTL: 30 * time.Minute},
		Redis:   &config.Redis{},
		Demo:    &config.Demo{WhatsAppNumber: "+232 76 000 000"},
	}
}

// NewTestApp wires the API for cfg; a nil cfg uses TestConfig.
func NewTestApp(t *testing.T, cfg *config.App) *TestApp {
	t.Helper()
	if cfg == nil {
		cfg = TestConfig()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := sim.NewFakeClock(Epoch)

	deps, cleanup, err := initializer.BuildDependencies(cfg, logger, clock)
	require.NoError(t, err)
	core, err := app.New(deps, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		core.Close()
		cleanup()
	})

	return &TestApp{
		App:      webapi.SetupApp(core),
		Core:     core,
		Clock:    clock,
		Payments: deps.Payments.(*infraprovider.MockPayment),
		Receipts: deps.Receipts.(*infraprovider.MockReceipt),
	}
}

// MakeRequest sends a JSON request through the app.
func MakeRequest(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Decode reads a JSON body into T and closes it.
func Decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// Envelope is the success envelope with typed data.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Do sends a request, checks the status and decodes the envelope's data.
func Do[T any](t *testing.T, app *fiber.App, method, path, body string, status int) T {
	t.Helper()
	resp := MakeRequest(t, app, method, path, body)
	require.Equal(t, status, resp.StatusCode, "%s %s", method, path)
	return Decode[Envelope[T]](t, resp).Data
}

// WaitPending blocks until background work has registered n timers.
func (a *TestApp) WaitPending(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return a.Clock.Pending() >= n }, time.Second, time.Millisecond)
}
