package initializer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	infraeventbus "github.com/mochapay/mocha/infra/eventbus"
	infrastore "github.com/mochapay/mocha/infra/store"
	"github.com/mochapay/mocha/pkg/config"
	"github.com/mochapay/mocha/pkg/money"
	"github.com/mochapay/mocha/pkg/sim"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.App {
	return &config.App{
		Env:  "test",
		Log:  &config.Log{Format: "text"},
		Fee:  &config.Fee{Percentage: decimal.RequireFromString("0.01")},
		Rates: &config.Rates{
			USD: decimal.RequireFromString("23.5"),
			GBP: decimal.RequireFromString("29"),
			EUR: decimal.RequireFromString("24"),
		},
		Wizard: &config.Wizard{
			Variant:        "known-sender",
			Brand:          "Mocha",
			PaymentLatency: 2 * time.Second,
			ReceiptLatency: 1500 * time.Millisecond,
		},
		Session: &config.Session{Store: config.StoreMemory, TTL: time.Minute},
		Redis:   &config.Redis{URL: "redis://127.0.0.1:1", DialTimeout: 100 * time.Millisecond},
	}
}

func TestBuildDependencies_Memory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps, cleanup, err := BuildDependencies(testConfig(), logger, sim.NewFakeClock(time.Now()))
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &infrastore.Memory{}, deps.Store)
	assert.IsType(t, &infraeventbus.Hub{}, deps.EventBus)
	assert.NotEmpty(t, deps.Countries)
	assert.Len(t, deps.HealthCheckers, 2)

	rate, err := deps.Converter.GetRate(money.GBP, money.SLL)
	require.NoError(t, err)
	assert.Equal(t, "29", rate.String())
}

func TestBuildDependencies_InvalidRate(t *testing.T) {
	cfg := testConfig()
	cfg.Rates.EUR = decimal.Zero
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, _, err := BuildDependencies(cfg, logger, sim.RealClock{})
	require.Error(t, err)
}

func TestBuildDependencies_RedisUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.Session.Store = config.StoreRedis
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, _, err := BuildDependencies(cfg, logger, sim.RealClock{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis session store")
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &config.Log{Format: "json", Prefix: "[mocha]"})

	logger.InfoContext(context.Background(), "hello", "session_id", "s1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "s1", line["session_id"])
}
