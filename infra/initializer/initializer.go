// Package initializer builds the process-wide dependencies from the
// configuration.
package initializer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	infraeventbus "github.com/mochapay/mocha/infra/eventbus"
	infraprovider "github.com/mochapay/mocha/infra/provider"
	infrastore "github.com/mochapay/mocha/infra/store"
	"github.com/mochapay/mocha/pkg/app"
	"github.com/mochapay/mocha/pkg/config"
	"github.com/mochapay/mocha/pkg/country"
	"github.com/mochapay/mocha/pkg/currency"
	"github.com/mochapay/mocha/pkg/eventbus"
	"github.com/mochapay/mocha/pkg/metrics"
	"github.com/mochapay/mocha/pkg/provider"
	"github.com/mochapay/mocha/pkg/sim"
	"github.com/mochapay/mocha/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// InitializeDependencies initializes all the application dependencies.
// The returned cleanup releases them and is safe to call once the server
// has stopped.
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	cleanup func(),
	err error,
) {
	logger := setupLogger(cfg.Log)
	return BuildDependencies(cfg, logger, sim.RealClock{})
}

// BuildDependencies is InitializeDependencies with an explicit logger and
// clock.
func BuildDependencies(cfg *config.App, logger *slog.Logger, clock sim.Clock) (
	deps *app.Deps,
	cleanup func(),
	err error,
) {
	m := metrics.New()
	deps = &app.Deps{
		Clock:   clock,
		Metrics: m,
		Logger:  logger,
	}

	deps.Converter, err = infraprovider.NewStaticRates(currency.Destination, cfg.Rates.Table())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize exchange rates: %w", err)
	}

	deps.Countries = country.MustLoadEmbedded()
	logger.Info("Loaded embedded country list", "count", len(deps.Countries))

	sessions, closeStore, err := initStore(cfg, logger, clock)
	if err != nil {
		return nil, nil, err
	}
	deps.Store = sessions
	if hc, ok := sessions.(provider.HealthChecker); ok {
		deps.HealthCheckers = append(deps.HealthCheckers, hc)
	}

	bus := initEventBus(cfg, sessions, logger, m.EventSubscribers)
	deps.EventBus = bus

	payments := infraprovider.NewMockPayment(clock, cfg.Wizard.PaymentLatency, logger)
	receipts := infraprovider.NewMockReceipt(clock, cfg.Wizard.ReceiptLatency, logger)
	deps.Payments = payments
	deps.Receipts = receipts
	deps.HealthCheckers = append(deps.HealthCheckers, payments, receipts)

	cleanup = func() {
		bus.Close()
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close session store", "error", err)
		}
	}
	return deps, cleanup, nil
}

type closableBus interface {
	eventbus.Bus
	Close()
}

// initEventBus shares events through Redis when sessions live there, so
// any instance can stream any session. Otherwise events stay in process.
func initEventBus(cfg *config.App, sessions store.Store, logger *slog.Logger, gauge prometheus.Gauge) closableBus {
	if rs, ok := sessions.(*infrastore.Redis); ok {
		logger.Info("Using Redis event bus", "prefix", cfg.Redis.EventPrefix)
		return infraeventbus.NewRedis(rs.Client(), cfg.Redis.EventPrefix, infraeventbus.DefaultBuffer, logger).
			WithGauge(gauge)
	}
	logger.Info("Using in-memory event bus")
	return infraeventbus.NewHub(infraeventbus.DefaultBuffer, logger).WithGauge(gauge)
}

// initStore opens the configured session store.
func initStore(cfg *config.App, logger *slog.Logger, clock sim.Clock) (store.Store, func() error, error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		rc := cfg.Redis
		r, err := infrastore.NewRedisFromURL(rc.URL, rc.KeyPrefix, cfg.Session.TTL, logger,
			func(o *redis.Options) {
				o.PoolSize = rc.PoolSize
				o.DialTimeout = rc.DialTimeout
				o.ReadTimeout = rc.ReadTimeout
				o.WriteTimeout = rc.WriteTimeout
			})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Redis session store: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), rc.DialTimeout+time.Second)
		defer cancel()
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis session store: %w", err)
		}
		logger.Info("Using Redis session store", "prefix", rc.KeyPrefix, "ttl", cfg.Session.TTL)
		return r, r.Close, nil
	default:
		m := infrastore.NewMemory(cfg.Session.TTL, cfg.Session.SweepInterval, clock)
		logger.Info("Using in-memory session store", "ttl", cfg.Session.TTL)
		return m, m.Close, nil
	}
}
