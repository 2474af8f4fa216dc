// Package app assembles the services of the transfer wizard from their
// dependencies.
package app

import (
	"fmt"
	"log/slog"

	"github.com/mochapay/mocha/pkg/config"
	"github.com/mochapay/mocha/pkg/country"
	"github.com/mochapay/mocha/pkg/currency"
	"github.com/mochapay/mocha/pkg/eventbus"
	"github.com/mochapay/mocha/pkg/metrics"
	"github.com/mochapay/mocha/pkg/provider"
	"github.com/mochapay/mocha/pkg/service/session"
	"github.com/mochapay/mocha/pkg/sim"
	"github.com/mochapay/mocha/pkg/store"
	"github.com/mochapay/mocha/pkg/transfer"
	"github.com/mochapay/mocha/pkg/wizard"
)

// Deps contains all the dependencies needed to build an App
type Deps struct {
	Store     store.Store
	Converter currency.Converter
	Countries country.List
	Payments  provider.Payment
	Receipts  provider.Receipt
	EventBus  eventbus.Bus
	Clock     sim.Clock
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	// HealthCheckers are probed by the health endpoint.
	HealthCheckers []provider.HealthChecker
}

type App struct {
	Deps           *Deps
	Config         *config.App
	Calculator     *transfer.Calculator
	Profile        wizard.Profile
	SessionService *session.Service
}

// New builds the App. It fails for an unknown wizard variant.
func New(deps *Deps, cfg *config.App) (*App, error) {
	profile, err := wizard.ProfileFor(wizard.Variant(cfg.Wizard.Variant))
	if err != nil {
		return nil, fmt.Errorf("failed to select wizard profile: %w", err)
	}
	calc := transfer.NewCalculator(deps.Converter, cfg.Fee.Percentage)

	app := &App{
		Deps:       deps,
		Config:     cfg,
		Calculator: calc,
		Profile:    profile,
	}
	app.SessionService = session.New(session.Deps{
		Store:      deps.Store,
		Calculator: calc,
		Countries:  deps.Countries,
		Machine:    wizard.NewMachine(profile, cfg.Wizard.Brand),
		Payments:   deps.Payments,
		Receipts:   deps.Receipts,
		Events:     deps.EventBus,
		Clock:      deps.Clock,
		Timing: session.Timing{
			Typing:   cfg.Wizard.TypingDelay,
			FollowUp: cfg.Wizard.FollowUpDelay,
		},
		Metrics: deps.Metrics,
		Logger:  deps.Logger,
		Brand:   cfg.Wizard.Brand,
	})
	deps.Logger.Info("✅ app assembled",
		"variant", profile.Variant,
		"payment_step", profile.PaymentStep,
		"receipt_send", profile.ReceiptSend,
	)
	return app, nil
}

// Close stops the background work of the services.
func (a *App) Close() {
	a.SessionService.Close()
}
