package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/mochapay/mocha/infra/initializer"
	"github.com/mochapay/mocha/pkg/app"
	"github.com/mochapay/mocha/pkg/config"
	"github.com/mochapay/mocha/webapi"
)

const shutdownTimeout = 10 * time.Second

// @title Mocha API
// @version 1.0.0
// @description Peer-to-peer transfer wizard: transfer form, mock card payment and the WhatsApp-style conversation that collects the recipient.
// @contact.name Mocha Support
// @contact.email support@mochapay.example
// @license.name MIT
// @host localhost:3000
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(config.GetEnv(config.EnvFileVar, ".env"))
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, cleanup, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer cleanup()

	core, err := app.New(deps, cfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer core.Close()

	fiberApp := webapi.SetupApp(core)
	return serve(fiberApp, cfg.Server.Addr(), deps.Logger)
}

// serve listens on addr until SIGINT or SIGTERM, then drains open
// requests for up to shutdownTimeout.
func serve(fiberApp *fiber.App, addr string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 starting server", "address", addr)
		errCh <- fiberApp.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("🛑 shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
