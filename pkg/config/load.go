package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mochapay/mocha/pkg/money"
	"github.com/shopspring/decimal"
)

// Session store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// ErrInvalidConfig is returned for a value outside its allowed range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads the configuration from the environment. The first of
// envFilePath found in the working directory or one of its parents is
// loaded into the environment first; without paths the .env file is used.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	// If no specific paths provided, try default .env
	if len(envFilePath) == 0 {
		logger.Debug("No environment file specified, trying default .env")
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	// Try each provided path until we find a valid one
	for _, path := range envFilePath {
		logger.Debug("Looking for environment file", "path", path)
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}

		logger.Info("Loading environment from file", "path", foundPath)
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}

		// Successfully loaded a file, proceed with config loading
		return loadFromEnv()
	}

	// No valid environment files found, try default .env as fallback
	logger.Info("No valid environment files found, using default .env")
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found in current directory")
	}
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"fee", cfg.Fee.Percentage,
		"wizard_variant", cfg.Wizard.Variant,
		"session_store", cfg.Session.Store,
		"session_ttl", cfg.Session.TTL,
		"redis", maskValue(cfg.Redis.URL),
		"demo", cfg.Demo.Enabled,
		"demo_whatsapp", maskValue(cfg.Demo.WhatsAppNumber),
	)
	return &cfg, nil
}

// Validate checks the values envconfig cannot.
func (a *App) Validate() error {
	switch a.Session.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("%w: SESSION_STORE=%q, want %s or %s", ErrInvalidConfig, a.Session.Store, StoreMemory, StoreRedis)
	}
	if a.Fee.Percentage.IsNegative() || a.Fee.Percentage.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: FEE_PERCENTAGE=%s, want a fraction in [0, 1)", ErrInvalidConfig, a.Fee.Percentage)
	}
	for code, rate := range a.Rates.Table() {
		if !rate.IsPositive() {
			return fmt.Errorf("%w: RATES_%s=%s, want a positive rate", ErrInvalidConfig, code, rate)
		}
	}
	if a.Session.TTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL must be positive", ErrInvalidConfig)
	}
	return nil
}

// Table returns the rates keyed by source currency.
func (r *Rates) Table() map[money.Code]decimal.Decimal {
	return map[money.Code]decimal.Decimal{
		money.USD: r.USD,
		money.GBP: r.GBP,
		money.EUR: r.EUR,
	}
}

// Addr is the listen address of the server.
func (s *Server) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

func maskValue(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
