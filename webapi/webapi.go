// Package webapi provides the HTTP API of the transfer wizard.
// It is organized into sub-packages for different concerns:
// - session: the transfer form, payment step and conversation
// - currency: source currencies, rates and quotes
// - country: the dial-code list
// - demo: the demo-mode WhatsApp hand-off
package webapi

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/mochapay/mocha/docs"
	"github.com/mochapay/mocha/pkg/app"
	"github.com/mochapay/mocha/pkg/provider"
	"github.com/mochapay/mocha/webapi/common"
	countryweb "github.com/mochapay/mocha/webapi/country"
	currencyweb "github.com/mochapay/mocha/webapi/currency"
	demoweb "github.com/mochapay/mocha/webapi/demo"
	sessionweb "github.com/mochapay/mocha/webapi/session"
)

// HealthResponse reports the state of the service and its providers.
type HealthResponse struct {
	Status    string            `json:"status"`
	Variant   string            `json:"variant"`
	Providers map[string]string `json:"providers"`
}

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config
	m := a.Deps.Metrics

	fiberApp := fiber.New(fiber.Config{
		AppName: cfg.Wizard.Brand,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled: true,
	}))

	// Configure rate limiting middleware
	// Uses X-Forwarded-For header when behind a proxy
	fiberApp.Use(limiter.New(limiter.Config{
		Max:          cfg.RateLimit.MaxRequests,
		Expiration:   cfg.RateLimit.Window,
		KeyGenerator: clientIP,
		Next: func(c *fiber.Ctx) bool {
			// long-lived streams would exhaust the window
			return strings.HasSuffix(c.Path(), "/events")
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())
	fiberApp.Use(m.Middleware())

	// Health check endpoint
	fiberApp.Get("/", Health(a))
	fiberApp.Get("/metrics", m.Handler())

	// Debug endpoint to list all routes
	fiberApp.Get("/debug/routes", func(c *fiber.Ctx) error {
		var routeList []map[string]string
		for _, route := range fiberApp.GetRoutes(true) {
			if route.Path != "" {
				routeList = append(routeList, map[string]string{
					"method": route.Method,
					"path":   route.Path,
				})
			}
		}
		return c.JSON(routeList)
	})

	currencyweb.Routes(fiberApp, a.Calculator)
	countryweb.Routes(fiberApp, a.Deps.Countries)
	sessionweb.Routes(fiberApp, a.SessionService, a.Deps.EventBus, a.Deps.Logger)
	demoweb.Routes(fiberApp, a.SessionService, cfg.Demo, cfg.Wizard.Brand)
	return fiberApp
}

// Health returns a Fiber handler reporting provider health.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} common.Response{data=HealthResponse}
// @Failure 503 {object} common.Response{data=HealthResponse}
// @Router / [get]
func Health(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		resp := HealthResponse{
			Status:    "ok",
			Variant:   string(a.Profile.Variant),
			Providers: map[string]string{},
		}
		status := fiber.StatusOK
		for name, err := range provider.HealthCheckAll(ctx, a.Deps.HealthCheckers...) {
			if err != nil {
				resp.Providers[name] = err.Error()
				resp.Status = "degraded"
				status = fiber.StatusServiceUnavailable
				continue
			}
			resp.Providers[name] = "ok"
		}
		return common.SuccessResponseJSON(c, status, "Mocha API is running! ☕", resp)
	}
}

// clientIP keys the rate limiter. X-Forwarded-For wins, then X-Real-IP,
// then the connection's address.
func clientIP(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
