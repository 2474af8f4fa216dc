package webapi_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mochapay/mocha/webapi"
	"github.com/mochapay/mocha/webapi/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ta := testutils.NewTestApp(t, nil)

	health := testutils.Do[webapi.HealthResponse](t, ta.App, fiber.MethodGet, "/", "", fiber.StatusOK)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "known-sender", health.Variant)
	assert.Equal(t, "ok", health.Providers["mock_payment"])
	assert.Equal(t, "ok", health.Providers["mock_receipt"])
}

func TestDebugRoutes(t *testing.T) {
	ta := testutils.NewTestApp(t, nil)

	resp := testutils.MakeRequest(t, ta.App, fiber.MethodGet, "/debug/routes", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	routes := testutils.Decode[[]map[string]string](t, resp)
	assert.Contains(t, routes, map[string]string{"method": "POST", "path": "/api/sessions/:id/messages"})
	assert.Contains(t, routes, map[string]string{"method": "GET", "path": "/api/sessions/:id/events"})
	assert.NotContains(t, routes, map[string]string{"method": "POST", "path": "/api/demo/whatsapp"})
}

func TestMetrics(t *testing.T) {
	ta := testutils.NewTestApp(t, nil)
	testutils.MakeRequest(t, ta.App, fiber.MethodPost, "/api/sessions", "").Body.Close() //nolint: errcheck

	resp := testutils.MakeRequest(t, ta.App, fiber.MethodGet, "/metrics", "")
	defer resp.Body.Close() //nolint: errcheck
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mocha_sessions_created_total 1")
	assert.Contains(t, string(body), `mocha_http_requests_total{method="POST",path="/api/sessions",status="201"} 1`)
}

func TestSwaggerDoc(t *testing.T) {
	ta := testutils.NewTestApp(t, nil)

	resp := testutils.MakeRequest(t, ta.App, fiber.MethodGet, "/swagger/doc.json", "")
	defer resp.Body.Close() //nolint: errcheck
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/api/sessions/{id}/submit")
}

func TestRateLimit(t *testing.T) {
	cfg := testutils.TestConfig()
	cfg.RateLimit.MaxRequests = 3
	cfg.RateLimit.Window = time.Minute
	ta := testutils.NewTestApp(t, cfg)

	get := func(ip string) int {
		req := httptest.NewRequest(fiber.MethodGet, "/api/currencies", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		resp, err := ta.App.Test(req)
		require.NoError(t, err)
		resp.Body.Close() //nolint: errcheck
		return resp.StatusCode
	}

	for i := range 3 {
		assert.Equal(t, fiber.StatusOK, get("203.0.113.7"), "request %d", i+1)
	}
	assert.Equal(t, fiber.StatusTooManyRequests, get("203.0.113.7"))
	assert.Equal(t, fiber.StatusOK, get("198.51.100.2"), "other clients keep their own window")
}
