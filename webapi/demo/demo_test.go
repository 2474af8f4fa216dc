package demo_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	domain "github.com/mochapay/mocha/pkg/domain/session"
	"github.com/mochapay/mocha/webapi/demo"
	"github.com/mochapay/mocha/webapi/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, ta *testutils.TestApp) string {
	t.Helper()
	sess := testutils.Do[domain.Session](t, ta.App, fiber.MethodPost, "/api/sessions", "", fiber.StatusCreated)
	testutils.Do[domain.Session](t, ta.App, fiber.MethodPut, "/api/sessions/"+sess.ID+"/amount",
		`{"amount":"100"}`, fiber.StatusOK)
	testutils.Do[domain.Session](t, ta.App, fiber.MethodPut, "/api/sessions/"+sess.ID+"/phone",
		`{"phone":"5551234567"}`, fiber.StatusOK)
	return sess.ID
}

func TestWhatsAppLink_Disabled(t *testing.T) {
	ta := testutils.NewTestApp(t, nil)
	id := newSession(t, ta)

	resp := testutils.MakeRequest(t, ta.App, fiber.MethodPost, "/api/demo/whatsapp", `{"session_id":"`+id+`"}`)
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestWhatsAppLink(t *testing.T) {
	cfg := testutils.TestConfig()
	cfg.Demo.Enabled = true
	ta := testutils.NewTestApp(t, cfg)
	id := newSession(t, ta)

	link := testutils.Do[demo.LinkResponse](t, ta.App, fiber.MethodPost, "/api/demo/whatsapp",
		`{"session_id":"`+id+`"}`, fiber.StatusOK)

	assert.Equal(t,
		"Hi Mocha! I'd like to send $100.00 (2350.00 SLL after a 1.00 USD fee). My WhatsApp number is +15551234567.",
		link.Message)

	prefix := "https://wa.me/23276000000?text="
	require.True(t, strings.HasPrefix(link.URL, prefix), link.URL)
	query := strings.TrimPrefix(link.URL, prefix)
	assert.Contains(t, query, "Hi%20Mocha")
	assert.NotContains(t, query, "+")
	decoded, err := url.PathUnescape(query)
	require.NoError(t, err)
	assert.Equal(t, link.Message, decoded)
}

func TestWhatsAppLink_Errors(t *testing.T) {
	cfg := testutils.TestConfig()
	cfg.Demo.Enabled = true
	ta := testutils.NewTestApp(t, cfg)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"missing session id", `{}`, fiber.StatusBadRequest},
		{"malformed session id", `{"session_id":"abc"}`, fiber.StatusBadRequest},
		{"unknown session", `{"session_id":"6f1c2d3e-4b5a-4c6d-8e7f-901234567890"}`, fiber.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := testutils.MakeRequest(t, ta.App, fiber.MethodPost, "/api/demo/whatsapp", tc.body)
			defer resp.Body.Close() //nolint: errcheck
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}

	cfg = testutils.TestConfig()
	cfg.Demo.Enabled = true
	cfg.Demo.WhatsAppNumber = ""
	ta = testutils.NewTestApp(t, cfg)
	id := newSession(t, ta)
	resp := testutils.MakeRequest(t, ta.App, fiber.MethodPost, "/api/demo/whatsapp", `{"session_id":"`+id+`"}`)
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
