// Package demo serves the demo-mode WhatsApp hand-off, which skips the
// simulated conversation and opens a real chat instead.
package demo

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mochapay/mocha/pkg/config"
	sessionsvc "github.com/mochapay/mocha/pkg/service/session"
	"github.com/mochapay/mocha/pkg/whatsapp"
	"github.com/mochapay/mocha/webapi/common"
)

// LinkRequest asks for the hand-off link of a session's form.
type LinkRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

// LinkResponse carries the wa.me link and the prefilled message.
type LinkResponse struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// Routes registers the demo routes when demo mode is enabled.
func Routes(app *fiber.App, svc *sessionsvc.Service, cfg *config.Demo, brand string) {
	if !cfg.Enabled {
		return
	}
	app.Post("/api/demo/whatsapp", WhatsAppLink(svc, cfg.WhatsAppNumber, brand))
}

// WhatsAppLink returns a Fiber handler building the demo hand-off link.
// @Summary Demo WhatsApp hand-off
// @Description Builds a wa.me link to the service number prefilled with the transfer on the session's form
// @Tags demo
// @Accept json
// @Produce json
// @Param request body LinkRequest true "Session"
// @Success 200 {object} common.Response{data=LinkResponse}
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/demo/whatsapp [post]
func WhatsAppLink(svc *sessionsvc.Service, number, brand string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LinkRequest](c)
		if input == nil {
			return err // error response already written
		}
		sess, err := svc.Get(c.Context(), input.SessionID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Session not found", err)
		}

		msg := whatsapp.HandoffMessage(brand, &sess.Form.Draft)
		link, err := whatsapp.DeepLink(number, msg)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Demo WhatsApp number is not configured", err, fiber.StatusServiceUnavailable)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "WhatsApp link created", LinkResponse{URL: link, Message: msg})
	}
}
