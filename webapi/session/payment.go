package session

import (
	"github.com/gofiber/fiber/v2"
	sessionsvc "github.com/mochapay/mocha/pkg/service/session"
	"github.com/mochapay/mocha/webapi/common"
)

// Pay returns a Fiber handler starting the card payment.
// @Summary Pay
// @Description Starts the mock card payment. Progress is reported on the event stream.
// @Tags payment
// @Produce json
// @Param id path string true "Session ID"
// @Success 202 {object} common.Response{data=SessionResponse}
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /api/sessions/{id}/payment [post]
func Pay(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := svc.Pay(c.Context(), c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to start payment", err)
		}
		return respond(c, svc, fiber.StatusAccepted, "Payment processing", sess)
	}
}

// CancelPayment returns a Fiber handler leaving the payment step.
// @Summary Cancel the payment
// @Tags payment
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} common.Response{data=SessionResponse}
// @Failure 409 {object} common.ProblemDetails
// @Router /api/sessions/{id}/payment/cancel [post]
func CancelPayment(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := svc.CancelPayment(c.Context(), c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to cancel payment", err)
		}
		return respond(c, svc, fiber.StatusOK, "Payment cancelled", sess)
	}
}
