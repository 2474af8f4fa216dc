// Package session serves the transfer session: the form, its pickers,
// the payment step and the conversation.
package session

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/mochapay/mocha/pkg/currency"
	domain "github.com/mochapay/mocha/pkg/domain/session"
	"github.com/mochapay/mocha/pkg/eventbus"
	sessionsvc "github.com/mochapay/mocha/pkg/service/session"
	"github.com/mochapay/mocha/webapi/common"
)

// Routes registers the session routes.
func Routes(app *fiber.App, svc *sessionsvc.Service, bus eventbus.Bus, logger *slog.Logger) {
	g := app.Group("/api/sessions")
	g.Post("", CreateSession(svc))
	g.Get("/:id", GetSession(svc))
	g.Delete("/:id", DeleteSession(svc))

	g.Put("/:id/amount", SetAmount(svc))
	g.Put("/:id/currency", SetCurrency(svc))
	g.Put("/:id/phone", SetPhone(svc))
	g.Post("/:id/dialogs/:dialog", Dialog(svc))
	g.Post("/:id/submit", Submit(svc))
	g.Post("/:id/flip-back", FlipBack(svc))

	g.Post("/:id/payment", Pay(svc))
	g.Post("/:id/payment/cancel", CancelPayment(svc))

	g.Get("/:id/messages", ListMessages(svc))
	g.Post("/:id/messages", SendMessage(svc))
	g.Get("/:id/events", Events(svc, bus, logger))
}

func respond(c *fiber.Ctx, svc *sessionsvc.Service, status int, message string, sess *domain.Session) error {
	resp := SessionResponse{
		Session:    sess,
		Profile:    svc.Profile(),
		Currencies: currency.Sources(),
	}
	if sess.Form.CountryDialog.IsOpen {
		resp.CountryOptions = svc.CountryOptions(sess)
	}
	return common.SuccessResponseJSON(c, status, message, resp)
}

// CreateSession returns a Fiber handler opening a transfer session.
// @Summary Create a session
// @Description Opens a transfer session showing an empty form
// @Tags sessions
// @Produce json
// @Success 201 {object} common.Response{data=SessionResponse}
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /api/sessions [post]
func CreateSession(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := svc.Create(c.Context())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create session", err)
		}
		return respond(c, svc, fiber.StatusCreated, "Session created successfully", sess)
	}
}

// GetSession returns a Fiber handler loading a session.
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} common.Response{data=SessionResponse}
// @Failure 404 {object} common.ProblemDetails
// @Router /api/sessions/{id} [get]
func GetSession(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Session not found", err)
		}
		return respond(c, svc, fiber.StatusOK, "Session fetched successfully", sess)
	}
}

// DeleteSession returns a Fiber handler ending a session.
// @Summary Delete a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} common.ProblemDetails
// @Router /api/sessions/{id} [delete]
func DeleteSession(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete session", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SetAmount returns a Fiber handler updating the amount.
// @Summary Set the amount
// @Description Stores the amount text and recomputes fee and converted amount
// @Tags form
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body AmountRequest true "Amount"
// @Success 200 {object} common.Response{data=SessionResponse}
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /api/sessions/{id}/amount [put]
func SetAmount(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[AmountRequest](c)
		if input == nil {
			return err // error response already written
		}
		sess, err := svc.SetAmount(c.Context(), c.Params("id"), input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to set amount", err)
		}
		return respond(c, svc, fiber.StatusOK, "Amount updated", sess)
	}
}

// SetCurrency returns a Fiber handler switching the source currency.
// @Summary Set the currency
// @Tags form
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body CurrencyRequest true "Currency"
// @Success 200 {object} common.Response{data=SessionResponse}
// @Failure 400 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /api/sessions/{id}/currency [put]
func SetCurrency(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CurrencyRequest](c)
		if input == nil {
			return err // error response already written
		}
		sess, err := svc.SetCurrency(c.Context(), c.Params("id"), input.Currency)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to set currency", err)
		}
		return respond(c, svc, fiber.StatusOK, "Currency updated", sess)
	}
}

// SetPhone returns a Fiber handler storing the sender's phone digits.
// @Summary Set the sender phone
// @Tags form
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body PhoneRequest true "Phone digits"
// @Success 200 {object} common.Response{data=SessionResponse}
// @Failure 400 {object} common.ProblemDetails
// @Router /api/sessions/{id}/phone [put]
func SetPhone(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[PhoneRequest](c)
		if input == nil {
			return err // error response already written
		}
		sess, err := svc.SetPhone(c.Context(), c.Params("id"), input.Phone)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to set phone", err)
		}
		return respond(c, svc, fiber.StatusOK, "Phone updated", sess)
	}
}

// Dialog returns a Fiber handler driving the country and currency pickers.
// @Summary Interact with a picker
// @Description Opens, searches, selects in or closes the country or currency picker
// @Tags form
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param dialog path string true "Picker" Enums(country, currency)
// @Param request body DialogRequest true "Action"
// @Success 200 {object} common.Response{data=SessionResponse}
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /api/sessions/{id}/dialogs/{dialog} [post]
func Dialog(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[DialogRequest](c)
		if input == nil {
			return err // error response already written
		}
		sess, err := svc.Dialog(
			c.Context(),
			c.Params("id"),
			sessionsvc.Dialog(c.Params("dialog")),
			sessionsvc.DialogAction(input.Action),
			input.Value,
		)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Dialog action failed", err)
		}
		return respond(c, svc, fiber.StatusOK, "Dialog updated", sess)
	}
}

// Submit returns a Fiber handler submitting the form.
// @Summary Submit the form
// @Description Shows the payment step or starts the conversation. Requires the sender phone.
// @Tags form
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} common.Response{data=SessionResponse}
// @Failure 409 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /api/sessions/{id}/submit [post]
func Submit(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := svc.Submit(c.Context(), c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to submit transfer", err)
		}
		return respond(c, svc, fiber.StatusOK, "Transfer submitted", sess)
	}
}

// FlipBack returns a Fiber handler showing the form again.
// @Summary Back to the form
// @Tags form
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} common.Response{data=SessionResponse}
// @Failure 409 {object} common.ProblemDetails
// @Router /api/sessions/{id}/flip-back [post]
func FlipBack(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := svc.FlipBack(c.Context(), c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to go back", err)
		}
		return respond(c, svc, fiber.StatusOK, "Form shown", sess)
	}
}
