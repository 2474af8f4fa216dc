// Package common holds the response envelope, problem details and request
// validation shared by the HTTP handlers.
package common

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mochapay/mocha/pkg/country"
	"github.com/mochapay/mocha/pkg/currency"
	"github.com/mochapay/mocha/pkg/money"
	"github.com/mochapay/mocha/pkg/selector"
	"github.com/mochapay/mocha/pkg/service/session"
	"github.com/mochapay/mocha/pkg/store"
	"github.com/mochapay/mocha/pkg/transfer"
	"github.com/mochapay/mocha/pkg/whatsapp"
	"github.com/mochapay/mocha/pkg/wizard"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// SuccessResponseJSON writes data in the success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ProblemDetailsJSON writes an application/problem+json response for err.
// The optional args are a string detail overriding err's message and an
// int status overriding the status derived from err.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   ErrorToStatusCode(err),
		Instance: c.OriginalURL(),
	}
	if err != nil {
		pd.Detail = err.Error()
	}
	for _, a := range args {
		switch v := a.(type) {
		case string:
			pd.Detail = v
		case int:
			pd.Status = v
		case []FieldError:
			pd.Errors = v
		}
	}
	if err == nil && pd.Status == fiber.StatusInternalServerError && len(args) == 0 {
		pd.Status = fiber.StatusBadRequest
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(pd.Status).JSON(pd)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusInternalServerError
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, session.ErrWrongStage),
		errors.Is(err, session.ErrPaymentInProgress),
		errors.Is(err, selector.ErrClosed):
		return fiber.StatusConflict
	case errors.Is(err, transfer.ErrSenderPhoneRequired),
		errors.Is(err, transfer.ErrUnsupportedCurrency),
		errors.Is(err, currency.ErrUnsupportedCurrencyPair),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, country.ErrNotFound):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, session.ErrUnknownDialog),
		errors.Is(err, session.ErrUnknownDialogAction),
		errors.Is(err, whatsapp.ErrNoDigits):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Besides the built-in rules it
// knows "whatsapp": a phone number the chat would accept.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("whatsapp", func(fl validator.FieldLevel) bool {
			return wizard.IsValidPhoneNumber(fl.Field().String())
		})
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
	}
	if err := Validator().Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
			}
			return nil, ProblemDetailsJSON(c, "Validation failed", err, fields, fiber.StatusBadRequest)
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
	}
	return &input, nil
}
