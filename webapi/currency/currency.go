// Package currency serves the source currencies, the rate table and
// amount quotes.
package currency

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mochapay/mocha/pkg/currency"
	"github.com/mochapay/mocha/pkg/money"
	"github.com/mochapay/mocha/pkg/transfer"
	"github.com/mochapay/mocha/webapi/common"
)

// Routes registers HTTP routes for currency-related operations.
func Routes(app *fiber.App, calc *transfer.Calculator) {
	api := app.Group("/api")
	api.Get("/currencies", ListCurrencies(calc))
	api.Get("/rates", ListRates(calc))
	api.Get("/quote", GetQuote(calc))
}

// ListCurrencies returns a Fiber handler for listing the source currencies.
// @Summary List source currencies
// @Description Currencies a transfer can be paid in, with their rate to the payout currency
// @Tags currencies
// @Produce json
// @Success 200 {object} common.Response{data=[]CurrencyResponse}
// @Failure 500 {object} common.ProblemDetails
// @Router /api/currencies [get]
func ListCurrencies(calc *transfer.Calculator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out := make([]CurrencyResponse, 0, len(currency.Sources()))
		for _, code := range currency.Sources() {
			label, err := currency.RateLabel(calc.Converter(), code)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Failed to list currencies", err)
			}
			cur := code.ToCurrency()
			out = append(out, CurrencyResponse{
				Code:      code,
				Symbol:    cur.Symbol,
				Decimals:  cur.Decimals,
				RateLabel: label,
			})
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Currencies fetched successfully", out)
	}
}

// ListRates returns a Fiber handler for the exchange rate table.
// @Summary List exchange rates
// @Description Fixed rates from every source currency to the payout currency
// @Tags currencies
// @Produce json
// @Success 200 {object} common.Response{data=[]RateResponse}
// @Failure 500 {object} common.ProblemDetails
// @Router /api/rates [get]
func ListRates(calc *transfer.Calculator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out := make([]RateResponse, 0, len(currency.Sources()))
		for _, code := range currency.Sources() {
			rate, err := calc.Converter().GetRate(code, currency.Destination)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Failed to list rates", err)
			}
			out = append(out, RateResponse{From: code, To: currency.Destination, Rate: rate.String()})
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rates fetched successfully", out)
	}
}

// GetQuote returns a Fiber handler pricing an amount.
// @Summary Quote an amount
// @Description Fee and converted amount for an amount in a source currency. Amounts that are not numbers quote as zero.
// @Tags currencies
// @Produce json
// @Param amount query string false "Amount in the source currency"
// @Param currency query string false "Source currency code" default(USD)
// @Success 200 {object} common.Response{data=QuoteResponse}
// @Failure 422 {object} common.ProblemDetails
// @Router /api/quote [get]
func GetQuote(calc *transfer.Calculator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := money.Code(strings.ToUpper(c.Query("currency", string(money.DefaultCode))))
		q, err := calc.Quote(c.Query("amount"), code)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unsupported currency", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Quote calculated successfully", toQuoteResponse(q))
	}
}
