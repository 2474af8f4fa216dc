// Package country serves the dial-code list of the phone picker.
package country

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mochapay/mocha/pkg/country"
	"github.com/mochapay/mocha/webapi/common"
)

// Routes registers the country routes.
func Routes(app *fiber.App, countries country.List) {
	app.Get("/api/countries", ListCountries(countries))
}

// ListCountries returns a Fiber handler filtering the country list.
// @Summary List countries
// @Description Countries and dial codes, filtered by name or dial code
// @Tags countries
// @Produce json
// @Param q query string false "Search term"
// @Success 200 {object} common.Response{data=[]country.Entry}
// @Router /api/countries [get]
func ListCountries(countries country.List) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matches := countries.Filter(c.Query("q"))
		if matches == nil {
			matches = country.List{}
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Countries fetched successfully", matches)
	}
}
