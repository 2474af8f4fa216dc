// Package currency describes the currencies a transfer can be funded in
// and the conversion towards the fixed payout currency.
package currency

import (
	"fmt"
	"slices"

	"github.com/mochapay/mocha/pkg/money"
)

// Destination is the currency every transfer pays out in.
const Destination = money.SLL

var sources = []money.Code{money.USD, money.GBP, money.EUR}

// Sources returns the currencies a sender can pick, in display order.
func Sources() []money.Code {
	return slices.Clone(sources)
}

// IsSource reports whether code is one of the selectable source currencies.
func IsSource(code money.Code) bool {
	return slices.Contains(sources, code)
}

// RateLabel renders a rate the way the transfer card shows it ("1 USD = 23.5 SLL").
func RateLabel(c Converter, from money.Code) (string, error) {
	rate, err := c.GetRate(from, Destination)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("1 %s = %s %s", from, rate.String(), Destination), nil
}
