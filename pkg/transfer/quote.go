// Package transfer holds the transfer form draft and the quote shown
// while the sender types an amount.
package transfer

import (
	"errors"
	"fmt"

	"github.com/mochapay/mocha/pkg/currency"
	"github.com/mochapay/mocha/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnsupportedCurrency is returned for a source currency the form does not offer.
	ErrUnsupportedCurrency = errors.New("unsupported source currency")

	// ErrSenderPhoneRequired is returned when submitting without a sender phone number.
	ErrSenderPhoneRequired = errors.New("sender phone number is required")
)

// Quote is the derived side of the form for one amount and currency.
type Quote struct {
	Amount    *money.Money    `json:"amount"`
	Fee       *money.Money    `json:"fee"`
	Converted *money.Money    `json:"converted"`
	Rate      decimal.Decimal `json:"rate"`
	FeeRate   decimal.Decimal `json:"fee_rate"`
	// Valid is false when the amount could not be parsed and every
	// derived value is zero.
	Valid bool `json:"valid"`
}

// FeeLabel renders the fee the way the form shows it ("Fee = 1.00 USD").
func (q *Quote) FeeLabel() string {
	return fmt.Sprintf("Fee = %s %s", q.Fee.Fixed(), q.Fee.CurrencyCode())
}

// Calculator derives quotes from a converter and a flat fee rate.
type Calculator struct {
	converter currency.Converter
	feeRate   decimal.Decimal
}

// NewCalculator returns a Calculator charging feeRate of the amount (0.01 is 1%).
func NewCalculator(converter currency.Converter, feeRate decimal.Decimal) *Calculator {
	return &Calculator{converter: converter, feeRate: feeRate}
}

// FeeRate returns the configured fee rate.
func (c *Calculator) FeeRate() decimal.Decimal { return c.feeRate }

// Converter returns the converter quotes are priced with.
func (c *Calculator) Converter() currency.Converter { return c.converter }

// Quote prices amount in code. An amount that is not a number yields a
// zero quote rather than an error; only an unsupported currency fails.
func (c *Calculator) Quote(amount string, code money.Code) (*Quote, error) {
	if !currency.IsSource(code) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}
	rate, err := c.converter.GetRate(code, currency.Destination)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedCurrency, err)
	}

	q := &Quote{
		Amount:    money.Zero(code),
		Fee:       money.Zero(code),
		Converted: money.Zero(currency.Destination),
		Rate:      rate,
		FeeRate:   c.feeRate,
	}
	d, err := money.ParseDecimal(amount)
	if err != nil {
		return q, nil
	}

	// Derived values are computed from the unrounded amount.
	if q.Amount, err = money.New(d, code); err != nil {
		return nil, err
	}
	if q.Fee, err = money.New(d.Mul(c.feeRate), code); err != nil {
		return nil, err
	}
	if q.Converted, err = money.New(d.Mul(rate), currency.Destination); err != nil {
		return nil, err
	}
	q.Valid = true
	return q, nil
}
