package currency

import (
	"errors"

	"github.com/mochapay/mocha/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnsupportedCurrencyPair indicates the currency pair is not supported.
	ErrUnsupportedCurrencyPair = errors.New("unsupported currency pair")

	// ErrExchangeRateInvalid indicates a configured exchange rate is zero or negative.
	ErrExchangeRateInvalid = errors.New("invalid exchange rate")
)

// Converter defines the interface for converting amounts between currencies.
type Converter interface {
	// Convert converts an amount from its currency to another.
	// Returns the converted amount and the rate used, or an error if conversion is not possible.
	Convert(amount *money.Money, to money.Code) (*Info, error)

	// GetRate returns the exchange rate between two currencies.
	// This is useful for displaying rates without performing a conversion.
	GetRate(from, to money.Code) (decimal.Decimal, error)

	// IsSupported checks if a currency pair is supported by the converter.
	IsSupported(from, to money.Code) bool
}

// Info holds details about a single conversion.
type Info struct {
	Original  *money.Money
	Converted *money.Money
	Rate      decimal.Decimal
}
