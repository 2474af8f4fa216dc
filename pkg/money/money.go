// Package money provides functionality for handling monetary values.
//
// It is a value object that represents a monetary value in a specific currency.
// Invariants:
//   - Amounts are decimals, never binary floats.
//   - Amounts are rounded to the currency's decimal places, half away from zero.
//   - User input is plain decimal notation of bounded length.
package money

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a monetary unit with its standard decimal places
type Currency struct {
	Code     Code   // 3-letter ISO 4217 code (e.g., "USD")
	Decimals int    // Number of decimal places (0-8)
	Symbol   string // Display symbol, may be empty
}

// IsValid checks if the currency is valid.
func (c Currency) IsValid() bool {
	if c.Decimals < 0 || c.Decimals > 8 {
		return false
	}
	return c.Code.IsValid()
}

// String returns the currency code as a string
func (c Currency) String() string { return string(c.Code) }

// Money represents a monetary value in a specific currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money value, rounding amount to the currency's decimals.
// The currency parameter can be a Code, a Currency, or a string (e.g., "USD").
func New(amount decimal.Decimal, currency any) (*Money, error) {
	c, err := resolveCurrency(currency)
	if err != nil {
		return nil, err
	}
	return &Money{
		amount:   amount.Round(int32(c.Decimals)),
		currency: c,
	}, nil
}

// Zero creates a Money object with zero amount in the specified currency.
// Invalid currencies fall back to the default currency.
func Zero(currency any) *Money {
	c, err := resolveCurrency(currency)
	if err != nil {
		c = DefaultCode.ToCurrency()
	}
	return &Money{amount: decimal.Zero, currency: c}
}

// amountPattern bounds user input to plain decimal notation with at most
// 12 integer digits and 8 fraction digits.
var amountPattern = regexp.MustCompile(`^[+-]?(\d{1,12}(\.\d{0,8})?|\.\d{1,8})$`)

// ParseDecimal parses a user-typed amount. Surrounding whitespace is ignored.
// Empty, non-numeric, exponent and over-long input returns ErrInvalidAmount.
func ParseDecimal(amount string) (decimal.Decimal, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if !amountPattern.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, truncate(amount, 32))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return d, nil
}

// Parse parses amount and builds a Money value in the given currency.
func Parse(amount string, currency any) (*Money, error) {
	d, err := ParseDecimal(amount)
	if err != nil {
		return nil, err
	}
	return New(d, currency)
}

// Amount returns the decimal amount in the main currency unit.
func (m *Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency of the Money object.
func (m *Money) Currency() Currency {
	return m.currency
}

// CurrencyCode returns the currency code of the Money object.
func (m *Money) CurrencyCode() Code {
	return m.currency.Code
}

// Fixed renders the amount with exactly the currency's decimal places ("2350.00").
func (m *Money) Fixed() string {
	return m.amount.StringFixed(int32(m.currency.Decimals))
}

// Display renders the amount prefixed with the currency symbol ("$100.00").
// Currencies without a symbol are rendered like String.
func (m *Money) Display() string {
	if m.currency.Symbol == "" {
		return m.String()
	}
	if m.amount.IsNegative() {
		return "-" + m.currency.Symbol + m.amount.Neg().StringFixed(int32(m.currency.Decimals))
	}
	return m.currency.Symbol + m.Fixed()
}

// String returns a string representation of the Money object.
func (m *Money) String() string {
	return fmt.Sprintf("%s %s", m.Fixed(), m.currency.Code)
}

// MarshalJSON implements json.Marshaler interface.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"amount":   m.Fixed(),
		"currency": m.currency.Code,
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func resolveCurrency(currency any) (Currency, error) {
	var c Currency
	switch v := currency.(type) {
	case string:
		c = Code(strings.ToUpper(v)).ToCurrency()
	case Code:
		c = v.ToCurrency()
	case Currency:
		c = v
	default:
		return Currency{}, fmt.Errorf(
			"%w: unsupported currency type %T, expected string, Code, or Currency",
			ErrInvalidCurrency,
			currency,
		)
	}
	if !c.IsValid() {
		return Currency{}, fmt.Errorf("%w: %v", ErrInvalidCurrency, c.Code)
	}
	return c, nil
}
