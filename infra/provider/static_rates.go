package provider

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mochapay/mocha/pkg/currency"
	"github.com/mochapay/mocha/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultRates is the rate table towards SLL the service ships with.
func DefaultRates() map[money.Code]decimal.Decimal {
	return map[money.Code]decimal.Decimal{
		money.USD: decimal.RequireFromString("23.5"),
		money.GBP: decimal.RequireFromString("29"),
		money.EUR: decimal.RequireFromString("24"),
	}
}

// StaticRates converts into a single payout currency from a fixed table.
type StaticRates struct {
	to    money.Code
	rates map[money.Code]decimal.Decimal
}

// NewStaticRates builds a converter into to. Every rate must be positive.
func NewStaticRates(to money.Code, rates map[money.Code]decimal.Decimal) (*StaticRates, error) {
	for code, rate := range rates {
		if !rate.IsPositive() {
			return nil, fmt.Errorf("%w: %s->%s = %s", currency.ErrExchangeRateInvalid, code, to, rate)
		}
	}
	return &StaticRates{to: to, rates: maps.Clone(rates)}, nil
}

// Convert converts amount into to.
func (s *StaticRates) Convert(amount *money.Money, to money.Code) (*currency.Info, error) {
	rate, err := s.GetRate(amount.CurrencyCode(), to)
	if err != nil {
		return nil, err
	}
	converted, err := money.New(amount.Amount().Mul(rate), to)
	if err != nil {
		return nil, err
	}
	return &currency.Info{Original: amount, Converted: converted, Rate: rate}, nil
}

// GetRate returns the rate from -> to. Same-currency pairs have rate 1.
func (s *StaticRates) GetRate(from, to money.Code) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	rate, exists := s.rates[from]
	if !exists || to != s.to {
		return decimal.Zero, fmt.Errorf("%w: %s->%s", currency.ErrUnsupportedCurrencyPair, from, to)
	}
	return rate, nil
}

// IsSupported reports whether GetRate succeeds for the pair.
func (s *StaticRates) IsSupported(from, to money.Code) bool {
	_, err := s.GetRate(from, to)
	return err == nil
}

// Rate is one row of the rate table.
type Rate struct {
	From money.Code      `json:"from"`
	To   money.Code      `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

// Table lists the configured rates ordered by source currency.
func (s *StaticRates) Table() []Rate {
	codes := slices.Sorted(maps.Keys(s.rates))
	out := make([]Rate, 0, len(codes))
	for _, code := range codes {
		out = append(out, Rate{From: code, To: s.to, Rate: s.rates[code]})
	}
	return out
}
