package currency

import (
	"github.com/mochapay/mocha/pkg/money"
	"github.com/mochapay/mocha/pkg/transfer"
)

// CurrencyResponse is a source currency the form offers.
type CurrencyResponse struct {
	Code     money.Code `json:"code"`
	Symbol   string     `json:"symbol"`
	Decimals int        `json:"decimals"`
	// RateLabel reads like "1 USD = 23.5 SLL".
	RateLabel string `json:"rate_label"`
}

// RateResponse is one row of the rate table.
type RateResponse struct {
	From money.Code `json:"from"`
	To   money.Code `json:"to"`
	Rate string     `json:"rate"`
}

// QuoteResponse is the derived side of the form for an amount.
type QuoteResponse struct {
	Amount      string     `json:"amount"`
	Currency    money.Code `json:"currency"`
	Display     string     `json:"display"`
	Fee         string     `json:"fee"`
	FeeLabel    string     `json:"fee_label"`
	Converted   string     `json:"converted"`
	Destination money.Code `json:"destination"`
	Rate        string     `json:"rate"`
	FeeRate     string     `json:"fee_rate"`
	Valid       bool       `json:"valid"`
}

func toQuoteResponse(q *transfer.Quote) QuoteResponse {
	return QuoteResponse{
		Amount:      q.Amount.Fixed(),
		Currency:    q.Amount.CurrencyCode(),
		Display:     q.Amount.Display(),
		Fee:         q.Fee.Fixed(),
		FeeLabel:    q.FeeLabel(),
		Converted:   q.Converted.Fixed(),
		Destination: q.Converted.CurrencyCode(),
		Rate:        q.Rate.String(),
		FeeRate:     q.FeeRate.String(),
		Valid:       q.Valid,
	}
}
