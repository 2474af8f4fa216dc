package money

import "errors"

// Common money package errors
var (
	// ErrInvalidAmount is returned when an amount string is empty or not a decimal number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurrency is returned when a currency code is malformed.
	ErrInvalidCurrency = errors.New("invalid currency code")
)
