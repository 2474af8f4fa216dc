package session

import (
	"github.com/mochapay/mocha/pkg/country"
	domain "github.com/mochapay/mocha/pkg/domain/session"
	"github.com/mochapay/mocha/pkg/money"
	"github.com/mochapay/mocha/pkg/wizard"
)

// AmountRequest sets the amount text. Empty and non-numeric amounts are
// accepted and quote as zero.
type AmountRequest struct {
	Amount string `json:"amount" validate:"max=32"`
}

// CurrencyRequest switches the source currency.
type CurrencyRequest struct {
	Currency string `json:"currency" validate:"required,len=3,alpha"`
}

// PhoneRequest sets the local digits of the sender's WhatsApp number.
type PhoneRequest struct {
	Phone string `json:"phone" validate:"max=20"`
}

// DialogRequest is one interaction with the country or currency picker.
type DialogRequest struct {
	Action string `json:"action" validate:"required,oneof=open toggle close dismiss search select"`
	Value  string `json:"value" validate:"max=64"`
}

// MessageRequest is a chat input. Blank text is ignored.
type MessageRequest struct {
	Text string `json:"text" validate:"max=500"`
}

// SessionResponse is a session with what its form needs to render.
type SessionResponse struct {
	*domain.Session
	Profile    wizard.Profile `json:"profile"`
	Currencies []money.Code   `json:"currencies"`
	// CountryOptions lists the countries matching the picker's search
	// while the picker is open.
	CountryOptions country.List `json:"country_options,omitempty"`
}
