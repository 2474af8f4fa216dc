package transfer

import (
	"strings"

	"github.com/mochapay/mocha/pkg/country"
	"github.com/mochapay/mocha/pkg/currency"
	"github.com/mochapay/mocha/pkg/money"
)

// Draft is the transfer form as the sender fills it in. Fee and Converted
// always reflect the current Amount and Currency.
type Draft struct {
	Amount      string        `json:"amount"`
	Currency    money.Code    `json:"currency"`
	Fee         string        `json:"fee"`
	Converted   string        `json:"converted"`
	Destination money.Code    `json:"destination"`
	RateLabel   string        `json:"rate_label"`
	FeeLabel    string        `json:"fee_label"`
	Country     country.Entry `json:"country"`
	PhoneDigits string        `json:"phone_digits"`
}

// NewDraft returns an empty draft in the default currency for c.
func NewDraft(calc *Calculator, c country.Entry) (*Draft, error) {
	d := &Draft{
		Currency:    money.DefaultCode,
		Destination: currency.Destination,
		Country:     c,
	}
	if err := d.recompute(calc); err != nil {
		return nil, err
	}
	return d, nil
}

// SetAmount stores the raw amount text and recomputes the derived fields.
func (d *Draft) SetAmount(calc *Calculator, amount string) error {
	prev := d.Amount
	d.Amount = amount
	if err := d.recompute(calc); err != nil {
		d.Amount = prev
		return err
	}
	return nil
}

// SetCurrency switches the source currency. The draft is left unchanged
// when code is not a source currency.
func (d *Draft) SetCurrency(calc *Calculator, code money.Code) error {
	prev := d.Currency
	d.Currency = code
	if err := d.recompute(calc); err != nil {
		d.Currency = prev
		return err
	}
	return nil
}

// SetCountry sets the dial code the sender phone is prefixed with.
func (d *Draft) SetCountry(c country.Entry) {
	d.Country = c
}

// SetPhone stores the local part of the sender's WhatsApp number.
func (d *Draft) SetPhone(digits string) {
	d.PhoneDigits = strings.TrimSpace(digits)
}

// SenderPhone is the dial code followed by the local digits.
func (d *Draft) SenderPhone() string {
	return d.Country.DialCode + d.PhoneDigits
}

// Submit checks the draft is ready to leave the form.
func (d *Draft) Submit() error {
	if d.PhoneDigits == "" {
		return ErrSenderPhoneRequired
	}
	return nil
}

func (d *Draft) recompute(calc *Calculator) error {
	q, err := calc.Quote(d.Amount, d.Currency)
	if err != nil {
		return err
	}
	label, err := currency.RateLabel(calc.Converter(), d.Currency)
	if err != nil {
		return err
	}
	d.Fee = q.Fee.Fixed()
	d.Converted = q.Converted.Fixed()
	d.RateLabel = label
	d.FeeLabel = q.FeeLabel()
	return nil
}
