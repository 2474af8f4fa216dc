package whatsapp

import (
	"fmt"

	"github.com/mochapay/mocha/pkg/money"
	"github.com/mochapay/mocha/pkg/transfer"
)

// HandoffMessage is the text prefilled in the demo chat with brand. It
// describes the transfer on d; an unparsable amount reads as zero.
func HandoffMessage(brand string, d *transfer.Draft) string {
	amount, err := money.Parse(d.Amount, d.Currency)
	if err != nil {
		amount = money.Zero(d.Currency)
	}
	return fmt.Sprintf(
		"Hi %s! I'd like to send %s (%s %s after a %s %s fee). My WhatsApp number is %s.",
		brand, amount.Display(), d.Converted, d.Destination, d.Fee, d.Currency, d.SenderPhone(),
	)
}
