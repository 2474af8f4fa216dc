package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/mochapay/mocha/pkg/country"
	"github.com/mochapay/mocha/pkg/money"
	"github.com/mochapay/mocha/pkg/transfer"
	"github.com/mochapay/mocha/pkg/whatsapp"
	"github.com/spf13/cobra"
)

type formFlags struct {
	amount   string
	currency string
	country  string
	phone    string
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount to send")
	cmd.Flags().StringVarP(&f.currency, "currency", "c", string(money.DefaultCode), "source currency (USD, GBP or EUR)")
	cmd.Flags().StringVar(&f.country, "country", country.Default.DialCode, "dial code of the sender phone")
	cmd.Flags().StringVarP(&f.phone, "phone", "p", "", "sender phone number without the dial code")
}

func newLinkCmd(opts *options) *cobra.Command {
	var (
		form formFlags
		to   string
	)
	cmd := &cobra.Command{
		Use:     "link",
		Short:   "Build the demo WhatsApp hand-off link for a transfer",
		Example: "  mocha link --amount 100 --phone 5551234567 --to '+232 76 000 000'",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc, err := newCalculator(opts.cfg)
			if err != nil {
				return err
			}
			entry, err := country.MustLoadEmbedded().Lookup(form.country)
			if err != nil {
				return err
			}
			d, err := transfer.NewDraft(calc, entry)
			if err != nil {
				return err
			}
			if err := d.SetCurrency(calc, moneyCode(form.currency)); err != nil {
				return err
			}
			if err := d.SetAmount(calc, form.amount); err != nil {
				return err
			}
			d.SetPhone(form.phone)

			if to == "" {
				to = opts.cfg.Demo.WhatsAppNumber
			}
			msg := whatsapp.HandoffMessage(opts.cfg.Wizard.Brand, d)
			link, err := whatsapp.DeepLink(to, msg)
			if err != nil {
				return fmt.Errorf("failed to build link (set DEMO_WHATSAPP_NUMBER or --to): %w", err)
			}

			w := cmd.OutOrStdout()
			color.New(color.Faint).Fprintln(w, msg)    //nolint: errcheck
			color.New(color.FgGreen).Fprintln(w, link) //nolint: errcheck
			return nil
		},
	}
	form.register(cmd)
	cmd.Flags().StringVar(&to, "to", "", "WhatsApp number to open the chat with (defaults to DEMO_WHATSAPP_NUMBER)")
	return cmd
}
