package cmd

import (
	"fmt"

	"github.com/fatih/color"
	infraprovider "github.com/mochapay/mocha/infra/provider"
	"github.com/mochapay/mocha/pkg/config"
	"github.com/mochapay/mocha/pkg/currency"
	"github.com/mochapay/mocha/pkg/money"
	"github.com/mochapay/mocha/pkg/transfer"
	"github.com/spf13/cobra"
)

func newQuoteCmd(opts *options) *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "quote <amount>",
		Short: "Price a transfer into the payout currency",
		Example: `  mocha quote 100
  mocha quote 10.5 --currency gbp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := newCalculator(opts.cfg)
			if err != nil {
				return err
			}
			q, err := calc.Quote(args[0], moneyCode(code))
			if err != nil {
				return err
			}
			if !q.Valid {
				return fmt.Errorf("%w: %q", money.ErrInvalidAmount, args[0])
			}

			w := cmd.OutOrStdout()
			label := color.New(color.Faint)
			value := color.New(color.Bold)
			rows := [][2]string{
				{"You send", q.Amount.Display()},
				{q.FeeLabel(), ""},
				{"Recipient gets", q.Converted.Fixed() + " " + string(q.Converted.CurrencyCode())},
				{"Rate", fmt.Sprintf("1 %s = %s %s", q.Amount.CurrencyCode(), q.Rate, currency.Destination)},
			}
			for _, r := range rows {
				if r[1] == "" {
					label.Fprintln(w, r[0]) //nolint: errcheck
					continue
				}
				label.Fprintf(w, "%-15s", r[0]) //nolint: errcheck
				value.Fprintln(w, r[1])          //nolint: errcheck
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&code, "currency", "c", string(money.DefaultCode), "source currency (USD, GBP or EUR)")
	return cmd
}

func newCalculator(cfg *config.App) (*transfer.Calculator, error) {
	rates, err := infraprovider.NewStaticRates(currency.Destination, cfg.Rates.Table())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exchange rates: %w", err)
	}
	return transfer.NewCalculator(rates, cfg.Fee.Percentage), nil
}
