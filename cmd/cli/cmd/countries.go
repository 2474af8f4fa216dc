package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mochapay/mocha/pkg/country"
	"github.com/spf13/cobra"
)

var errNoCountries = errors.New("no country matches")

func newCountriesCmd(_ *options) *cobra.Command {
	return &cobra.Command{
		Use:     "countries [search]",
		Short:   "List the dial codes the sender phone can use",
		Example: "  mocha countries leone\n  mocha countries +23",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := country.MustLoadEmbedded()
			term := strings.Join(args, "")
			if term != "" {
				list = list.Filter(term)
			}
			if len(list) == 0 {
				return fmt.Errorf("%w %q", errNoCountries, term)
			}

			code := color.New(color.Bold)
			w := cmd.OutOrStdout()
			for _, e := range list {
				fmt.Fprintf(w, "%s  %s  %s\n", e.Flag, code.Sprintf("%-6s", e.DialCode), e.Name) //nolint: errcheck
			}
			return nil
		},
	}
}
