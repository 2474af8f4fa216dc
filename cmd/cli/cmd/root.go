// Package cmd implements the mocha command line: quotes, the country
// list, a terminal rendition of the transfer chat and demo hand-off links.
package cmd

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/mochapay/mocha/infra/initializer"
	"github.com/mochapay/mocha/pkg/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type options struct {
	envFile string
	verbose bool
	noColor bool

	cfg    *config.App
	logger *slog.Logger
}

// NewRootCmd builds the mocha command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "mocha",
		Short: "Mocha transfer wizard from the terminal",
		Long: `Quote transfers into Sierra Leonean Leone, browse the country list,
walk through the WhatsApp-style transfer chat, or build a demo hand-off link.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file",
		config.GetEnv(config.EnvFileVar, ".env"), "environment file to load")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log service activity to stderr")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newQuoteCmd(opts),
		newCountriesCmd(opts),
		newChatCmd(opts),
		newLinkCmd(opts),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (o *options) setup(cmd *cobra.Command) error {
	level := int(log.WarnLevel)
	if o.verbose {
		level = int(log.DebugLevel)
	}
	logCfg := &config.Log{Level: level, Format: "text", TimeFormat: "15:04:05", Prefix: "[mocha]"}
	o.logger = initializer.NewLogger(cmd.ErrOrStderr(), logCfg)
	slog.SetDefault(o.logger)

	if o.noColor || !isTerminal(cmd.OutOrStdout()) {
		color.NoColor = true
	}

	cfg, err := config.Load(o.envFile)
	if err != nil {
		return err
	}
	cfg.Log = logCfg
	o.cfg = cfg
	return nil
}

func isTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
