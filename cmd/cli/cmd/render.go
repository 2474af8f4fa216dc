package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mochapay/mocha/pkg/transfer"
	"github.com/mochapay/mocha/pkg/wizard"
)

// transcriptPrinter renders the chat the way the phone mock-up shows it:
// bot bubbles on the left, user bubbles indented to the right.
type transcriptPrinter struct {
	w     io.Writer
	brand string

	bot   *color.Color
	user  *color.Color
	muted *color.Color
	bold  *color.Color
}

func newTranscriptPrinter(w io.Writer, brand string) *transcriptPrinter {
	return &transcriptPrinter{
		w:     w,
		brand: brand,
		bot:   color.New(color.FgHiYellow, color.Bold),
		user:  color.New(color.FgHiGreen, color.Bold),
		muted: color.New(color.Faint),
		bold:  color.New(color.Bold),
	}
}

func (p *transcriptPrinter) quote(d *transfer.Draft) {
	p.muted.Fprintf(p.w, "Sending %s %s from %s, recipient gets %s %s (%s)\n", //nolint: errcheck
		d.Amount, d.Currency, d.SenderPhone(), d.Converted, d.Destination, d.FeeLabel)
}

func (p *transcriptPrinter) status(text string) {
	p.muted.Fprintln(p.w, text) //nolint: errcheck
}

func (p *transcriptPrinter) prompt() {
	p.user.Fprint(p.w, "> ") //nolint: errcheck
}

func (p *transcriptPrinter) message(m wizard.Message) {
	indent := ""
	name := p.bot.Sprint(p.brand)
	if m.Author == wizard.AuthorUser {
		indent = "        "
		name = p.user.Sprint("You")
	}
	fmt.Fprintf(p.w, "%s%s %s\n", indent, name, p.muted.Sprint(m.TimeOfDay())) //nolint: errcheck
	text := m.Text
	for _, f := range m.Fields {
		if f.Emphasize && f.Value != "" {
			text = strings.ReplaceAll(text, f.Value, p.bold.Sprint(f.Value))
		}
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(p.w, "%s%s\n", indent, line) //nolint: errcheck
	}
	fmt.Fprintln(p.w) //nolint: errcheck
}
