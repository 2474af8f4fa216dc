package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mochapay/mocha/infra/initializer"
	"github.com/mochapay/mocha/pkg/app"
	"github.com/mochapay/mocha/pkg/config"
	domain "github.com/mochapay/mocha/pkg/domain/session"
	"github.com/mochapay/mocha/pkg/eventbus"
	"github.com/mochapay/mocha/pkg/money"
	sessionsvc "github.com/mochapay/mocha/pkg/service/session"
	"github.com/mochapay/mocha/pkg/sim"
	"github.com/mochapay/mocha/pkg/wizard"
	"github.com/spf13/cobra"
)

var errPaymentFailed = errors.New("payment failed")

func newChatCmd(opts *options) *cobra.Command {
	var (
		form    formFlags
		variant string
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Fill the transfer form and continue in the WhatsApp-style chat",
		Long: `Submits the transfer form from the flags, runs the mock card payment
when the wizard variant has one, then reads chat answers from stdin.
The chat ends with stdin; replies still on their way are printed first.`,
		Example: "  mocha chat --amount 100 --phone 5551234567\n  mocha chat --amount 50 --currency gbp --variant collect-sender",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *opts.cfg
			wiz := *cfg.Wizard
			if variant != "" {
				wiz.Variant = variant
			}
			cfg.Wizard = &wiz
			cfg.Session = &config.Session{Store: config.StoreMemory, TTL: cfg.Session.TTL}

			deps, cleanup, err := initializer.BuildDependencies(&cfg, opts.logger, sim.RealClock{})
			if err != nil {
				return err
			}
			defer cleanup()
			core, err := app.New(deps, &cfg)
			if err != nil {
				return err
			}
			defer core.Close()

			c := &chat{
				svc:    core.SessionService,
				bus:    deps.EventBus,
				out:    newTranscriptPrinter(cmd.OutOrStdout(), cfg.Wizard.Brand),
				prompt: isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout()),
				idle:   wiz.TypingDelay + wiz.FollowUpDelay + wiz.ReceiptLatency + 250*time.Millisecond,
			}
			return c.run(cmd.Context(), form, cmd.InOrStdin())
		},
	}
	form.register(cmd)
	cmd.Flags().StringVar(&variant, "variant", "", "wizard variant (known-sender or collect-sender)")
	return cmd
}

type chat struct {
	svc    *sessionsvc.Service
	bus    eventbus.Bus
	out    *transcriptPrinter
	prompt bool
	// idle is how long the chat keeps listening for replies after stdin ends.
	idle time.Duration

	seen map[string]bool
}

func (c *chat) run(ctx context.Context, form formFlags, in io.Reader) error {
	c.seen = make(map[string]bool)

	sess, err := c.svc.Create(ctx)
	if err != nil {
		return err
	}
	id := sess.ID
	sub, unsubscribe := c.bus.Subscribe(id)
	defer unsubscribe()

	if sess, err = c.fillForm(ctx, id, form); err != nil {
		return err
	}
	c.out.quote(&sess.Form.Draft)

	if sess, err = c.svc.Submit(ctx, id); err != nil {
		return err
	}
	if sess.Stage == domain.StagePayment {
		c.out.status("💳 Processing card payment...")
		if _, err := c.svc.Pay(ctx, id); err != nil {
			return err
		}
		if err := c.awaitPayment(ctx, sub); err != nil {
			return err
		}
	}

	return c.converse(ctx, id, sub, in)
}

func (c *chat) fillForm(ctx context.Context, id string, form formFlags) (*domain.Session, error) {
	if _, err := c.svc.SetCurrency(ctx, id, string(moneyCode(form.currency))); err != nil {
		return nil, err
	}
	if _, err := c.svc.SetAmount(ctx, id, form.amount); err != nil {
		return nil, err
	}
	if form.country != "" {
		if _, err := c.svc.Dialog(ctx, id, sessionsvc.DialogCountry, sessionsvc.ActionOpen, ""); err != nil {
			return nil, err
		}
		if _, err := c.svc.Dialog(ctx, id, sessionsvc.DialogCountry, sessionsvc.ActionSelect, form.country); err != nil {
			return nil, err
		}
	}
	return c.svc.SetPhone(ctx, id, form.phone)
}

// awaitPayment prints events until the payment settles.
func (c *chat) awaitPayment(ctx context.Context, sub eventbus.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-sub.C():
			if !ok {
				return nil
			}
			if e.Type != eventbus.PaymentUpdated {
				c.handle(e)
				continue
			}
			p, _ := e.Data.(domain.Payment)
			switch p.Status {
			case domain.PaymentSucceeded:
				c.out.status("✅ Payment approved " + p.TransactionID)
				return nil
			case domain.PaymentFailed:
				return fmt.Errorf("%w: %s", errPaymentFailed, p.Error)
			}
		}
	}
}

// converse sends one stdin line per bot turn. The next line is read
// only after the bot has answered the previous one.
func (c *chat) converse(ctx context.Context, id string, sub eventbus.Subscription, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	view, err := c.svc.Chat(ctx, id, "")
	if err != nil {
		return err
	}
	awaiting := true
	for _, m := range view.Messages {
		c.print(m)
		if m.Author == wizard.AuthorBot {
			awaiting = false
		}
	}

	var (
		input   <-chan string
		idle    <-chan time.Time
		inputOK = true
	)
	for {
		input = nil
		if !awaiting && inputOK {
			input = lines
			if c.prompt {
				c.out.prompt()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-idle:
			return nil
		case e, ok := <-sub.C():
			if !ok {
				return nil
			}
			if c.handle(e) {
				awaiting = false
				if !inputOK {
					idle = time.After(c.idle)
				}
			}
		case text, ok := <-input:
			if !ok {
				inputOK = false
				idle = time.After(c.idle)
				continue
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			view, err := c.svc.SendMessage(ctx, id, text)
			if err != nil {
				return err
			}
			for _, m := range view.Messages {
				c.print(m)
			}
			awaiting = true
		}
	}
}

// handle prints e and reports whether it was a bot message.
func (c *chat) handle(e eventbus.Event) bool {
	switch e.Type {
	case eventbus.MessageAppended:
		m, ok := e.Data.(wizard.Message)
		if !ok {
			return false
		}
		c.print(m)
		return m.Author == wizard.AuthorBot
	case eventbus.ReceiptUpdated:
		r, _ := e.Data.(wizard.ReceiptAttempt)
		if r.Status == wizard.ReceiptError {
			c.out.status("⚠️ WhatsApp receipt could not be sent")
		}
	}
	return false
}

// print writes m once. A terminal already shows what the user typed.
func (c *chat) print(m wizard.Message) {
	if c.seen[m.ID] {
		return
	}
	c.seen[m.ID] = true
	if m.Author == wizard.AuthorUser && c.prompt {
		return
	}
	c.out.message(m)
}

func moneyCode(s string) money.Code {
	return money.Code(strings.ToUpper(strings.TrimSpace(s)))
}
