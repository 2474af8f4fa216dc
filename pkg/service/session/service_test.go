package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	infraeventbus "github.com/mochapay/mocha/infra/eventbus"
	infraprovider "github.com/mochapay/mocha/infra/provider"
	infrastore "github.com/mochapay/mocha/infra/store"
	"github.com/mochapay/mocha/pkg/country"
	"github.com/mochapay/mocha/pkg/currency"
	domain "github.com/mochapay/mocha/pkg/domain/session"
	"github.com/mochapay/mocha/pkg/eventbus"
	"github.com/mochapay/mocha/pkg/metrics"
	"github.com/mochapay/mocha/pkg/money"
	"github.com/mochapay/mocha/pkg/selector"
	"github.com/mochapay/mocha/pkg/service/session"
	"github.com/mochapay/mocha/pkg/sim"
	"github.com/mochapay/mocha/pkg/store"
	"github.com/mochapay/mocha/pkg/transfer"
	"github.com/mochapay/mocha/pkg/wizard"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	typing         = 300 * time.Millisecond
	followUp       = 800 * time.Millisecond
	paymentLatency = 2 * time.Second
	receiptLatency = 1500 * time.Millisecond
)

var epoch = time.Date(2024, 5, 1, 9, 41, 0, 0, time.UTC)

type harness struct {
	svc      *session.Service
	clock    *sim.FakeClock
	hub      *infraeventbus.Hub
	payments *infraprovider.MockPayment
	receipts *infraprovider.MockReceipt
}

func newHarness(t *testing.T, variant wizard.Variant) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := sim.NewFakeClock(epoch)

	rates, err := infraprovider.NewStaticRates(currency.Destination, infraprovider.DefaultRates())
	require.NoError(t, err)
	profile, err := wizard.ProfileFor(variant)
	require.NoError(t, err)

	h := &harness{
		clock:    clock,
		hub:      infraeventbus.NewHub(64, logger),
		payments: infraprovider.NewMockPayment(clock, paymentLatency, logger),
		receipts: infraprovider.NewMockReceipt(clock, receiptLatency, logger),
	}
	h.svc = session.New(session.Deps{
		Store:      infrastore.NewMemory(time.Hour, 0, clock),
		Calculator: transfer.NewCalculator(rates, decimal.RequireFromString("0.01")),
		Countries:  country.MustLoadEmbedded(),
		Machine:    wizard.NewMachine(profile, "Mocha"),
		Payments:   h.payments,
		Receipts:   h.receipts,
		Events:     h.hub,
		Clock:      clock,
		Timing:     session.Timing{Typing: typing, FollowUp: followUp},
		Metrics:    metrics.New(),
		Logger:     logger,
		Brand:      "Mocha",
	})
	t.Cleanup(h.svc.Close)
	return h
}

// waitPending blocks until background work has registered a timer.
func (h *harness) waitPending(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.clock.Pending() >= n }, time.Second, time.Millisecond)
}

func (h *harness) waitFor(t *testing.T, id string, cond func(*domain.Session) bool) *domain.Session {
	t.Helper()
	var sess *domain.Session
	require.Eventually(t, func() bool {
		var err error
		sess, err = h.svc.Get(context.Background(), id)
		return err == nil && cond(sess)
	}, time.Second, time.Millisecond)
	return sess
}

// filledForm creates a session with $100 and a sender phone.
func (h *harness) filledForm(t *testing.T) *domain.Session {
	t.Helper()
	ctx := context.Background()
	sess, err := h.svc.Create(ctx)
	require.NoError(t, err)
	_, err = h.svc.SetAmount(ctx, sess.ID, "100")
	require.NoError(t, err)
	sess, err = h.svc.SetPhone(ctx, sess.ID, " 5551234567 ")
	require.NoError(t, err)
	return sess
}

func botTexts(sess *domain.Session) []string {
	var out []string
	for _, m := range sess.Wizard.Transcript.Messages {
		if m.Author == wizard.AuthorBot {
			out = append(out, m.Text)
		}
	}
	return out
}

func TestCreate(t *testing.T) {
	h := newHarness(t, wizard.VariantKnownSender)

	sess, err := h.svc.Create(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, domain.StageForm, sess.Stage)
	assert.Equal(t, money.USD, sess.Form.Draft.Currency)
	assert.Equal(t, country.Default, sess.Form.Draft.Country)
	assert.Equal(t, "0.00", sess.Form.Draft.Fee)
	assert.Equal(t, "1 USD = 23.5 SLL", sess.Form.Draft.RateLabel)
	assert.False(t, sess.Form.CountryDialog.IsOpen)
}

func TestSetAmountAndCurrency(t *testing.T) {
	h := newHarness(t, wizard.VariantKnownSender)
	ctx := context.Background()
	sess, err := h.svc.Create(ctx)
	require.NoError(t, err)

	sess, err = h.svc.SetAmount(ctx, sess.ID, "100")
	require.NoError(t, err)
	assert.Equal(t, "1.00", sess.Form.Draft.Fee)
	assert.Equal(t, "2350.00", sess.Form.Draft.Converted)

	sess, err = h.svc.SetCurrency(ctx, sess.ID, "gbp")
	require.NoError(t, err)
	assert.Equal(t, money.GBP, sess.Form.Draft.Currency)
	assert.Equal(t, money.GBP, sess.Form.CurrencyDialog.Selected)
	assert.Equal(t, "2900.00", sess.Form.Draft.Converted)
	assert.Equal(t, "Fee = 1.00 GBP", sess.Form.Draft.FeeLabel)

	_, err = h.svc.SetCurrency(ctx, sess.ID, "JPY")
	require.ErrorIs(t, err, transfer.ErrUnsupportedCurrency)
	sess, err = h.svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, money.GBP, sess.Form.Draft.Currency)

	sess, err = h.svc.SetAmount(ctx, sess.ID, "abc")
	require.NoError(t, err)
	assert.Equal(t, "0.00", sess.Form.Draft.Converted)
}

func TestDialogs(t *testing.T) {
	h := newHarness(t, wizard.VariantKnownSender)
	ctx := context.Background()
	sess, err := h.svc.Create(ctx)
	require.NoError(t, err)
	id := sess.ID

	_, err = h.svc.Dialog(ctx, id, session.DialogCountry, session.ActionSelect, "+232")
	require.ErrorIs(t, err, selector.ErrClosed)

	sess, err = h.svc.Dialog(ctx, id, session.DialogCountry, session.ActionOpen, "")
	require.NoError(t, err)
	assert.True(t, sess.Form.CountryDialog.IsOpen)

	sess, err = h.svc.Dialog(ctx, id, session.DialogCountry, session.ActionSearch, "sierra")
	require.NoError(t, err)
	options := h.svc.CountryOptions(sess)
	require.Len(t, options, 1)
	assert.Equal(t, "+232", options[0].DialCode)

	sess, err = h.svc.Dialog(ctx, id, session.DialogCountry, session.ActionSelect, "+232")
	require.NoError(t, err)
	assert.False(t, sess.Form.CountryDialog.IsOpen)
	assert.Equal(t, "Sierra Leone", sess.Form.Draft.Country.Name)

	_, err = h.svc.Dialog(ctx, id, session.DialogCountry, session.ActionOpen, "")
	require.NoError(t, err)
	_, err = h.svc.Dialog(ctx, id, session.DialogCountry, session.ActionSelect, "+999")
	require.ErrorIs(t, err, country.ErrNotFound)
	sess, err = h.svc.Dialog(ctx, id, session.DialogCountry, session.ActionDismiss, "")
	require.NoError(t, err)
	assert.False(t, sess.Form.CountryDialog.IsOpen)
	assert.Equal(t, "Sierra Leone", sess.Form.Draft.Country.Name)

	sess, err = h.svc.Dialog(ctx, id, session.DialogCurrency, session.ActionToggle, "")
	require.NoError(t, err)
	assert.True(t, sess.Form.CurrencyDialog.IsOpen)
	sess, err = h.svc.Dialog(ctx, id, session.DialogCurrency, session.ActionSelect, "eur")
	require.NoError(t, err)
	assert.Equal(t, money.EUR, sess.Form.Draft.Currency)
	assert.False(t, sess.Form.CurrencyDialog.IsOpen)

	_, err = h.svc.Dialog(ctx, id, "planet", session.ActionOpen, "")
	require.ErrorIs(t, err, session.ErrUnknownDialog)
	_, err = h.svc.Dialog(ctx, id, session.DialogCurrency, "shake", "")
	require.ErrorIs(t, err, session.ErrUnknownDialogAction)
}

func TestSubmit_RequiresSenderPhone(t *testing.T) {
	h := newHarness(t, wizard.VariantKnownSender)
	ctx := context.Background()
	sess, err := h.svc.Create(ctx)
	require.NoError(t, err)

	_, err = h.svc.Submit(ctx, sess.ID)
	require.ErrorIs(t, err, transfer.ErrSenderPhoneRequired)

	got, err := h.svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageForm, got.Stage)
	assert.Equal(t, sess.Version, got.Version)
}

func TestKnownSenderFlow(t *testing.T) {
	h := newHarness(t, wizard.VariantKnownSender)
	ctx := context.Background()
	id := h.filledForm(t).ID

	sess, err := h.svc.Submit(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.StagePayment, sess.Stage)

	_, err = h.svc.SendMessage(ctx, id, "hello")
	require.ErrorIs(t, err, session.ErrWrongStage)

	sess, err = h.svc.Pay(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentProcessing, sess.Payment.Status)
	_, err = h.svc.Pay(ctx, id)
	require.ErrorIs(t, err, session.ErrPaymentInProgress)

	h.waitPending(t, 1)
	h.clock.Advance(paymentLatency)
	sess = h.waitFor(t, id, func(s *domain.Session) bool { return s.Stage == domain.StageChat })
	assert.Equal(t, domain.PaymentSucceeded, sess.Payment.Status)
	assert.NotEmpty(t, sess.Payment.TransactionID)
	require.Len(t, sess.Wizard.Transcript.Messages, 1)
	assert.Contains(t, sess.Wizard.Transcript.Messages[0].Text, "$100.00")
	assert.Equal(t, "+15551234567", sess.Wizard.Transfer.SenderNumber)

	view, err := h.svc.SendMessage(ctx, id, "Yes, let's continue")
	require.NoError(t, err)
	require.Len(t, view.Messages, 1)
	assert.Equal(t, wizard.AuthorUser, view.Messages[0].Author)
	assert.Equal(t, wizard.StepReceiverName, view.Step)
	assert.Equal(t, "Enter name...", view.Placeholder)

	h.clock.Advance(typing)
	sess, err = h.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Great! To get started, please enter the recipient's full name.", botTexts(sess)[1])

	_, err = h.svc.SendMessage(ctx, id, "Aminata Kamara")
	require.NoError(t, err)
	h.clock.Advance(typing)
	_, err = h.svc.SendMessage(ctx, id, "+232 76 123456")
	require.NoError(t, err)
	h.clock.Advance(typing)

	view, err = h.svc.Chat(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepConfirmation, view.Step)
	require.Len(t, view.QuickReplies, 2)
	assert.Equal(t, "confirm", view.QuickReplies[0].Text)

	_, err = h.svc.SendMessage(ctx, id, "confirm")
	require.NoError(t, err)
	h.clock.Advance(typing)

	sess, err = h.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, wizard.ReceiptSending, sess.Wizard.Receipt.Status)
	assert.Contains(t, botTexts(sess)[len(botTexts(sess))-1], "has been initiated")

	h.waitPending(t, 1)
	h.clock.Advance(receiptLatency)
	sess = h.waitFor(t, id, func(s *domain.Session) bool {
		return s.Wizard.Receipt.Status == wizard.ReceiptSuccess
	})

	sent := h.receipts.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "+23276123456", sent[0].To)
	assert.Equal(t, "Aminata Kamara", sent[0].RecipientName)
	assert.Equal(t, sess.Payment.TransactionID, sent[0].TransactionID)

	h.waitPending(t, 2)
	h.clock.Advance(typing + followUp)
	sess, err = h.svc.Get(ctx, id)
	require.NoError(t, err)
	texts := botTexts(sess)
	require.GreaterOrEqual(t, len(texts), 2)
	assert.Equal(t, "✅ Receipt sent to Aminata Kamara on WhatsApp (+23276123456).", texts[len(texts)-2])
	assert.Equal(t, "Would you like to make another transfer?", texts[len(texts)-1])
}

func TestCollectSenderFlow(t *testing.T) {
	h := newHarness(t, wizard.VariantCollectSender)
	ctx := context.Background()
	id := h.filledForm(t).ID

	sess, err := h.svc.Submit(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.StageChat, sess.Stage)
	require.Len(t, sess.Wizard.Transcript.Messages, 1)

	for _, input := range []string{"yes", "+15551234567", "Jane Doe", "John Smith", "+23276123456"} {
		_, err = h.svc.SendMessage(ctx, id, input)
		require.NoError(t, err)
		h.clock.Advance(typing)
	}
	view, err := h.svc.Chat(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepConfirmation, view.Step)

	_, err = h.svc.SendMessage(ctx, id, "yes")
	require.NoError(t, err)
	h.clock.Advance(typing + followUp)

	sess, err = h.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepComplete, sess.Wizard.Step)
	assert.Equal(t, wizard.ReceiptIdle, sess.Wizard.Receipt.Status)
	assert.Empty(t, h.receipts.Sent())
	texts := botTexts(sess)
	assert.Equal(t, "Would you like to make another transfer?", texts[len(texts)-1])
}

func TestSendMessage_IgnoresBlankInput(t *testing.T) {
	h := newHarness(t, wizard.VariantCollectSender)
	ctx := context.Background()
	id := h.filledForm(t).ID
	before, err := h.svc.Submit(ctx, id)
	require.NoError(t, err)

	view, err := h.svc.SendMessage(ctx, id, "   ")
	require.NoError(t, err)
	assert.Equal(t, before.Version, view.Version)
	assert.Len(t, view.Messages, 1)
	assert.Zero(t, h.clock.Pending())
}

func TestFlipBack_DropsPendingReplies(t *testing.T) {
	h := newHarness(t, wizard.VariantCollectSender)
	ctx := context.Background()
	id := h.filledForm(t).ID
	_, err := h.svc.Submit(ctx, id)
	require.NoError(t, err)

	_, err = h.svc.SendMessage(ctx, id, "yes")
	require.NoError(t, err)
	sess, err := h.svc.FlipBack(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StageForm, sess.Stage)

	h.clock.Advance(time.Minute)
	sess, err = h.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, sess.Wizard.Transcript.Messages, 2)

	sess, err = h.svc.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Conversation)
	assert.Len(t, sess.Wizard.Transcript.Messages, 1)
	assert.Equal(t, wizard.StepWelcome, sess.Wizard.Step)

	_, err = h.svc.FlipBack(ctx, id)
	require.NoError(t, err)
	_, err = h.svc.FlipBack(ctx, id)
	require.ErrorIs(t, err, session.ErrWrongStage)
}

func TestScheduledReplies_AreForgottenOnceRun(t *testing.T) {
	h := newHarness(t, wizard.VariantCollectSender)
	ctx := context.Background()

	const sessions = 20
	ids := make([]string, 0, sessions)
	for range sessions {
		id := h.filledForm(t).ID
		_, err := h.svc.Submit(ctx, id)
		require.NoError(t, err)
		_, err = h.svc.SendMessage(ctx, id, "yes")
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, sessions, h.svc.PendingTasks())

	// Replies fire, then every session outlives its TTL without Delete.
	h.clock.Advance(2 * time.Hour)
	for _, id := range ids {
		_, err := h.svc.Get(ctx, id)
		require.ErrorIs(t, err, store.ErrNotFound)
	}
	assert.Zero(t, h.svc.PendingTasks())
	assert.Zero(t, h.clock.Pending())
}

func TestDelete_CancelsScheduledReplies(t *testing.T) {
	h := newHarness(t, wizard.VariantCollectSender)
	ctx := context.Background()
	id := h.filledForm(t).ID
	_, err := h.svc.Submit(ctx, id)
	require.NoError(t, err)
	_, err = h.svc.SendMessage(ctx, id, "yes")
	require.NoError(t, err)
	require.Equal(t, 1, h.svc.PendingTasks())

	require.NoError(t, h.svc.Delete(ctx, id))
	assert.Zero(t, h.svc.PendingTasks())
	assert.Zero(t, h.clock.Pending())
}

func TestPaymentFailure(t *testing.T) {
	h := newHarness(t, wizard.VariantKnownSender)
	ctx := context.Background()
	id := h.filledForm(t).ID
	_, err := h.svc.Submit(ctx, id)
	require.NoError(t, err)

	h.payments.FailWith(errors.New("card declined"))
	_, err = h.svc.Pay(ctx, id)
	require.NoError(t, err)
	h.waitPending(t, 1)
	h.clock.Advance(paymentLatency)

	sess := h.waitFor(t, id, func(s *domain.Session) bool {
		return s.Payment.Status == domain.PaymentFailed
	})
	assert.Equal(t, domain.StagePayment, sess.Stage)
	assert.Contains(t, sess.Payment.Error, "card declined")
	assert.Nil(t, sess.Wizard)

	sess, err = h.svc.CancelPayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StageForm, sess.Stage)
	assert.Equal(t, domain.PaymentIdle, sess.Payment.Status)
}

func TestEvents(t *testing.T) {
	h := newHarness(t, wizard.VariantKnownSender)
	ctx := context.Background()
	sess, err := h.svc.Create(ctx)
	require.NoError(t, err)

	sub, unsubscribe := h.hub.Subscribe(sess.ID)
	defer unsubscribe()

	updated, err := h.svc.SetAmount(ctx, sess.ID, "50")
	require.NoError(t, err)
	select {
	case e := <-sub.C():
		assert.Equal(t, eventbus.SessionUpdated, e.Type)
		assert.Equal(t, updated.Version, e.Version)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}

	require.NoError(t, h.svc.Delete(ctx, sess.ID))
	select {
	case e := <-sub.C():
		assert.Equal(t, eventbus.SessionDeleted, e.Type)
	case <-time.After(time.Second):
		t.Fatal("no delete event published")
	}

	_, err = h.svc.Get(ctx, sess.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
