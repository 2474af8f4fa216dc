package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/mochapay/mocha/pkg/domain/session"
	"github.com/mochapay/mocha/pkg/eventbus"
	"github.com/mochapay/mocha/pkg/provider"
	"github.com/mochapay/mocha/pkg/wizard"
)

// ChatView is what a chat client renders after a given message.
type ChatView struct {
	Step         wizard.Step           `json:"step"`
	Placeholder  string                `json:"placeholder"`
	QuickReplies []wizard.QuickReply   `json:"quick_replies"`
	Messages     []wizard.Message      `json:"messages"`
	Receipt      wizard.ReceiptAttempt `json:"receipt"`
	Version      uint64                `json:"version"`
}

// Chat returns the messages after since along with the input hints of
// the current step.
func (s *Service) Chat(ctx context.Context, id, since string) (*ChatView, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Stage != domain.StageChat || sess.Wizard == nil {
		return nil, ErrWrongStage
	}
	return chatView(sess, since), nil
}

func chatView(sess *domain.Session, since string) *ChatView {
	w := sess.Wizard
	return &ChatView{
		Step:         w.Step,
		Placeholder:  wizard.Placeholder(w.Step),
		QuickReplies: wizard.QuickReplies(w.Step),
		Messages:     w.Transcript.Since(since),
		Receipt:      w.Receipt,
		Version:      sess.Version,
	}
}

// SendMessage records the user's chat input and schedules the bot's
// answer. Whitespace-only input changes nothing.
func (s *Service) SendMessage(ctx context.Context, id, text string) (*ChatView, error) {
	if strings.TrimSpace(text) == "" {
		return s.Chat(ctx, id, "")
	}

	var (
		effects []wizard.Effect
		from    wizard.Step
	)
	sess, err := s.update(ctx, id, s.clock.Now(), func(sess *domain.Session) error {
		if sess.Stage != domain.StageChat || sess.Wizard == nil {
			return ErrWrongStage
		}
		from = sess.Wizard.Step
		effects = s.machine.Handle(sess.Wizard, text, s.clock.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	w := sess.Wizard
	if from != w.Step {
		s.metrics.WizardTransitions.WithLabelValues(string(from), string(w.Step)).Inc()
	}
	if from == wizard.StepConfirmation {
		switch w.Step {
		case wizard.StepComplete:
			s.metrics.Transfers.WithLabelValues("confirmed").Inc()
			s.logger.Info("✅ transfer confirmed", "session_id", id, "amount", w.Transfer.AmountDisplay())
		case wizard.StepWelcome:
			s.metrics.Transfers.WithLabelValues("cancelled").Inc()
			s.logger.Info("🚫 transfer cancelled", "session_id", id)
		}
	}
	if msg, ok := w.Transcript.Last(); ok {
		s.publishMessage(ctx, sess, msg)
	}
	s.applyEffects(sess.ID, sess.Conversation, effects)

	// The view starts at the user's own message.
	view := chatView(sess, "")
	if n := len(view.Messages); n > 0 {
		view.Messages = view.Messages[n-1:]
	}
	return view, nil
}

// applyEffects schedules the work a transition asked for. Everything is
// bound to conversation and dropped once the session has moved on.
func (s *Service) applyEffects(id string, conversation int, effects []wizard.Effect) {
	for _, e := range effects {
		switch e.Kind {
		case wizard.EffectReply:
			s.schedule(id, s.timing.Typing, func() {
				s.appendBot(id, conversation, e.Reply)
			})
		case wizard.EffectFollowUp:
			s.schedule(id, s.timing.Typing+s.timing.FollowUp, func() {
				s.appendBot(id, conversation, e.Reply)
			})
		case wizard.EffectSendReceipt:
			s.goBackground(func(ctx context.Context) {
				s.runReceipt(ctx, id, conversation, e.Attempt)
			})
		}
	}
}

// appendBot adds a bot reply to the transcript of conversation.
func (s *Service) appendBot(id string, conversation int, r wizard.Reply) {
	ctx := s.ctx
	var msg wizard.Message
	sess, err := s.update(ctx, id, s.clock.Now(), func(sess *domain.Session) error {
		if !sameConversation(sess, conversation) {
			return errStale
		}
		msg = sess.Wizard.Transcript.Append(wizard.AuthorBot, r.Text, r.Fields, s.clock.Now())
		return nil
	})
	if err != nil {
		if !errors.Is(err, errStale) && !errors.Is(err, context.Canceled) {
			s.logger.Warn("⚠️ dropped bot reply", "session_id", id, "error", err)
		}
		return
	}
	s.publishMessage(ctx, sess, msg)
}

// runReceipt sends the WhatsApp receipt for attempt and records the outcome.
func (s *Service) runReceipt(ctx context.Context, id string, conversation, attempt int) {
	log := s.logger.With("session_id", id, "attempt", attempt)
	sess, err := s.store.Get(ctx, id)
	if err != nil || !sameConversation(sess, conversation) {
		return
	}
	w := sess.Wizard
	req := &provider.ReceiptRequest{
		SessionID:     id,
		To:            w.Collected.ReceiverNumber,
		RecipientName: w.Collected.ReceiverName,
		Amount:        w.Transfer.Amount,
		Currency:      string(w.Transfer.Currency),
		Converted:     w.Transfer.Converted,
		Destination:   string(w.Transfer.Destination),
		TransactionID: sess.Payment.TransactionID,
		Message:       s.receiptMessage(w),
	}

	log.Info("📨 sending WhatsApp receipt", "to", req.To)
	_, sendErr := s.receipts.SendReceipt(ctx, req)
	if errors.Is(sendErr, context.Canceled) {
		return
	}

	var effects []wizard.Effect
	sess, err = s.update(ctx, id, s.clock.Now(), func(sess *domain.Session) error {
		if !sameConversation(sess, conversation) {
			return errStale
		}
		effects = s.machine.ResolveReceipt(sess.Wizard, attempt, sendErr)
		if len(effects) == 0 {
			return errStale
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, errStale) {
			log.Error("❌ failed to record receipt result", "error", err)
		}
		return
	}

	if sendErr != nil {
		s.metrics.Receipts.WithLabelValues("failed").Inc()
		log.Warn("❌ receipt send failed", "error", sendErr)
	} else {
		s.metrics.Receipts.WithLabelValues("sent").Inc()
		log.Info("✅ receipt sent")
	}
	s.events.Publish(ctx, eventbus.Event{
		Type:      eventbus.ReceiptUpdated,
		SessionID: id,
		Version:   sess.Version,
		At:        sess.UpdatedAt,
		Data:      sess.Wizard.Receipt,
	})
	s.applyEffects(id, conversation, effects)
}

func (s *Service) receiptMessage(w *wizard.State) string {
	return fmt.Sprintf(
		"%s receipt: %s sent to %s. They receive %s %s.",
		s.brand,
		w.Transfer.AmountDisplay(),
		w.Collected.ReceiverName,
		w.Transfer.Converted,
		w.Transfer.Destination,
	)
}

func (s *Service) publishMessage(ctx context.Context, sess *domain.Session, msg wizard.Message) {
	s.events.Publish(ctx, eventbus.Event{
		Type:      eventbus.MessageAppended,
		SessionID: sess.ID,
		Version:   sess.Version,
		At:        msg.SentAt,
		Data:      msg,
	})
}

func sameConversation(sess *domain.Session, conversation int) bool {
	return sess.Stage == domain.StageChat && sess.Wizard != nil && sess.Conversation == conversation
}
