package session

import (
	"context"
	"errors"

	domain "github.com/mochapay/mocha/pkg/domain/session"
	"github.com/mochapay/mocha/pkg/eventbus"
	"github.com/mochapay/mocha/pkg/provider"
)

// Pay starts the mock card payment. The payment runs in the background;
// on success the conversation starts, on failure the payment step shows
// the error and can be retried.
func (s *Service) Pay(ctx context.Context, id string) (*domain.Session, error) {
	now := s.clock.Now()
	sess, err := s.update(ctx, id, now, func(sess *domain.Session) error {
		if sess.Stage != domain.StagePayment {
			return ErrWrongStage
		}
		if sess.Payment.Status == domain.PaymentProcessing {
			return ErrPaymentInProgress
		}
		sess.Payment = domain.Payment{
			Status:    domain.PaymentProcessing,
			Method:    string(provider.PaymentMethodCard),
			StartedAt: &now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishPayment(ctx, sess)

	id = sess.ID
	d := sess.Form.Draft
	req := &provider.PaymentRequest{
		SessionID:   id,
		Method:      provider.PaymentMethodCard,
		Amount:      d.Amount,
		Currency:    string(d.Currency),
		SenderPhone: d.SenderPhone(),
	}
	s.goBackground(func(ctx context.Context) { s.runPayment(ctx, id, req) })
	return sess, nil
}

// CancelPayment leaves the payment step for the form.
func (s *Service) CancelPayment(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.update(ctx, id, s.clock.Now(), func(sess *domain.Session) error {
		if sess.Stage != domain.StagePayment {
			return ErrWrongStage
		}
		if sess.Payment.Status == domain.PaymentProcessing {
			return ErrPaymentInProgress
		}
		sess.Stage = domain.StageForm
		sess.Payment = domain.Payment{Status: domain.PaymentIdle}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishSession(ctx, sess)
	return sess, nil
}

func (s *Service) runPayment(ctx context.Context, id string, req *provider.PaymentRequest) {
	log := s.logger.With("session_id", id, "method", req.Method)
	result, payErr := s.payments.ProcessPayment(ctx, req)
	if errors.Is(payErr, context.Canceled) {
		return
	}

	now := s.clock.Now()
	sess, err := s.update(ctx, id, now, func(sess *domain.Session) error {
		if sess.Stage != domain.StagePayment || sess.Payment.Status != domain.PaymentProcessing {
			return errStale
		}
		sess.Payment.CompletedAt = &now
		if payErr != nil || result == nil || !result.Success {
			sess.Payment.Status = domain.PaymentFailed
			sess.Payment.Error = paymentError(result, payErr)
			return nil
		}
		sess.Payment.Status = domain.PaymentSucceeded
		sess.Payment.TransactionID = result.TransactionID
		sess.Payment.Method = string(result.Method)
		return s.startConversation(sess, now)
	})
	if err != nil {
		if !errors.Is(err, errStale) {
			log.Error("❌ failed to record payment result", "error", err)
		}
		return
	}

	if sess.Payment.Status == domain.PaymentFailed {
		s.metrics.Payments.WithLabelValues("failed").Inc()
		log.Warn("❌ payment failed", "error", sess.Payment.Error)
		s.publishPayment(ctx, sess)
		return
	}
	s.metrics.Payments.WithLabelValues("succeeded").Inc()
	s.conversationStarted()
	log.Info("✅ payment succeeded", "transaction_id", sess.Payment.TransactionID)
	s.publishPayment(ctx, sess)
	s.publishSession(ctx, sess)
	if msg, ok := sess.Wizard.Transcript.Last(); ok {
		s.publishMessage(ctx, sess, msg)
	}
}

func (s *Service) publishPayment(ctx context.Context, sess *domain.Session) {
	s.events.Publish(ctx, eventbus.Event{
		Type:      eventbus.PaymentUpdated,
		SessionID: sess.ID,
		Version:   sess.Version,
		At:        sess.UpdatedAt,
		Data:      sess.Payment,
	})
}

func paymentError(result *provider.PaymentResult, err error) string {
	if result != nil && result.Error != "" {
		return "Payment failed: " + result.Error
	}
	if err != nil {
		return "Payment failed: " + err.Error()
	}
	return "Payment failed. Please try again."
}
