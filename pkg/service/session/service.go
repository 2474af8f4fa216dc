// Package session provides the transfer session service: it owns every
// state change of a visitor's transfer and schedules the simulated delays
// of the payment step and the conversation.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mochapay/mocha/pkg/country"
	"github.com/mochapay/mocha/pkg/currency"
	domain "github.com/mochapay/mocha/pkg/domain/session"
	"github.com/mochapay/mocha/pkg/eventbus"
	"github.com/mochapay/mocha/pkg/metrics"
	"github.com/mochapay/mocha/pkg/provider"
	"github.com/mochapay/mocha/pkg/sim"
	"github.com/mochapay/mocha/pkg/store"
	"github.com/mochapay/mocha/pkg/transfer"
	"github.com/mochapay/mocha/pkg/wizard"
)

var (
	// ErrWrongStage is returned for an action the current card side does not offer.
	ErrWrongStage = errors.New("action not available at this stage")
	// ErrPaymentInProgress is returned while a payment is processing.
	ErrPaymentInProgress = errors.New("payment is processing")

	// errStale marks delayed work whose target moved on.
	errStale = errors.New("stale update")
)

// Timing holds the artificial delays of the conversation.
type Timing struct {
	// Typing is how long the bot "types" before a reply appears.
	Typing time.Duration
	// FollowUp is the extra pause before a follow-up prompt.
	FollowUp time.Duration
}

// Deps are the collaborators of a Service.
type Deps struct {
	Store      store.Store
	Calculator *transfer.Calculator
	Countries  country.List
	Machine    *wizard.Machine
	Payments   provider.Payment
	Receipts   provider.Receipt
	Events     eventbus.Publisher
	Clock      sim.Clock
	Timing     Timing
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Brand      string
}

// Service provides the operations of a transfer session.
type Service struct {
	store     store.Store
	calc      *transfer.Calculator
	countries country.List
	machine   *wizard.Machine
	payments  provider.Payment
	receipts  provider.Receipt
	events    eventbus.Publisher
	clock     sim.Clock
	timing    Timing
	metrics   *metrics.Metrics
	logger    *slog.Logger
	brand     string

	// background work outlives the request that started it
	ctx    context.Context
	cancel context.CancelFunc
	bg     sync.WaitGroup

	mu    sync.Mutex
	tasks map[string][]*sim.Task
}

// New creates a new session service.
func New(deps Deps) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		store:     deps.Store,
		calc:      deps.Calculator,
		countries: deps.Countries,
		machine:   deps.Machine,
		payments:  deps.Payments,
		receipts:  deps.Receipts,
		events:    deps.Events,
		clock:     deps.Clock,
		timing:    deps.Timing,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With("service", "session"),
		brand:     deps.Brand,
		ctx:       ctx,
		cancel:    cancel,
		tasks:     make(map[string][]*sim.Task),
	}
}

// Profile returns the wizard profile sessions run with.
func (s *Service) Profile() wizard.Profile { return s.machine.Profile() }

// Close cancels pending delayed work and waits for background calls to return.
func (s *Service) Close() {
	s.cancel()
	s.mu.Lock()
	for id, tasks := range s.tasks {
		for _, t := range tasks {
			t.Cancel()
		}
		delete(s.tasks, id)
	}
	s.mu.Unlock()
	s.bg.Wait()
}

// Create opens a session showing an empty form.
func (s *Service) Create(ctx context.Context) (*domain.Session, error) {
	draft, err := transfer.NewDraft(s.calc, country.Default)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	sess := domain.New(uuid.NewString(), draft, s.clock.Now())
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.metrics.SessionsCreated.Inc()
	s.logger.Info("✅ session created", "session_id", sess.ID)
	return sess, nil
}

// Get returns a session.
func (s *Service) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.store.Get(ctx, id)
}

// Delete removes a session and drops its pending work.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.Clone(id)
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.cancelTasks(id)
	s.events.Publish(ctx, eventbus.Event{
		Type:      eventbus.SessionDeleted,
		SessionID: id,
		At:        s.clock.Now(),
	})
	s.logger.Info("🗑️ session deleted", "session_id", id)
	return nil
}

// SetAmount stores the amount text and recomputes the quote.
func (s *Service) SetAmount(ctx context.Context, id, amount string) (*domain.Session, error) {
	return s.updateForm(ctx, id, func(f *domain.Form) error {
		return f.Draft.SetAmount(s.calc, amount)
	})
}

// SetCurrency switches the source currency.
func (s *Service) SetCurrency(ctx context.Context, id string, code string) (*domain.Session, error) {
	return s.updateForm(ctx, id, func(f *domain.Form) error {
		return s.applyCurrency(f, code)
	})
}

// SetPhone stores the local digits of the sender's number.
func (s *Service) SetPhone(ctx context.Context, id, digits string) (*domain.Session, error) {
	return s.updateForm(ctx, id, func(f *domain.Form) error {
		f.Draft.SetPhone(digits)
		return nil
	})
}

// Submit leaves the form. Depending on the profile it shows the payment
// step or starts the conversation. A draft without a sender phone is
// rejected with transfer.ErrSenderPhoneRequired and nothing changes.
func (s *Service) Submit(ctx context.Context, id string) (*domain.Session, error) {
	now := s.clock.Now()
	log := s.logger.With("session_id", id)
	sess, err := s.update(ctx, id, now, func(sess *domain.Session) error {
		if sess.Stage != domain.StageForm {
			return ErrWrongStage
		}
		if err := sess.Form.Draft.Submit(); err != nil {
			return err
		}
		sess.Form.CountryDialog.Close()
		sess.Form.CurrencyDialog.Close()
		if s.Profile().PaymentStep {
			sess.Stage = domain.StagePayment
			sess.Payment = domain.Payment{Status: domain.PaymentIdle}
			return nil
		}
		return s.startConversation(sess, now)
	})
	if err != nil {
		if errors.Is(err, transfer.ErrSenderPhoneRequired) {
			s.metrics.FormSubmits.WithLabelValues("phone_required").Inc()
		}
		return nil, err
	}
	s.metrics.FormSubmits.WithLabelValues("accepted").Inc()
	if sess.Stage == domain.StageChat {
		s.conversationStarted()
	}
	log.Info("🟢 transfer form submitted", "stage", sess.Stage)
	s.publishSession(ctx, sess)
	return sess, nil
}

// FlipBack shows the form again. The current conversation is abandoned
// and the next submit starts a new one.
func (s *Service) FlipBack(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.update(ctx, id, s.clock.Now(), func(sess *domain.Session) error {
		switch sess.Stage {
		case domain.StageChat:
		case domain.StagePayment:
			if sess.Payment.Status == domain.PaymentProcessing {
				return ErrPaymentInProgress
			}
			sess.Payment = domain.Payment{Status: domain.PaymentIdle}
		default:
			return ErrWrongStage
		}
		sess.Stage = domain.StageForm
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cancelTasks(id)
	s.publishSession(ctx, sess)
	return sess, nil
}

// updateForm applies fn to the form of a session showing the form.
func (s *Service) updateForm(ctx context.Context, id string, fn func(f *domain.Form) error) (*domain.Session, error) {
	sess, err := s.update(ctx, id, s.clock.Now(), func(sess *domain.Session) error {
		if sess.Stage != domain.StageForm {
			return ErrWrongStage
		}
		return fn(&sess.Form)
	})
	if err != nil {
		return nil, err
	}
	s.publishSession(ctx, sess)
	return sess, nil
}

func (s *Service) applyCurrency(f *domain.Form, code string) error {
	if err := f.Draft.SetCurrency(s.calc, moneyCode(code)); err != nil {
		return err
	}
	f.CurrencyDialog.Selected = f.Draft.Currency
	return nil
}

// update runs fn through the store and stamps the change with now.
func (s *Service) update(
	ctx context.Context,
	id string,
	now time.Time,
	fn func(sess *domain.Session) error,
) (*domain.Session, error) {
	return s.store.Update(ctx, id, func(sess *domain.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		sess.Touch(now)
		return nil
	})
}

func (s *Service) publishSession(ctx context.Context, sess *domain.Session) {
	s.events.Publish(ctx, eventbus.Event{
		Type:      eventbus.SessionUpdated,
		SessionID: sess.ID,
		Version:   sess.Version,
		At:        sess.UpdatedAt,
		Data:      sess,
	})
}

// startConversation opens a new conversation for the current draft.
func (s *Service) startConversation(sess *domain.Session, now time.Time) error {
	t, err := s.transferFor(&sess.Form.Draft)
	if err != nil {
		return err
	}
	sess.StartConversation(s.machine.Start(t, now))
	return nil
}

func (s *Service) transferFor(d *transfer.Draft) (wizard.Transfer, error) {
	q, err := s.calc.Quote(d.Amount, d.Currency)
	if err != nil {
		return wizard.Transfer{}, err
	}
	return wizard.Transfer{
		Amount:       q.Amount.Fixed(),
		Currency:     d.Currency,
		Fee:          q.Fee.Fixed(),
		Converted:    q.Converted.Fixed(),
		Destination:  currency.Destination,
		SenderNumber: d.SenderPhone(),
	}, nil
}

func (s *Service) conversationStarted() {
	s.metrics.WizardTransitions.WithLabelValues("", string(wizard.StepWelcome)).Inc()
}

// schedule runs fn after d on the service clock and remembers the task
// so it can be cancelled with the session. A task forgets itself once it
// ran, so sessions that expire without Delete leave nothing behind.
func (s *Service) schedule(id string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var task *sim.Task
	task = sim.Schedule(s.clock, d, func() {
		fn()
		s.forget(id, task)
	})
	s.tasks[id] = append(s.tasks[id], task)
}

func (s *Service) forget(id string, task *sim.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	live := slices.DeleteFunc(s.tasks[id], func(t *sim.Task) bool { return t == task })
	if len(live) == 0 {
		delete(s.tasks, id)
		return
	}
	s.tasks[id] = live
}

// pendingTasks reports how many sessions still have scheduled work.
func (s *Service) pendingTasks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *Service) cancelTasks(id string) {
	s.mu.Lock()
	tasks := s.tasks[id]
	delete(s.tasks, id)
	s.mu.Unlock()
	for _, t := range tasks {
		t.Cancel()
	}
}

// goBackground runs fn outside the request with the service context.
func (s *Service) goBackground(fn func(ctx context.Context)) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		fn(s.ctx)
	}()
}
