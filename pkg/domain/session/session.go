// Package session defines the state of one visitor's transfer: the form,
// the payment step and the conversation.
package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mochapay/mocha/pkg/country"
	"github.com/mochapay/mocha/pkg/money"
	"github.com/mochapay/mocha/pkg/selector"
	"github.com/mochapay/mocha/pkg/transfer"
	"github.com/mochapay/mocha/pkg/wizard"
)

// Stage is the side of the transfer card that is showing.
type Stage string

const (
	StageForm    Stage = "form"
	StagePayment Stage = "payment"
	StageChat    Stage = "chat"
)

// PaymentStatus of the mock payment step.
type PaymentStatus string

const (
	PaymentIdle       PaymentStatus = "idle"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSucceeded  PaymentStatus = "succeeded"
	PaymentFailed     PaymentStatus = "failed"
)

// Payment is the state of the payment step.
type Payment struct {
	Status        PaymentStatus `json:"status"`
	Method        string        `json:"method,omitempty"`
	TransactionID string        `json:"transaction_id,omitempty"`
	Error         string        `json:"error,omitempty"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// Form is the front of the card: the draft and its two picker dialogs.
type Form struct {
	Draft          transfer.Draft                  `json:"draft"`
	CountryDialog  selector.Popover[country.Entry] `json:"country_dialog"`
	CurrencyDialog selector.Popover[money.Code]    `json:"currency_dialog"`
}

// Session is one visitor's transfer.
type Session struct {
	ID      string        `json:"id"`
	Stage   Stage         `json:"stage"`
	Form    Form          `json:"form"`
	Payment Payment       `json:"payment"`
	Wizard  *wizard.State `json:"wizard,omitempty"`
	// Conversation counts the conversations started in this session.
	// Delayed work for an older conversation is dropped.
	Conversation int       `json:"conversation"`
	Version      uint64    `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// New returns a session showing the form for draft.
func New(id string, draft *transfer.Draft, now time.Time) *Session {
	return &Session{
		ID:    id,
		Stage: StageForm,
		Form: Form{
			Draft:          *draft,
			CountryDialog:  selector.New(draft.Country),
			CurrencyDialog: selector.New(draft.Currency),
		},
		Payment:   Payment{Status: PaymentIdle},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// StartConversation replaces the conversation and shows the chat.
func (s *Session) StartConversation(state *wizard.State) {
	s.Conversation++
	s.Wizard = state
	s.Stage = StageChat
}

// Touch marks a change made at now.
func (s *Session) Touch(now time.Time) {
	s.Version++
	s.UpdatedAt = now
}

// Encode serialises s for a store.
func Encode(s *Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", s.ID, err)
	}
	return data, nil
}

// Decode parses a session written by Encode.
func Decode(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}
