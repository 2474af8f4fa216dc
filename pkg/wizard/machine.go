// Package wizard implements the scripted WhatsApp-style conversation that
// collects sender and recipient details and confirms a transfer.
//
// The Machine is pure: it mutates a serialisable State and returns the
// Effects the caller must schedule (delayed bot replies, receipt sends).
package wizard

import (
	"strings"
	"time"

	"github.com/mochapay/mocha/pkg/money"
)

// Transfer is the amount a conversation was started for. It is fixed for
// the lifetime of the conversation.
type Transfer struct {
	Amount       string     `json:"amount"`
	Currency     money.Code `json:"currency"`
	Fee          string     `json:"fee"`
	Converted    string     `json:"converted"`
	Destination  money.Code `json:"destination"`
	SenderNumber string     `json:"sender_number,omitempty"`
}

// AmountDisplay renders the source amount with its symbol ("$100.00").
func (t Transfer) AmountDisplay() string {
	m, err := money.Parse(t.Amount, t.Currency)
	if err != nil {
		return money.Zero(t.Currency).Display()
	}
	return m.Display()
}

// Collected holds the details gathered through the chat.
type Collected struct {
	SenderNumber   string `json:"sender_number,omitempty"`
	SenderName     string `json:"sender_name,omitempty"`
	ReceiverName   string `json:"receiver_name,omitempty"`
	ReceiverNumber string `json:"receiver_number,omitempty"`
}

// ReceiptStatus of the WhatsApp receipt for a confirmed transfer.
type ReceiptStatus string

const (
	ReceiptIdle    ReceiptStatus = "idle"
	ReceiptSending ReceiptStatus = "sending"
	ReceiptSuccess ReceiptStatus = "success"
	ReceiptError   ReceiptStatus = "error"
)

// ReceiptAttempt tracks the receipt send of the latest confirmed transfer.
// Attempt increases with every confirmation.
type ReceiptAttempt struct {
	Attempt int           `json:"attempt"`
	Status  ReceiptStatus `json:"status"`
	Error   string        `json:"error,omitempty"`
}

// State is the full conversation state.
type State struct {
	Variant    Variant        `json:"variant"`
	Step       Step           `json:"step"`
	Transfer   Transfer       `json:"transfer"`
	Collected  Collected      `json:"collected"`
	Transcript Transcript     `json:"transcript"`
	Receipt    ReceiptAttempt `json:"receipt"`
}

// EffectKind classifies an Effect.
type EffectKind string

const (
	// EffectReply appends a bot message after the typing delay.
	EffectReply EffectKind = "reply"
	// EffectFollowUp appends a bot message after the typing delay plus the
	// follow-up pause, so it lands after the replies of the same turn.
	EffectFollowUp EffectKind = "follow_up"
	// EffectSendReceipt starts the receipt send for Attempt.
	EffectSendReceipt EffectKind = "send_receipt"
)

// Reply is a bot message waiting to be appended.
type Reply struct {
	Text   string  `json:"text"`
	Fields []Field `json:"fields,omitempty"`
}

// Effect is work the caller schedules after a transition.
type Effect struct {
	Kind    EffectKind `json:"kind"`
	Reply   Reply      `json:"reply,omitempty"`
	Attempt int        `json:"attempt,omitempty"`
}

// Machine drives conversations of one Profile.
type Machine struct {
	profile Profile
	brand   string
}

// NewMachine returns a Machine for profile. brand names the service in the
// closing message.
func NewMachine(profile Profile, brand string) *Machine {
	return &Machine{profile: profile, brand: brand}
}

// Profile returns the machine's profile.
func (m *Machine) Profile() Profile { return m.profile }

// Start opens a conversation for t. The welcome message is appended
// immediately.
func (m *Machine) Start(t Transfer, now time.Time) *State {
	s := &State{
		Variant:  m.profile.Variant,
		Step:     StepWelcome,
		Transfer: t,
		Receipt:  ReceiptAttempt{Status: ReceiptIdle},
	}
	s.Transcript.Append(AuthorBot, welcomeText(t), nil, now)
	return s
}

// Handle records the user's input and advances the conversation.
// Whitespace-only input is ignored. Invalid input never fails; the
// current step re-prompts instead.
func (m *Machine) Handle(s *State, input string, now time.Time) []Effect {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil
	}
	s.Transcript.Append(AuthorUser, text, nil, now)

	switch s.Step {
	case StepWelcome:
		s.Step = m.profile.FirstCollectStep()
		return reply(getStartedText(s.Step))

	case StepSenderNumber:
		if !IsValidPhoneNumber(text) {
			return reply(invalidNumberText)
		}
		s.Collected.SenderNumber = NormalizePhoneNumber(text)
		return m.advance(s)

	case StepSenderName:
		s.Collected.SenderName = text
		return m.advance(s)

	case StepReceiverName:
		s.Collected.ReceiverName = text
		return m.advance(s)

	case StepReceiverNumber:
		if !IsValidPhoneNumber(text) {
			return reply(invalidNumberText)
		}
		s.Collected.ReceiverNumber = NormalizePhoneNumber(text)
		return m.advance(s)

	case StepConfirmation:
		switch strings.ToLower(text) {
		case "confirm", "yes":
			return m.confirm(s)
		case "cancel", "no":
			s.Collected = Collected{}
			s.Step = StepWelcome
			return reply(cancelledText)
		default:
			return reply(confirmPromptText)
		}

	case StepComplete:
		switch strings.ToLower(text) {
		case "yes":
			s.Collected = Collected{}
			if s.Receipt.Status == ReceiptSending {
				// A late result for the previous transfer is dropped.
				s.Receipt.Status = ReceiptIdle
			}
			s.Step = m.profile.FirstCollectStep()
			return reply(restartText(s.Step))
		case "no":
			return reply(goodbyeText(m.brand))
		default:
			return reply(anotherTransferPromptText)
		}
	}
	return nil
}

// ResolveReceipt records the outcome of the receipt send for attempt.
// Results for a superseded attempt, or arriving after a restart, are ignored.
func (m *Machine) ResolveReceipt(s *State, attempt int, sendErr error) []Effect {
	if s.Receipt.Attempt != attempt || s.Receipt.Status != ReceiptSending {
		return nil
	}
	var first Reply
	if sendErr != nil {
		s.Receipt.Status = ReceiptError
		s.Receipt.Error = sendErr.Error()
		first = Reply{Text: receiptFailedText(sendErr)}
	} else {
		s.Receipt.Status = ReceiptSuccess
		s.Receipt.Error = ""
		first = Reply{
			Text: receiptSentText(s.Collected),
			Fields: []Field{
				{Label: "Recipient", Value: s.Collected.ReceiverName, Emphasize: true},
				{Label: "WhatsApp", Value: s.Collected.ReceiverNumber},
			},
		}
	}
	return []Effect{
		{Kind: EffectReply, Reply: first},
		{Kind: EffectFollowUp, Reply: Reply{Text: anotherTransferText}},
	}
}

// Summary returns the labelled transfer details shown at confirmation.
func (m *Machine) Summary(s *State) []Field {
	from := senderLabel(s)
	return []Field{
		{Label: "From", Value: from},
		{Label: "To", Value: s.Collected.ReceiverName + " (" + s.Collected.ReceiverNumber + ")", Emphasize: true},
		{Label: "Amount", Value: s.Transfer.AmountDisplay(), Emphasize: true},
		{Label: "Recipient gets", Value: s.Transfer.Converted + " " + string(s.Transfer.Destination)},
		{Label: "Fee", Value: s.Transfer.Fee + " " + string(s.Transfer.Currency)},
	}
}

func (m *Machine) advance(s *State) []Effect {
	s.Step = m.profile.next(s.Step)
	if s.Step == StepConfirmation {
		fields := m.Summary(s)
		return []Effect{{Kind: EffectReply, Reply: Reply{Text: confirmationText(fields), Fields: fields}}}
	}
	return reply(askText(s.Step))
}

func (m *Machine) confirm(s *State) []Effect {
	s.Step = StepComplete
	effects := []Effect{{
		Kind: EffectReply,
		Reply: Reply{
			Text: initiatedText(s),
			Fields: []Field{
				{Label: "Amount", Value: s.Transfer.AmountDisplay(), Emphasize: true},
				{Label: "Recipient", Value: s.Collected.ReceiverName, Emphasize: true},
			},
		},
	}}
	if !m.profile.ReceiptSend {
		return append(effects, Effect{Kind: EffectFollowUp, Reply: Reply{Text: anotherTransferText}})
	}
	s.Receipt = ReceiptAttempt{Attempt: s.Receipt.Attempt + 1, Status: ReceiptSending}
	return append(effects, Effect{Kind: EffectSendReceipt, Attempt: s.Receipt.Attempt})
}

func senderLabel(s *State) string {
	number := s.Collected.SenderNumber
	if number == "" {
		number = s.Transfer.SenderNumber
	}
	if s.Collected.SenderName == "" {
		return number
	}
	return s.Collected.SenderName + " (" + number + ")"
}

func reply(text string) []Effect {
	return []Effect{{Kind: EffectReply, Reply: Reply{Text: text}}}
}
