package wizard

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownVariant is returned for a variant name no Profile exists for.
var ErrUnknownVariant = errors.New("unknown wizard variant")

// Step is a state of the conversation.
type Step string

// Conversation steps in the order the collect-sender variant walks them.
const (
	StepWelcome        Step = "welcome"
	StepSenderNumber   Step = "senderNumber"
	StepSenderName     Step = "senderName"
	StepReceiverName   Step = "receiverName"
	StepReceiverNumber Step = "receiverNumber"
	StepConfirmation   Step = "confirmation"
	StepComplete       Step = "complete"
)

// Variant selects which steps the wizard walks.
type Variant string

const (
	// VariantCollectSender asks the sender for their own number and name
	// in the chat and skips the payment step.
	VariantCollectSender Variant = "collect-sender"
	// VariantKnownSender takes the sender from the transfer form, requires
	// the payment step and sends a WhatsApp receipt on confirmation.
	VariantKnownSender Variant = "known-sender"
)

// Profile is the fixed configuration of one wizard variant.
type Profile struct {
	Variant     Variant `json:"variant"`
	Steps       []Step  `json:"steps"`
	PaymentStep bool    `json:"payment_step"`
	ReceiptSend bool    `json:"receipt_send"`
}

// ProfileFor returns the Profile of a variant.
func ProfileFor(v Variant) (Profile, error) {
	switch v {
	case VariantCollectSender:
		return Profile{
			Variant: v,
			Steps: []Step{
				StepWelcome, StepSenderNumber, StepSenderName,
				StepReceiverName, StepReceiverNumber,
				StepConfirmation, StepComplete,
			},
		}, nil
	case VariantKnownSender:
		return Profile{
			Variant: v,
			Steps: []Step{
				StepWelcome, StepReceiverName, StepReceiverNumber,
				StepConfirmation, StepComplete,
			},
			PaymentStep: true,
			ReceiptSend: true,
		}, nil
	default:
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
}

// FirstCollectStep is the step welcome and restarts lead to.
func (p Profile) FirstCollectStep() Step {
	return p.Steps[1]
}

// Has reports whether the profile walks step s.
func (p Profile) Has(s Step) bool {
	return slices.Contains(p.Steps, s)
}

func (p Profile) next(s Step) Step {
	i := slices.Index(p.Steps, s)
	if i < 0 || i == len(p.Steps)-1 {
		return StepComplete
	}
	return p.Steps[i+1]
}
