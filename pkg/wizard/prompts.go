package wizard

import "strings"

const (
	invalidNumberText         = "That doesn't look like a valid phone number. Please enter a valid WhatsApp number."
	cancelledText             = "Transfer cancelled. Would you like to start over?"
	confirmPromptText         = "Please confirm if you want to proceed with this transfer."
	anotherTransferText       = "Would you like to make another transfer?"
	anotherTransferPromptText = "Would you like to make another transfer? Please reply with Yes or No."
)

// QuickReply is a one-tap answer offered at a step. Label is shown on the
// button, Text is what gets sent.
type QuickReply struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

var quickReplies = map[Step][]QuickReply{
	StepWelcome: {
		{Label: "Yes, continue", Text: "Yes, let's continue"},
		{Label: "Change details", Text: "I need to change something"},
	},
	StepConfirmation: {
		{Label: "Confirm Transfer", Text: "confirm"},
		{Label: "Cancel", Text: "cancel"},
	},
	StepComplete: {
		{Label: "Start another transaction", Text: "Yes"},
		{Label: "No", Text: "No"},
	},
}

// QuickReplies returns the one-tap answers for step, or nil.
func QuickReplies(step Step) []QuickReply {
	return quickReplies[step]
}

// Placeholder returns the input hint for step.
func Placeholder(step Step) string {
	switch step {
	case StepSenderNumber:
		return "Enter your WhatsApp number..."
	case StepSenderName, StepReceiverName:
		return "Enter name..."
	case StepReceiverNumber:
		return "Enter recipient's WhatsApp number..."
	default:
		return "Type a message..."
	}
}

func welcomeText(t Transfer) string {
	return "👋 Hi there! I'll help you complete your transfer of " + t.AmountDisplay() +
		". First, I need a few details. Would you like to continue?"
}

func requestFor(step Step) string {
	switch step {
	case StepSenderNumber:
		return "please enter your WhatsApp number."
	case StepSenderName:
		return "please enter your full name."
	case StepReceiverName:
		return "please enter the recipient's full name."
	case StepReceiverNumber:
		return "please enter the recipient's WhatsApp number."
	}
	return ""
}

func getStartedText(first Step) string {
	return "Great! To get started, " + requestFor(first)
}

func restartText(first Step) string {
	r := requestFor(first)
	return "Great! Let's start a new transfer. " + strings.ToUpper(r[:1]) + r[1:]
}

func askText(step Step) string {
	switch step {
	case StepSenderName:
		return "Thanks! Now, " + requestFor(step)
	case StepReceiverName:
		return "Great! Now, " + requestFor(step)
	case StepReceiverNumber:
		return "Finally, " + requestFor(step)
	}
	return requestFor(step)
}

func confirmationText(fields []Field) string {
	var b strings.Builder
	b.WriteString("Please confirm your transfer details:\n\n")
	for _, f := range fields {
		b.WriteString(f.Label + ": " + f.Value + "\n")
	}
	b.WriteString("\nWould you like to proceed with this transfer?")
	return b.String()
}

func initiatedText(s *State) string {
	return "Great! Your money transfer of " + s.Transfer.AmountDisplay() + " to " + s.Collected.ReceiverName +
		" has been initiated. You'll receive a confirmation on your WhatsApp number shortly."
}

func receiptSentText(c Collected) string {
	return "✅ Receipt sent to " + c.ReceiverName + " on WhatsApp (" + c.ReceiverNumber + ")."
}

func receiptFailedText(err error) string {
	return "⚠️ We couldn't send the WhatsApp receipt: " + err.Error()
}

func goodbyeText(brand string) string {
	return "Thank you for using " + brand + "! If you need anything else, just let me know."
}
