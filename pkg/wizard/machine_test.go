package wizard_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mochapay/mocha/pkg/money"
	"github.com/mochapay/mocha/pkg/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2024, 5, 1, 9, 41, 0, 0, time.UTC)

func hundredDollars() wizard.Transfer {
	return wizard.Transfer{
		Amount:       "100.00",
		Currency:     money.USD,
		Fee:          "1.00",
		Converted:    "2350.00",
		Destination:  money.SLL,
		SenderNumber: "+15551234567",
	}
}

type CollectSenderTestSuite struct {
	suite.Suite
	machine *wizard.Machine
	state   *wizard.State
}

func (s *CollectSenderTestSuite) SetupTest() {
	profile, err := wizard.ProfileFor(wizard.VariantCollectSender)
	s.Require().NoError(err)
	s.machine = wizard.NewMachine(profile, "Mocha")
	s.state = s.machine.Start(hundredDollars(), now)
}

// say sends input and returns the text of the single reply it produced.
func (s *CollectSenderTestSuite) say(input string) string {
	effects := s.machine.Handle(s.state, input, now)
	s.Require().NotEmpty(effects)
	s.Require().Equal(wizard.EffectReply, effects[0].Kind)
	return effects[0].Reply.Text
}

func (s *CollectSenderTestSuite) walkToConfirmation() {
	s.say("Yes, let's continue")
	s.say("+15551234567")
	s.say("Jane Doe")
	s.say("Aminata Sesay")
	s.say("+23276123456")
	s.Require().Equal(wizard.StepConfirmation, s.state.Step)
}

func (s *CollectSenderTestSuite) TestWelcome() {
	s.Equal(wizard.StepWelcome, s.state.Step)
	s.Require().Len(s.state.Transcript.Messages, 1)
	welcome := s.state.Transcript.Messages[0]
	s.Equal(wizard.AuthorBot, welcome.Author)
	s.Equal(
		"👋 Hi there! I'll help you complete your transfer of $100.00. "+
			"First, I need a few details. Would you like to continue?",
		welcome.Text,
	)
	s.Equal("09:41", welcome.TimeOfDay())
}

func (s *CollectSenderTestSuite) TestHappyPath() {
	s.Equal("Great! To get started, please enter your WhatsApp number.", s.say("Yes, let's continue"))
	s.Equal(wizard.StepSenderNumber, s.state.Step)

	s.Equal("Thanks! Now, please enter your full name.", s.say("+1 (555) 123-4567"))
	s.Equal("+15551234567", s.state.Collected.SenderNumber)

	s.Equal("Great! Now, please enter the recipient's full name.", s.say("  Jane Doe "))
	s.Equal("Jane Doe", s.state.Collected.SenderName)

	s.Equal("Finally, please enter the recipient's WhatsApp number.", s.say("Aminata Sesay"))

	effects := s.machine.Handle(s.state, "+23276123456", now)
	s.Require().Len(effects, 1)
	s.Equal(wizard.StepConfirmation, s.state.Step)
	summary := effects[0].Reply
	s.True(strings.HasPrefix(summary.Text, "Please confirm your transfer details:"))
	s.Contains(summary.Text, "From: Jane Doe (+15551234567)")
	s.Contains(summary.Text, "To: Aminata Sesay (+23276123456)")
	s.Contains(summary.Text, "Amount: $100.00")
	s.True(strings.HasSuffix(summary.Text, "Would you like to proceed with this transfer?"))
	s.Contains(summary.Fields, wizard.Field{Label: "Amount", Value: "$100.00", Emphasize: true})
	s.Contains(summary.Fields, wizard.Field{Label: "Recipient gets", Value: "2350.00 SLL"})

	effects = s.machine.Handle(s.state, "Confirm", now)
	s.Equal(wizard.StepComplete, s.state.Step)
	s.Require().Len(effects, 2)
	s.Equal(
		"Great! Your money transfer of $100.00 to Aminata Sesay has been initiated. "+
			"You'll receive a confirmation on your WhatsApp number shortly.",
		effects[0].Reply.Text,
	)
	s.Equal(wizard.EffectFollowUp, effects[1].Kind)
	s.Equal("Would you like to make another transfer?", effects[1].Reply.Text)
	s.Equal(wizard.ReceiptIdle, s.state.Receipt.Status, "no receipt in this variant")
}

func (s *CollectSenderTestSuite) TestInvalidNumberRePrompts() {
	s.say("yes")
	for _, bad := range []string{"abc", "123", "++1234567890"} {
		s.Equal(
			"That doesn't look like a valid phone number. Please enter a valid WhatsApp number.",
			s.say(bad),
		)
		s.Equal(wizard.StepSenderNumber, s.state.Step)
		s.Empty(s.state.Collected.SenderNumber)
	}
}

func (s *CollectSenderTestSuite) TestWhitespaceInputIgnored() {
	before := len(s.state.Transcript.Messages)
	s.Nil(s.machine.Handle(s.state, "   \t", now))
	s.Len(s.state.Transcript.Messages, before)
	s.Equal(wizard.StepWelcome, s.state.Step)
}

func (s *CollectSenderTestSuite) TestAnyWelcomeAnswerContinues() {
	s.say("I need to change something")
	s.Equal(wizard.StepSenderNumber, s.state.Step)
}

func (s *CollectSenderTestSuite) TestCancelClearsCollected() {
	s.walkToConfirmation()
	s.Equal("Transfer cancelled. Would you like to start over?", s.say("NO"))
	s.Equal(wizard.StepWelcome, s.state.Step)
	s.Equal(wizard.Collected{}, s.state.Collected)
}

func (s *CollectSenderTestSuite) TestUnknownConfirmationInput() {
	s.walkToConfirmation()
	s.Equal("Please confirm if you want to proceed with this transfer.", s.say("maybe"))
	s.Equal(wizard.StepConfirmation, s.state.Step)
}

func (s *CollectSenderTestSuite) TestComplete() {
	s.walkToConfirmation()
	s.machine.Handle(s.state, "yes", now)
	s.Require().Equal(wizard.StepComplete, s.state.Step)

	s.Equal("Would you like to make another transfer? Please reply with Yes or No.", s.say("hmm"))
	s.Equal("Thank you for using Mocha! If you need anything else, just let me know.", s.say("No"))
	s.Equal(wizard.StepComplete, s.state.Step, "declining leaves the conversation idle")

	s.Equal("Great! Let's start a new transfer. Please enter your WhatsApp number.", s.say("Yes"))
	s.Equal(wizard.StepSenderNumber, s.state.Step)
	s.Equal(wizard.Collected{}, s.state.Collected)
	s.Equal("100.00", s.state.Transfer.Amount, "amount survives a restart")
}

func (s *CollectSenderTestSuite) TestTranscriptIDsAreUnique() {
	s.walkToConfirmation()
	seen := map[string]bool{}
	for _, m := range s.state.Transcript.Messages {
		s.False(seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
	// Bot replies are appended by the caller, so only user messages are here.
	s.Len(s.state.Transcript.Messages, 6)
}

func TestCollectSenderTestSuite(t *testing.T) {
	suite.Run(t, new(CollectSenderTestSuite))
}

func TestKnownSender(t *testing.T) {
	profile, err := wizard.ProfileFor(wizard.VariantKnownSender)
	require.NoError(t, err)
	require.True(t, profile.PaymentStep)
	require.False(t, profile.Has(wizard.StepSenderNumber))

	m := wizard.NewMachine(profile, "Mocha")
	s := m.Start(hundredDollars(), now)

	effects := m.Handle(s, "yes", now)
	assert.Equal(t, wizard.StepReceiverName, s.Step)
	assert.Equal(t, "Great! To get started, please enter the recipient's full name.", effects[0].Reply.Text)

	m.Handle(s, "Aminata Sesay", now)
	effects = m.Handle(s, "+23276123456", now)
	require.Equal(t, wizard.StepConfirmation, s.Step)
	assert.Contains(t, effects[0].Reply.Text, "From: +15551234567\n")

	effects = m.Handle(s, "confirm", now)
	require.Len(t, effects, 2)
	assert.Equal(t, wizard.EffectSendReceipt, effects[1].Kind)
	assert.Equal(t, 1, effects[1].Attempt)
	assert.Equal(t, wizard.ReceiptSending, s.Receipt.Status)

	t.Run("success", func(t *testing.T) {
		state := *s
		out := m.ResolveReceipt(&state, 1, nil)
		require.Len(t, out, 2)
		assert.Equal(t, wizard.ReceiptSuccess, state.Receipt.Status)
		assert.Equal(t, "✅ Receipt sent to Aminata Sesay on WhatsApp (+23276123456).", out[0].Reply.Text)
		assert.Equal(t, wizard.EffectFollowUp, out[1].Kind)

		assert.Nil(t, m.ResolveReceipt(&state, 1, nil), "a receipt resolves once")
	})

	t.Run("error", func(t *testing.T) {
		state := *s
		out := m.ResolveReceipt(&state, 1, errors.New("number not on WhatsApp"))
		require.Len(t, out, 2)
		assert.Equal(t, wizard.ReceiptError, state.Receipt.Status)
		assert.Equal(t, "number not on WhatsApp", state.Receipt.Error)
		assert.Contains(t, out[0].Reply.Text, "number not on WhatsApp")
	})

	t.Run("stale attempt", func(t *testing.T) {
		state := *s
		assert.Nil(t, m.ResolveReceipt(&state, 7, nil))
		assert.Equal(t, wizard.ReceiptSending, state.Receipt.Status)
	})

	t.Run("restart drops a pending receipt", func(t *testing.T) {
		state := *s
		effects := m.Handle(&state, "yes", now)
		assert.Equal(t, "Great! Let's start a new transfer. Please enter the recipient's full name.", effects[0].Reply.Text)
		assert.Equal(t, wizard.ReceiptIdle, state.Receipt.Status)
		assert.Nil(t, m.ResolveReceipt(&state, 1, nil))
	})
}

func TestProfileFor_Unknown(t *testing.T) {
	_, err := wizard.ProfileFor("carrier-pigeon")
	require.ErrorIs(t, err, wizard.ErrUnknownVariant)
}

func TestWelcome_EmptyAmount(t *testing.T) {
	profile, err := wizard.ProfileFor(wizard.VariantCollectSender)
	require.NoError(t, err)
	s := wizard.NewMachine(profile, "Mocha").Start(wizard.Transfer{Currency: money.USD}, now)
	assert.Contains(t, s.Transcript.Messages[0].Text, "transfer of $0.00.")
}

func TestQuickRepliesAndPlaceholders(t *testing.T) {
	assert.Equal(t, "Yes, let's continue", wizard.QuickReplies(wizard.StepWelcome)[0].Text)
	assert.Equal(t, "confirm", wizard.QuickReplies(wizard.StepConfirmation)[0].Text)
	assert.Equal(t, "No", wizard.QuickReplies(wizard.StepComplete)[1].Text)
	assert.Nil(t, wizard.QuickReplies(wizard.StepSenderName))

	assert.Equal(t, "Enter your WhatsApp number...", wizard.Placeholder(wizard.StepSenderNumber))
	assert.Equal(t, "Enter name...", wizard.Placeholder(wizard.StepReceiverName))
	assert.Equal(t, "Type a message...", wizard.Placeholder(wizard.StepConfirmation))
}

func TestTranscript_Since(t *testing.T) {
	var tr wizard.Transcript
	tr.Append(wizard.AuthorBot, "a", nil, now)
	second := tr.Append(wizard.AuthorUser, "b", nil, now)
	tr.Append(wizard.AuthorBot, "c", nil, now)

	assert.Equal(t, "m2", second.ID)
	assert.Len(t, tr.Since(""), 3)
	rest := tr.Since("m2")
	require.Len(t, rest, 1)
	assert.Equal(t, "c", rest[0].Text)
	last, ok := tr.Last()
	assert.True(t, ok)
	assert.Equal(t, "m3", last.ID)
}
