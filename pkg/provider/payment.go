package provider

import (
	"context"
	"errors"
	"time"
)

// PaymentMethod is how the sender funds a transfer.
type PaymentMethod string

// PaymentMethodCard is the only method the payment step offers.
const PaymentMethodCard PaymentMethod = "card"

// PaymentRequest is the body of a payment process call.
type PaymentRequest struct {
	SessionID       string        `json:"session_id"`
	Method          PaymentMethod `json:"method"`
	Amount          string        `json:"amount"`
	Currency        string        `json:"currency"`
	SenderPhone     string        `json:"sender_phone"`
	RecipientName   string        `json:"recipient_name,omitempty"`
	RecipientNumber string        `json:"recipient_number,omitempty"`
}

// PaymentResult is the answer to a payment process call.
type PaymentResult struct {
	Success       bool          `json:"success"`
	TransactionID string        `json:"transaction_id,omitempty"`
	Method        PaymentMethod `json:"method"`
	ProcessedAt   time.Time     `json:"processed_at"`
	Error         string        `json:"error,omitempty"`
}

// Payment processes the funding of a transfer.
type Payment interface {
	ProcessPayment(ctx context.Context, req *PaymentRequest) (*PaymentResult, error)
}

// ErrPaymentDeclined is returned when the processor refuses a payment.
var ErrPaymentDeclined = errors.New("payment declined")
