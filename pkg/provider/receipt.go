package provider

import (
	"context"
	"time"
)

// ReceiptRequest is the body of a WhatsApp receipt send.
type ReceiptRequest struct {
	SessionID     string `json:"session_id"`
	To            string `json:"to"`
	RecipientName string `json:"recipient_name"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Converted     string `json:"converted"`
	Destination   string `json:"destination"`
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message"`
}

// ReceiptResult is the answer to a receipt send.
type ReceiptResult struct {
	Success   bool      `json:"success"`
	MessageID string    `json:"message_id,omitempty"`
	SentAt    time.Time `json:"sent_at"`
	Error     string    `json:"error,omitempty"`
}

// Receipt delivers transfer receipts over WhatsApp.
type Receipt interface {
	SendReceipt(ctx context.Context, req *ReceiptRequest) (*ReceiptResult, error)
}
