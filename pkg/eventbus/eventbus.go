// Package eventbus defines the change notifications a transfer session emits.
package eventbus

import (
	"context"
	"time"
)

// Type names a kind of session event.
type Type string

const (
	// SessionUpdated carries the full session after a form or stage change.
	SessionUpdated Type = "session.updated"
	// MessageAppended carries one new transcript message.
	MessageAppended Type = "message.appended"
	// PaymentUpdated carries the payment step state.
	PaymentUpdated Type = "payment.updated"
	// ReceiptUpdated carries the receipt send state.
	ReceiptUpdated Type = "receipt.updated"
	// SessionDeleted is the last event of a session.
	SessionDeleted Type = "session.deleted"
)

// Event is one change to a session.
type Event struct {
	Type      Type      `json:"type"`
	SessionID string    `json:"session_id"`
	Version   uint64    `json:"version"`
	At        time.Time `json:"at"`
	Data      any       `json:"data,omitempty"`
}

// Publisher delivers events to whoever watches a session. Publish never blocks.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Subscription receives the events of one session until it is torn down.
type Subscription interface {
	// C delivers events. It is closed on teardown.
	C() <-chan Event
}

// Bus is a Publisher whose events can be watched per session.
type Bus interface {
	Publisher
	// Subscribe opens a subscription to sessionID. The returned func tears
	// it down and may be called more than once.
	Subscribe(sessionID string) (Subscription, func())
}
