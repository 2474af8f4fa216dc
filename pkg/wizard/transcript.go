package wizard

import (
	"fmt"
	"time"
)

// Author of a transcript message.
type Author string

const (
	AuthorBot  Author = "bot"
	AuthorUser Author = "user"
)

// Field is a labelled value inside a bot message. Emphasized values are
// rendered bold by clients.
type Field struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	Emphasize bool   `json:"emphasize,omitempty"`
}

// Message is one transcript entry.
type Message struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	Author Author    `json:"author"`
	SentAt time.Time `json:"sent_at"`
	Fields []Field   `json:"fields,omitempty"`
}

// TimeOfDay renders the hour and minute the message was sent at ("09:41").
func (m Message) TimeOfDay() string {
	return m.SentAt.Format("15:04")
}

// Transcript is the append-only message log of a conversation.
type Transcript struct {
	Messages []Message `json:"messages"`
	Seq      uint64    `json:"seq"`
}

// Append adds a message and returns it. IDs are unique within the transcript.
func (t *Transcript) Append(author Author, text string, fields []Field, at time.Time) Message {
	t.Seq++
	msg := Message{
		ID:     fmt.Sprintf("m%d", t.Seq),
		Text:   text,
		Author: author,
		SentAt: at,
		Fields: fields,
	}
	t.Messages = append(t.Messages, msg)
	return msg
}

// Since returns the messages after the one with the given id. An unknown
// or empty id returns the whole transcript.
func (t *Transcript) Since(id string) []Message {
	for i, m := range t.Messages {
		if m.ID == id {
			return t.Messages[i+1:]
		}
	}
	return t.Messages
}

// Last returns the most recent message.
func (t *Transcript) Last() (Message, bool) {
	if len(t.Messages) == 0 {
		return Message{}, false
	}
	return t.Messages[len(t.Messages)-1], true
}
