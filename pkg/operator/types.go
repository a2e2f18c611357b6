// Package operator implements the live-operation path: unread polling,
// round-robin conversation scheduling, session authentication, message
// delivery, and the orchestration loop that ties them to an external
// responder.
package operator

import "time"

// Role identifies which side of the conversation sent a message. The
// wire values match what the external responder expects.
type Role string

const (
	// RoleSelf marks messages sent from the operated account.
	RoleSelf Role = "user"
	// RolePeer marks messages received from the counterparty.
	RolePeer Role = "bot"
)

// Message is one immutable message in a conversation snapshot.
type Message struct {
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
	Sender    string `json:"sender,omitempty"`
}

// Conversation is an immutable snapshot of one conversation taken at
// read time. Each read produces a fresh snapshot; snapshots are never
// mutated in place.
type Conversation struct {
	ID           string
	Platform     string
	Messages     []Message
	HasUnread    bool
	LastActivity time.Time
}

// HistoryText renders the message history as plain text, one line per
// message, for responders that take unstructured context.
func (c *Conversation) HistoryText() string {
	if len(c.Messages) == 0 {
		return ""
	}
	out := make([]byte, 0, 64*len(c.Messages))
	for i, msg := range c.Messages {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, string(msg.Role)...)
		out = append(out, ": "...)
		out = append(out, msg.Text...)
	}
	return string(out)
}
