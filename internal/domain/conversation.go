package domain

import (
	"time"

	"github.com/flatmates/marketplace/internal/model"
)

// Conversation is the derived summary of the latest exchange with one
// counterparty.  No conversation row exists in the database; the view is
// recomputed from the raw message scan on every read.
type Conversation struct {
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	LastMessage string    `json:"last_message"`
	Timestamp   time.Time `json:"timestamp"`
}

// BuildConversations groups messages by counterparty and keeps the most
// recent message per counterparty.  The input must be sorted by creation
// time descending; the first message seen for a counterparty wins.  Result
// order follows the scan, i.e. most recently active conversation first.
func BuildConversations(selfID string, msgs []model.Message) []Conversation {
	seen := make(map[string]bool, len(msgs))
	out := make([]Conversation, 0, len(msgs))
	for _, m := range msgs {
		otherID := m.SenderID
		otherName := m.SenderName
		if m.SenderID == selfID {
			otherID = m.ReceiverID
			otherName = m.ReceiverName
		}
		if seen[otherID] {
			continue
		}
		seen[otherID] = true
		out = append(out, Conversation{
			UserID:      otherID,
			UserName:    otherName,
			LastMessage: m.Content,
			Timestamp:   m.CreatedAt,
		})
	}
	return out
}
