package model

import "time"

// Message mirrors the `messages` table.  Messages are immutable once
// created; there is no update or delete path.
type Message struct {
	ID         string    // messages.id
	SenderID   string    // messages.sender_id
	ReceiverID string    // messages.receiver_id
	Content    string    // messages.content
	CreatedAt  time.Time // messages.created_at

	// Participant names joined from users for display.
	SenderName   string
	ReceiverName string
}
