package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/flatmates/marketplace/internal/model"
)

type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create inserts a message.  Messages are immutable; there is no update or
// delete path anywhere in the repository.
func (r *MessageRepo) Create(ctx context.Context, senderID, receiverID, content string) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (id, sender_id, receiver_id, content) VALUES (?,?,?,?)",
		id, senderID, receiverID, content)
	return id, err
}

// ListForUser returns every message the user sent or received, newest first,
// with both participant names attached.  The conversation summary is derived
// from this scan by the domain layer.
func (r *MessageRepo) ListForUser(ctx context.Context, userID string) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.id, m.sender_id, m.receiver_id, m.content, m.created_at,
			s.name, rc.name
		 FROM messages m
		 JOIN users s  ON s.id  = m.sender_id
		 JOIN users rc ON rc.id = m.receiver_id
		 WHERE m.sender_id=? OR m.receiver_id=?
		 ORDER BY m.created_at DESC, m.seq DESC`,
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// ListBetween returns the full history between two users, oldest first.
func (r *MessageRepo) ListBetween(ctx context.Context, userID, otherID string) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.id, m.sender_id, m.receiver_id, m.content, m.created_at,
			s.name, rc.name
		 FROM messages m
		 JOIN users s  ON s.id  = m.sender_id
		 JOIN users rc ON rc.id = m.receiver_id
		 WHERE (m.sender_id=? AND m.receiver_id=?)
		    OR (m.sender_id=? AND m.receiver_id=?)
		 ORDER BY m.created_at ASC, m.seq ASC`,
		userID, otherID, otherID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func collectMessages(rows *sql.Rows) ([]model.Message, error) {
	out := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content,
			&m.CreatedAt, &m.SenderName, &m.ReceiverName); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
