package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/flatmates/marketplace/internal/model"
)

type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

// Create inserts a PENDING payment row and returns its id.  The id doubles
// as the receipt reference passed to the gateway when the order is created.
func (r *PaymentRepo) Create(ctx context.Context, userID string, amount int64, currency, provider string) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO payments (id, user_id, amount, currency, status, provider) VALUES (?,?,?,?,?,?)",
		id, userID, amount, currency, model.PaymentPending, provider)
	return id, err
}

// SetTransactionID records the gateway order id on a pending payment.
func (r *PaymentRepo) SetTransactionID(ctx context.Context, id, txnID string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE payments SET transaction_id=? WHERE id=?", txnID, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteByTransactionID marks every payment carrying the gateway order id
// as COMPLETED.  Completing an already-completed payment is a no-op.
func (r *PaymentRepo) CompleteByTransactionID(ctx context.Context, txnID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE payments SET status=? WHERE transaction_id=?",
		model.PaymentCompleted, txnID)
	return err
}

// ListByUser returns the caller's payments, newest first (billing history).
func (r *PaymentRepo) ListByUser(ctx context.Context, userID string) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, amount, currency, status, provider,
			COALESCE(transaction_id, ''), created_at, updated_at
		 FROM payments WHERE user_id=? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Payment{}
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Currency, &p.Status,
			&p.Provider, &p.TransactionID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID fetches one payment.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (model.Payment, error) {
	var p model.Payment
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, amount, currency, status, provider,
			COALESCE(transaction_id, ''), created_at, updated_at
		 FROM payments WHERE id=? LIMIT 1`, id).
		Scan(&p.ID, &p.UserID, &p.Amount, &p.Currency, &p.Status,
			&p.Provider, &p.TransactionID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Payment{}, ErrNotFound
	}
	return p, err
}
