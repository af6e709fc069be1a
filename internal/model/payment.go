package model

import "time"

// Payment status values.  A row is created PENDING when an order is
// requested and moves to COMPLETED only after the gateway signature has been
// verified.  There is no failure state: abandoned orders simply stay PENDING.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
)

// Payment mirrors the `payments` table.
//
// Fields:
//
//	ID            – primary key (UUID string).
//	UserID        – paying user.
//	Amount        – amount in the currency's minor unit (paise for INR).
//	Currency      – ISO currency code.
//	Status        – PENDING or COMPLETED.
//	Provider      – gateway name, currently always "razorpay".
//	TransactionID – the gateway order id, set once the order is created.
type Payment struct {
	ID            string    // payments.id
	UserID        string    // payments.user_id
	Amount        int64     // payments.amount
	Currency      string    // payments.currency
	Status        string    // payments.status
	Provider      string    // payments.provider
	TransactionID string    // payments.transaction_id
	CreatedAt     time.Time // payments.created_at
	UpdatedAt     time.Time // payments.updated_at
}
