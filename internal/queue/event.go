// Package queue defines the activity events exchanged over the message
// broker and the background consumer that records them.
package queue

// ActivityQueueName is the durable queue all marketplace activity flows
// through.  Events carry a Type discriminator so one consumer handles both.
const ActivityQueueName = "marketplace.activity"

// Event types.
const (
	TypeListingCreated   = "listing.created"
	TypePaymentCompleted = "payment.completed"
)

// ListingCreatedEvent is published after a listing insert succeeds.  It
// carries enough for downstream consumers to log or notify without querying
// the primary database.
type ListingCreatedEvent struct {
	ListingID  string `json:"listing_id"`
	OwnerID    string `json:"owner_id"`
	Title      string `json:"title"`
	Location   string `json:"location"`
	Rent       int    `json:"rent"`
	IsFeatured bool   `json:"is_featured"`
	CreatedAt  string `json:"created_at"`
}

// PaymentCompletedEvent is published after a payment signature verifies and
// the owner has been promoted to premium.
type PaymentCompletedEvent struct {
	OrderID     string `json:"order_id"`
	UserID      string `json:"user_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	CompletedAt string `json:"completed_at"`
}

// Envelope wraps an event with its type for the shared activity queue.
type Envelope struct {
	Type    string                 `json:"type"`
	Listing *ListingCreatedEvent   `json:"listing,omitempty"`
	Payment *PaymentCompletedEvent `json:"payment,omitempty"`
}
