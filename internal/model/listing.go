package model

import "time"

// Listing status values stored in listings.status.  Only ACTIVE listings are
// visible in public search; admins may move a listing to any status.
const (
	ListingActive   = "ACTIVE"
	ListingPaused   = "PAUSED"
	ListingRejected = "REJECTED"
)

// Listing mirrors the `listings` table.  Amenities are kept as the raw
// comma-separated string the owner typed; images are normalized into an
// ordered URL list and persisted as a JSON array string.
type Listing struct {
	ID            string     // listings.id
	OwnerID       string     // listings.user_id
	Title         string     // listings.title
	Description   string     // listings.description
	Rent          int        // listings.rent
	Deposit       int        // listings.deposit
	Location      string     // listings.location
	Amenities     string     // listings.amenities
	AvailableFrom *time.Time // listings.available_from (nullable)
	Images        []string   // listings.images (JSON array)
	Status        string     // listings.status
	IsFeatured    bool       // listings.is_featured
	CreatedAt     time.Time  // listings.created_at
	UpdatedAt     time.Time  // listings.updated_at

	// Owner fields joined from users for detail/search/admin views.
	OwnerName  string
	OwnerEmail string
	OwnerImage string
	OwnerRole  string
}
