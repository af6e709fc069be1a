package model

import "time"

// Role values stored in users.role.  SEEKER is the default for new
// registrations; LISTER_PREMIUM is granted by a completed payment (or the
// mock upgrade flow); ADMIN is assigned out of band.
const (
	RoleSeeker        = "SEEKER"
	RoleListerPremium = "LISTER_PREMIUM"
	RoleAdmin         = "ADMIN"
)

// Settings is the typed per-user preference record stored in users.settings
// as a JSON document.  Historically this was an opaque blob merged in
// application code; it is now a fixed set of named optional flags so a single
// flag can be written atomically with JSON_SET.
type Settings struct {
	HideGender *bool `json:"hideGender,omitempty"`
}

// User mirrors the `users` table.  Profile fields are nullable in the schema
// and therefore pointers here: a nil pointer means "never set", which is what
// the partial-update semantics of profile edits rely on.
//
// Fields:
//
//	ID                – primary key (UUID string).
//	Email             – unique, stored lower case.
//	PasswordHash      – bcrypt hash; never serialized.
//	Name              – display name.
//	Role              – one of the Role* constants.
//	Bio, Age, Occupation, BudgetMin, BudgetMax, Lifestyle, MoveInDate,
//	PreferredLocation – roommate profile fields.
//	Images            – profile image URLs, stored as a JSON array string.
//	IsPublic          – whether the user appears in the roommate directory.
//	Settings          – typed preference record (users.settings JSON column).
type User struct {
	ID                string     // users.id
	Email             string     // users.email
	PasswordHash      string     // users.password_hash
	Name              string     // users.name
	Role              string     // users.role
	Bio               *string    // users.bio
	Age               *int       // users.age
	Occupation        *string    // users.occupation
	BudgetMin         *int       // users.budget_min
	BudgetMax         *int       // users.budget_max
	Lifestyle         *string    // users.lifestyle
	MoveInDate        *time.Time // users.move_in_date
	PreferredLocation *string    // users.preferred_location
	Images            []string   // users.images (JSON array)
	IsPublic          bool       // users.is_public
	Settings          Settings   // users.settings (JSON)
	CreatedAt         time.Time  // users.created_at
	UpdatedAt         time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
