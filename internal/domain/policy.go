// Package domain holds the marketplace business rules: authorization
// policies, input validation, the image-list codec, conversation derivation
// and roommate matching.  Everything here is a pure function over model
// types so the rules can be exercised without a database.
package domain

import "github.com/flatmates/marketplace/internal/model"

// MaxActiveBasicListings is the active-listing quota for non-premium owners.
const MaxActiveBasicListings = 1

// QuotaMessage is returned verbatim when a basic account hits the quota.
const QuotaMessage = "Basic accounts are limited to 1 active listing. Upgrade to Premium for unlimited listings!"

// Capabilities is the per-request policy object resolved once from the
// session role.  Handlers consult these flags instead of comparing role
// strings at every call site.
type Capabilities struct {
	CanModerate      bool // change listing status, delete any listing, view all listings
	CanListUnlimited bool // bypass the active-listing quota; listings auto-featured
}

// PolicyFor maps a role to its capabilities.  Unknown roles get no
// capabilities, same as SEEKER.
func PolicyFor(role string) Capabilities {
	switch role {
	case model.RoleAdmin:
		return Capabilities{CanModerate: true, CanListUnlimited: true}
	case model.RoleListerPremium:
		return Capabilities{CanListUnlimited: true}
	default:
		return Capabilities{}
	}
}

// CanMutateListing reports whether the caller may update or delete the given
// listing.  Ownership is the only grant; moderation goes through the admin
// endpoints instead.
func CanMutateListing(callerID string, l model.Listing) bool {
	return callerID != "" && callerID == l.OwnerID
}
