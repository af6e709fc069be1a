package domain

import "strings"

// ListingInput carries the owner-editable listing fields before validation.
// Amenities and image URLs arrive as comma-separated strings from the form.
type ListingInput struct {
	Title         string
	Description   string
	Rent          int
	Deposit       int
	Location      string
	Amenities     string
	AvailableFrom string // RFC 3339 date, optional
	ImageURLs     string // comma-separated, optional
}

// ValidateListing returns the list of failing fields, empty when the input
// is acceptable.  Thresholds match the public form contract: titles need at
// least 5 characters, descriptions 20, locations 3; money must not be
// negative.
func ValidateListing(in ListingInput) []string {
	var bad []string
	if len(strings.TrimSpace(in.Title)) < 5 {
		bad = append(bad, "title")
	}
	if len(strings.TrimSpace(in.Description)) < 20 {
		bad = append(bad, "description")
	}
	if in.Rent < 0 {
		bad = append(bad, "rent")
	}
	if in.Deposit < 0 {
		bad = append(bad, "deposit")
	}
	if len(strings.TrimSpace(in.Location)) < 3 {
		bad = append(bad, "location")
	}
	return bad
}

// ProfileInput carries a partial profile update.  Nil pointers mean the
// field was absent from the request and must leave the stored value alone.
type ProfileInput struct {
	Name              *string
	Bio               *string
	Age               *int
	Occupation        *string
	BudgetMin         *int
	BudgetMax         *int
	Lifestyle         *string
	MoveInDate        *string // RFC 3339 date
	PreferredLocation *string
	ImageURLs         *string // comma-separated
	IsPublic          *bool
	HideGender        *bool
}

// ValidateProfile returns failing field names for a partial update.  Only
// fields that are present are checked.
func ValidateProfile(in ProfileInput) []string {
	var bad []string
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		bad = append(bad, "name")
	}
	if in.Age != nil && *in.Age < 18 {
		bad = append(bad, "age")
	}
	if in.BudgetMin != nil && *in.BudgetMin < 0 {
		bad = append(bad, "budgetMin")
	}
	if in.BudgetMax != nil && *in.BudgetMax < 0 {
		bad = append(bad, "budgetMax")
	}
	if in.BudgetMin != nil && in.BudgetMax != nil && *in.BudgetMin > *in.BudgetMax {
		bad = append(bad, "budgetMax")
	}
	return bad
}

// ValidateMessage checks the shape of a message send request.  The self-send
// rule is separate (IsSelfMessage) because it maps to its own error.
func ValidateMessage(receiverID, content string) []string {
	var bad []string
	if strings.TrimSpace(content) == "" {
		bad = append(bad, "content")
	}
	if strings.TrimSpace(receiverID) == "" {
		bad = append(bad, "receiverId")
	}
	return bad
}

// IsSelfMessage reports whether the sender is trying to message themselves.
func IsSelfMessage(senderID, receiverID string) bool {
	return senderID != "" && senderID == receiverID
}
