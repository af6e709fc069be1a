package domain

import (
	"strings"

	"github.com/flatmates/marketplace/internal/model"
)

// RoommateFilter narrows the public roommate directory.  Budget bounds are
// optional; when both are given the test is a range overlap against the
// candidate's declared budget, not containment.
type RoommateFilter struct {
	Location  string
	MinBudget *int
	MaxBudget *int
}

// MatchesRoommate reports whether a public profile satisfies the filter.
// Location matches either the preferred location or the lifestyle tags,
// case-insensitively.  A candidate without a declared budget bound passes
// the corresponding budget check.
func MatchesRoommate(u model.User, f RoommateFilter) bool {
	if loc := strings.TrimSpace(f.Location); loc != "" {
		needle := strings.ToLower(loc)
		hit := false
		if u.PreferredLocation != nil && strings.Contains(strings.ToLower(*u.PreferredLocation), needle) {
			hit = true
		}
		if !hit && u.Lifestyle != nil && strings.Contains(strings.ToLower(*u.Lifestyle), needle) {
			hit = true
		}
		if !hit {
			return false
		}
	}
	// Overlap test: candidate's max must reach the requested min, and the
	// candidate's min must not exceed the requested max.
	if f.MinBudget != nil && u.BudgetMax != nil && *u.BudgetMax < *f.MinBudget {
		return false
	}
	if f.MaxBudget != nil && u.BudgetMin != nil && *u.BudgetMin > *f.MaxBudget {
		return false
	}
	return true
}

// FilterRoommates applies the directory rules to a public-profile scan:
// the requester is excluded and each remaining profile is matched against
// the filter.  Input order (creation time descending) is preserved.
func FilterRoommates(users []model.User, f RoommateFilter, selfID string) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if selfID != "" && u.ID == selfID {
			continue
		}
		if MatchesRoommate(u, f) {
			out = append(out, u)
		}
	}
	return out
}
