package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flatmates/marketplace/internal/model"
)

func intp(n int) *int       { return &n }
func strp(s string) *string { return &s }

func TestMatchesRoommateBudgetOverlap(t *testing.T) {
	filter := RoommateFilter{MinBudget: intp(10000), MaxBudget: intp(20000)}

	overlapping := model.User{ID: "u1", BudgetMin: intp(15000), BudgetMax: intp(25000)}
	assert.True(t, MatchesRoommate(overlapping, filter))

	disjoint := model.User{ID: "u2", BudgetMin: intp(25000), BudgetMax: intp(30000)}
	assert.False(t, MatchesRoommate(disjoint, filter))

	// A candidate with no declared budget passes budget checks.
	undeclared := model.User{ID: "u3"}
	assert.True(t, MatchesRoommate(undeclared, filter))

	// Touching bounds count as overlap (inclusive).
	edge := model.User{ID: "u4", BudgetMin: intp(20000), BudgetMax: intp(40000)}
	assert.True(t, MatchesRoommate(edge, filter))
}

func TestMatchesRoommateLocation(t *testing.T) {
	u := model.User{
		ID:                "u1",
		PreferredLocation: strp("Koramangala, Bengaluru"),
		Lifestyle:         strp("non-smoker, vegetarian, early riser"),
	}
	assert.True(t, MatchesRoommate(u, RoommateFilter{Location: "bengaluru"}))
	// Lifestyle tags also count as a location match.
	assert.True(t, MatchesRoommate(u, RoommateFilter{Location: "VEGETARIAN"}))
	assert.False(t, MatchesRoommate(u, RoommateFilter{Location: "mumbai"}))

	// No fields to match against.
	assert.False(t, MatchesRoommate(model.User{ID: "u2"}, RoommateFilter{Location: "anywhere"}))
}

func TestFilterRoommates(t *testing.T) {
	users := []model.User{
		{ID: "self", PreferredLocation: strp("Pune")},
		{ID: "a", PreferredLocation: strp("Pune"), BudgetMin: intp(8000), BudgetMax: intp(12000)},
		{ID: "b", PreferredLocation: strp("Delhi")},
	}

	got := FilterRoommates(users, RoommateFilter{Location: "pune"}, "self")
	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	// Unauthenticated requester: nobody is excluded.
	got = FilterRoommates(users, RoommateFilter{}, "")
	assert.Len(t, got, 3)
}
