package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validListing() ListingInput {
	return ListingInput{
		Title:       "Sunny room in Indiranagar",
		Description: "Large furnished room with balcony, close to the metro.",
		Rent:        15000,
		Deposit:     30000,
		Location:    "Bengaluru",
	}
}

func TestValidateListing(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		assert.Empty(t, ValidateListing(validListing()))
	})

	tests := []struct {
		name   string
		mutate func(*ListingInput)
		fields []string
	}{
		{"short title", func(in *ListingInput) { in.Title = "Room" }, []string{"title"}},
		{"whitespace title", func(in *ListingInput) { in.Title = "        " }, []string{"title"}},
		{"short description", func(in *ListingInput) { in.Description = "nice room" }, []string{"description"}},
		{"negative rent", func(in *ListingInput) { in.Rent = -1 }, []string{"rent"}},
		{"negative deposit", func(in *ListingInput) { in.Deposit = -500 }, []string{"deposit"}},
		{"short location", func(in *ListingInput) { in.Location = "NY" }, []string{"location"}},
		{"multiple failures", func(in *ListingInput) {
			in.Title = "x"
			in.Location = ""
		}, []string{"title", "location"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validListing()
			tt.mutate(&in)
			assert.Equal(t, tt.fields, ValidateListing(in))
		})
	}
}

func TestValidateProfile(t *testing.T) {
	name := "Asha"
	empty := "   "
	under := 17
	adult := 25
	min := 20000
	max := 10000

	assert.Empty(t, ValidateProfile(ProfileInput{}))
	assert.Empty(t, ValidateProfile(ProfileInput{Name: &name, Age: &adult}))
	assert.Equal(t, []string{"name"}, ValidateProfile(ProfileInput{Name: &empty}))
	assert.Equal(t, []string{"age"}, ValidateProfile(ProfileInput{Age: &under}))
	assert.Equal(t, []string{"budgetMax"}, ValidateProfile(ProfileInput{BudgetMin: &min, BudgetMax: &max}))
}

func TestValidateMessage(t *testing.T) {
	assert.Empty(t, ValidateMessage("b", "hello"))
	assert.Equal(t, []string{"content"}, ValidateMessage("b", "  "))
	assert.Equal(t, []string{"content", "receiverId"}, ValidateMessage("", ""))
}

func TestIsSelfMessage(t *testing.T) {
	assert.True(t, IsSelfMessage("u1", "u1"))
	assert.False(t, IsSelfMessage("u1", "u2"))
	assert.False(t, IsSelfMessage("", ""))
}
