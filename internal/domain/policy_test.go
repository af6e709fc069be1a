package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flatmates/marketplace/internal/model"
)

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		role      string
		moderate  bool
		unlimited bool
	}{
		{model.RoleSeeker, false, false},
		{model.RoleListerPremium, false, true},
		{model.RoleAdmin, true, true},
		{"", false, false},
		{"OWNER", false, false}, // unknown role gets nothing
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			caps := PolicyFor(tt.role)
			assert.Equal(t, tt.moderate, caps.CanModerate)
			assert.Equal(t, tt.unlimited, caps.CanListUnlimited)
		})
	}
}

func TestCanMutateListing(t *testing.T) {
	l := model.Listing{ID: "l1", OwnerID: "u1"}
	assert.True(t, CanMutateListing("u1", l))
	assert.False(t, CanMutateListing("u2", l))
	assert.False(t, CanMutateListing("", model.Listing{ID: "l2"}))
}
