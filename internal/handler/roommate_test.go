package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatmates/marketplace/internal/model"
)

type mockRoommateStore struct{ public []model.User }

func (m *mockRoommateStore) ListPublic(_ context.Context) ([]model.User, error) {
	return m.public, nil
}

func roommate(id, name string, prefLoc string, min, max int) model.User {
	return model.User{
		ID: id, Name: name,
		PreferredLocation: &prefLoc,
		BudgetMin:         &min,
		BudgetMax:         &max,
	}
}

func TestRoommateList(t *testing.T) {
	store := &mockRoommateStore{public: []model.User{
		roommate("u1", "Ann", "Koramangala", 10000, 20000),
		roommate("u2", "Bea", "Indiranagar", 15000, 25000),
		roommate("u3", "Cal", "Koramangala", 30000, 40000),
	}}
	h := NewRoommateHandler(store)

	decode := func(body []byte) []string {
		var resp struct {
			Roommates []struct {
				ID string `json:"id"`
			} `json:"roommates"`
		}
		require.NoError(t, json.Unmarshal(body, &resp))
		ids := make([]string, 0, len(resp.Roommates))
		for _, r := range resp.Roommates {
			ids = append(ids, r.ID)
		}
		return ids
	}

	t.Run("anonymous sees everyone", func(t *testing.T) {
		c, rec := authedContext(t, http.MethodGet, "/v1/roommates", "", "", "")
		require.NoError(t, h.List(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.ElementsMatch(t, []string{"u1", "u2", "u3"}, decode(rec.Body.Bytes()))
	})

	t.Run("requester is excluded from results", func(t *testing.T) {
		c, rec := authedContext(t, http.MethodGet, "/v1/roommates", "", "u2", model.RoleSeeker)
		require.NoError(t, h.List(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.ElementsMatch(t, []string{"u1", "u3"}, decode(rec.Body.Bytes()))
	})

	t.Run("location and budget filters apply", func(t *testing.T) {
		c, rec := authedContext(t, http.MethodGet,
			"/v1/roommates?location=koramangala&minBudget=15000&maxBudget=25000", "", "", "")
		require.NoError(t, h.List(c))
		require.Equal(t, http.StatusOK, rec.Code)
		// u1 overlaps [15000,25000]; u3's budget starts above the max; u2 is
		// in another location.
		assert.ElementsMatch(t, []string{"u1"}, decode(rec.Body.Bytes()))
	})

	t.Run("bad budget parameter is rejected", func(t *testing.T) {
		c, rec := authedContext(t, http.MethodGet, "/v1/roommates?minBudget=cheap", "", "", "")
		require.NoError(t, h.List(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("email is not exposed on directory cards", func(t *testing.T) {
		withEmail := roommate("u9", "Dee", "HSR", 1, 2)
		withEmail.Email = "dee@example.com"
		h := NewRoommateHandler(&mockRoommateStore{public: []model.User{withEmail}})

		c, rec := authedContext(t, http.MethodGet, "/v1/roommates", "", "", "")
		require.NoError(t, h.List(c))
		assert.NotContains(t, rec.Body.String(), "dee@example.com")
	})
}
