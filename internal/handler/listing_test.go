package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatmates/marketplace/internal/domain"
	"github.com/flatmates/marketplace/internal/model"
	"github.com/flatmates/marketplace/internal/queue"
	"github.com/flatmates/marketplace/internal/repository"
)

type mockListingStore struct {
	created       *model.Listing
	lastMaxActive int
	createErr     error

	byID   map[string]model.Listing
	getErr error

	updated   map[string]repository.ListingUpdate
	deleted   []string
	searched  []repository.SearchQuery
	searchOut []model.Listing
}

func newMockListingStore() *mockListingStore {
	return &mockListingStore{
		byID:    map[string]model.Listing{},
		updated: map[string]repository.ListingUpdate{},
	}
}

func (m *mockListingStore) CreateWithQuota(_ context.Context, l *model.Listing, maxActive int) error {
	m.lastMaxActive = maxActive
	if m.createErr != nil {
		return m.createErr
	}
	l.ID = "new-listing"
	m.created = l
	return nil
}

func (m *mockListingStore) GetByID(_ context.Context, id string) (model.Listing, error) {
	if m.getErr != nil {
		return model.Listing{}, m.getErr
	}
	l, ok := m.byID[id]
	if !ok {
		return model.Listing{}, repository.ErrNotFound
	}
	return l, nil
}

func (m *mockListingStore) Update(_ context.Context, id string, in repository.ListingUpdate) error {
	m.updated[id] = in
	return nil
}

func (m *mockListingStore) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockListingStore) Search(_ context.Context, q repository.SearchQuery) ([]model.Listing, error) {
	m.searched = append(m.searched, q)
	return m.searchOut, nil
}

func (m *mockListingStore) ListByOwner(_ context.Context, ownerID string) ([]model.Listing, error) {
	out := []model.Listing{}
	for _, l := range m.byID {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

type mockEvents struct {
	listings []queue.ListingCreatedEvent
	payments []queue.PaymentCompletedEvent
}

func (m *mockEvents) ListingCreated(ev queue.ListingCreatedEvent) {
	m.listings = append(m.listings, ev)
}

func (m *mockEvents) PaymentCompleted(ev queue.PaymentCompletedEvent) {
	m.payments = append(m.payments, ev)
}

func authedContext(t *testing.T, method, target, body, userID, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
		c.Set("role", role)
	}
	return c, rec
}

const validListingBody = `{
    "title": "Sunny room in Indiranagar",
    "description": "Large furnished room with attached bath and balcony access.",
    "rent": 18000,
    "deposit": 50000,
    "location": "Indiranagar, Bangalore",
    "amenities": "wifi, washing machine",
    "images": "https://img.example/a.jpg, https://img.example/b.jpg"
}`

func TestListingCreate(t *testing.T) {
	t.Run("basic account uses quota and is not featured", func(t *testing.T) {
		store := newMockListingStore()
		ev := &mockEvents{}
		h := NewListingHandler(store, nil, ev)

		c, rec := authedContext(t, http.MethodPost, "/v1/listings", validListingBody, "u1", model.RoleSeeker)
		require.NoError(t, h.Create(c))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, domain.MaxActiveBasicListings, store.lastMaxActive)
		require.NotNil(t, store.created)
		assert.False(t, store.created.IsFeatured)
		assert.Equal(t, model.ListingActive, store.created.Status)
		assert.Equal(t, []string{"https://img.example/a.jpg", "https://img.example/b.jpg"}, store.created.Images)
		require.Len(t, ev.listings, 1)
		assert.Equal(t, "new-listing", ev.listings[0].ListingID)
	})

	t.Run("premium account skips quota and is featured", func(t *testing.T) {
		store := newMockListingStore()
		h := NewListingHandler(store, nil, nil)

		c, rec := authedContext(t, http.MethodPost, "/v1/listings", validListingBody, "u1", model.RoleListerPremium)
		require.NoError(t, h.Create(c))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 0, store.lastMaxActive, "premium must pass unlimited to the repository")
		assert.True(t, store.created.IsFeatured)
	})

	t.Run("quota exceeded returns 409 with upgrade message", func(t *testing.T) {
		store := newMockListingStore()
		store.createErr = repository.ErrQuotaExceeded
		h := NewListingHandler(store, nil, nil)

		c, rec := authedContext(t, http.MethodPost, "/v1/listings", validListingBody, "u1", model.RoleSeeker)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), domain.QuotaMessage)
	})

	t.Run("validation failure enumerates fields", func(t *testing.T) {
		store := newMockListingStore()
		h := NewListingHandler(store, nil, nil)

		body := `{"title":"ab","description":"too short","rent":-1,"location":"x"}`
		c, rec := authedContext(t, http.MethodPost, "/v1/listings", body, "u1", model.RoleSeeker)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		for _, f := range []string{"title", "description", "rent", "location"} {
			assert.Contains(t, rec.Body.String(), f)
		}
		assert.Nil(t, store.created)
	})

	t.Run("unauthenticated returns 401", func(t *testing.T) {
		h := NewListingHandler(newMockListingStore(), nil, nil)
		c, rec := authedContext(t, http.MethodPost, "/v1/listings", validListingBody, "", "")
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListingUpdateOwnership(t *testing.T) {
	store := newMockListingStore()
	store.byID["l1"] = model.Listing{ID: "l1", OwnerID: "owner"}
	h := NewListingHandler(store, nil, nil)

	t.Run("non-owner is forbidden", func(t *testing.T) {
		c, rec := authedContext(t, http.MethodPatch, "/v1/listings/l1", validListingBody, "intruder", model.RoleSeeker)
		c.SetParamNames("id")
		c.SetParamValues("l1")
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, store.updated)
	})

	t.Run("owner may update", func(t *testing.T) {
		c, rec := authedContext(t, http.MethodPatch, "/v1/listings/l1", validListingBody, "owner", model.RoleSeeker)
		c.SetParamNames("id")
		c.SetParamValues("l1")
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, store.updated, "l1")
	})

	t.Run("missing listing returns 404", func(t *testing.T) {
		c, rec := authedContext(t, http.MethodPatch, "/v1/listings/nope", validListingBody, "owner", model.RoleSeeker)
		c.SetParamNames("id")
		c.SetParamValues("nope")
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListingUpdateKeepsImagesWhenAbsent(t *testing.T) {
	store := newMockListingStore()
	store.byID["l1"] = model.Listing{ID: "l1", OwnerID: "owner", Images: []string{"old.jpg"}}
	h := NewListingHandler(store, nil, nil)

	body := `{
        "title": "Sunny room in Indiranagar",
        "description": "Large furnished room with attached bath and balcony.",
        "rent": 18000,
        "location": "Indiranagar"
    }`
	c, rec := authedContext(t, http.MethodPatch, "/v1/listings/l1", body, "owner", model.RoleSeeker)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	require.NoError(t, h.Update(c))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, store.updated["l1"].Images, "absent images must not overwrite stored images")
}

func TestListingDelete(t *testing.T) {
	store := newMockListingStore()
	store.byID["l1"] = model.Listing{ID: "l1", OwnerID: "owner"}
	h := NewListingHandler(store, nil, nil)

	c, rec := authedContext(t, http.MethodDelete, "/v1/listings/l1", "", "owner", model.RoleSeeker)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	require.NoError(t, h.Delete(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"l1"}, store.deleted)
}

func TestListingSearchFilters(t *testing.T) {
	store := newMockListingStore()
	h := NewListingHandler(store, nil, nil)

	c, rec := authedContext(t, http.MethodGet, "/v1/listings?location=koramangala&minRent=10000&maxRent=30000", "", "", "")
	require.NoError(t, h.Search(c))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.searched, 1)
	q := store.searched[0]
	assert.Equal(t, "koramangala", q.Location)
	require.NotNil(t, q.MinRent)
	require.NotNil(t, q.MaxRent)
	assert.Equal(t, 10000, *q.MinRent)
	assert.Equal(t, 30000, *q.MaxRent)

	c2, rec2 := authedContext(t, http.MethodGet, "/v1/listings?minRent=abc", "", "", "")
	require.NoError(t, h.Search(c2))
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}
