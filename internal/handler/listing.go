package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flatmates/marketplace/internal/domain"
	"github.com/flatmates/marketplace/internal/model"
	"github.com/flatmates/marketplace/internal/queue"
	"github.com/flatmates/marketplace/internal/repository"
)

// ListingStore is the slice of the listing repository the handler needs.
type ListingStore interface {
	CreateWithQuota(ctx context.Context, l *model.Listing, maxActive int) error
	GetByID(ctx context.Context, id string) (model.Listing, error)
	Update(ctx context.Context, id string, in repository.ListingUpdate) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q repository.SearchQuery) ([]model.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Listing, error)
}

type ListingHandler struct {
	Store  ListingStore
	Cache  *CacheBuster
	Events Events
}

func NewListingHandler(s ListingStore, cache *CacheBuster, ev Events) *ListingHandler {
	return &ListingHandler{Store: s, Cache: cache, Events: ev}
}

// ----- DTOs -----

type createListingReq struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Rent          int    `json:"rent"`
	Deposit       int    `json:"deposit"`
	Location      string `json:"location"`
	Amenities     string `json:"amenities"`
	AvailableFrom string `json:"availableFrom"` // YYYY-MM-DD, optional
	Images        string `json:"images"`        // comma-separated URLs
}

// updateListingReq differs from create in one way: a missing images field
// keeps the stored images, while an empty string clears them.
type updateListingReq struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Rent          int     `json:"rent"`
	Deposit       int     `json:"deposit"`
	Location      string  `json:"location"`
	Amenities     string  `json:"amenities"`
	AvailableFrom string  `json:"availableFrom"`
	Images        *string `json:"images"`
}

type listingOwnerPart struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
}

type listingResp struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Rent          int              `json:"rent"`
	Deposit       int              `json:"deposit"`
	Location      string           `json:"location"`
	Amenities     string           `json:"amenities"`
	AvailableFrom *time.Time       `json:"availableFrom,omitempty"`
	Images        []string         `json:"images"`
	Status        string           `json:"status"`
	IsFeatured    bool             `json:"isFeatured"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	Owner         listingOwnerPart `json:"owner"`
}

func listingView(l model.Listing) listingResp {
	return listingResp{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		Rent:          l.Rent,
		Deposit:       l.Deposit,
		Location:      l.Location,
		Amenities:     l.Amenities,
		AvailableFrom: l.AvailableFrom,
		Images:        l.Images,
		Status:        l.Status,
		IsFeatured:    l.IsFeatured,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
		Owner: listingOwnerPart{
			ID:    l.OwnerID,
			Name:  l.OwnerName,
			Image: l.OwnerImage,
			Role:  l.OwnerRole,
			Email: l.OwnerEmail,
		},
	}
}

func listingViews(ls []model.Listing) []listingResp {
	out := make([]listingResp, 0, len(ls))
	for _, l := range ls {
		out = append(out, listingView(l))
	}
	return out
}

// parseAvailableFrom accepts a bare date or a full RFC 3339 timestamp.
func parseAvailableFrom(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, true
	}
	return nil, false
}

// Create inserts a new ACTIVE listing.  Basic accounts are held to the
// active-listing quota inside the repository transaction; premium owners
// skip the quota and their listings are featured in search.
func (h *ListingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	bad := domain.ValidateListing(domain.ListingInput{
		Title:         req.Title,
		Description:   req.Description,
		Rent:          req.Rent,
		Deposit:       req.Deposit,
		Location:      req.Location,
		Amenities:     req.Amenities,
		AvailableFrom: req.AvailableFrom,
		ImageURLs:     req.Images,
	})
	avail, ok := parseAvailableFrom(req.AvailableFrom)
	if !ok {
		bad = append(bad, "availableFrom")
	}
	if len(bad) > 0 {
		return invalidFields(c, bad)
	}

	role := getRole(c)
	caps := domain.PolicyFor(role)
	maxActive := domain.MaxActiveBasicListings
	if caps.CanListUnlimited {
		maxActive = 0
	}

	l := model.Listing{
		OwnerID:       uid,
		Title:         req.Title,
		Description:   req.Description,
		Rent:          req.Rent,
		Deposit:       req.Deposit,
		Location:      req.Location,
		Amenities:     req.Amenities,
		AvailableFrom: avail,
		Images:        domain.SplitURLList(req.Images),
		Status:        model.ListingActive,
		IsFeatured:    role == model.RoleListerPremium,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Store.CreateWithQuota(ctx, &l, maxActive); err != nil {
		return fail(c, err, "create listing failed")
	}

	h.Cache.Bust(ctx)
	if h.Events != nil {
		h.Events.ListingCreated(queue.ListingCreatedEvent{
			ListingID:  l.ID,
			OwnerID:    l.OwnerID,
			Title:      l.Title,
			Location:   l.Location,
			Rent:       l.Rent,
			IsFeatured: l.IsFeatured,
			CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, listingView(l))
}

// Get returns one listing with owner contact details.
func (h *ListingHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	l, err := h.Store.GetByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err, "load listing failed")
	}
	return c.JSON(http.StatusOK, listingView(l))
}

// Search lists ACTIVE listings, featured first then newest.  All filters are
// optional query parameters.
func (h *ListingHandler) Search(c echo.Context) error {
	q := repository.SearchQuery{Location: c.QueryParam("location")}
	if v := c.QueryParam("minRent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalidFields(c, []string{"minRent"})
		}
		q.MinRent = &n
	}
	if v := c.QueryParam("maxRent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalidFields(c, []string{"maxRent"})
		}
		q.MaxRent = &n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ls, err := h.Store.Search(ctx, q)
	if err != nil {
		return fail(c, err, "search failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": listingViews(ls)})
}

// ListMine returns the caller's own listings in every status.
func (h *ListingHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ls, err := h.Store.ListByOwner(ctx, uid)
	if err != nil {
		return fail(c, err, "load listings failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": listingViews(ls)})
}

// Update rewrites the editable fields of the caller's own listing.
func (h *ListingHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in := domain.ListingInput{
		Title:         req.Title,
		Description:   req.Description,
		Rent:          req.Rent,
		Deposit:       req.Deposit,
		Location:      req.Location,
		Amenities:     req.Amenities,
		AvailableFrom: req.AvailableFrom,
	}
	bad := domain.ValidateListing(in)
	avail, ok := parseAvailableFrom(req.AvailableFrom)
	if !ok {
		bad = append(bad, "availableFrom")
	}
	if len(bad) > 0 {
		return invalidFields(c, bad)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id := c.Param("id")
	l, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "load listing failed")
	}
	if !domain.CanMutateListing(uid, l) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	upd := repository.ListingUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Rent:          req.Rent,
		Deposit:       req.Deposit,
		Location:      req.Location,
		Amenities:     req.Amenities,
		AvailableFrom: avail,
	}
	if req.Images != nil {
		upd.Images = domain.SplitURLList(*req.Images)
	}
	if err := h.Store.Update(ctx, id, upd); err != nil {
		return fail(c, err, "update listing failed")
	}

	h.Cache.Bust(ctx)

	fresh, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "load listing failed")
	}
	return c.JSON(http.StatusOK, listingView(fresh))
}

// Delete removes the caller's own listing.
func (h *ListingHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id := c.Param("id")
	l, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "load listing failed")
	}
	if !domain.CanMutateListing(uid, l) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Store.Delete(ctx, id); err != nil {
		return fail(c, err, "delete listing failed")
	}

	h.Cache.Bust(ctx)
	return c.NoContent(http.StatusNoContent)
}
