package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flatmates/marketplace/internal/domain"
	"github.com/flatmates/marketplace/internal/model"
)

// AdminListingStore is the moderation slice of the listing repository.
type AdminListingStore interface {
	ListAllForAdmin(ctx context.Context) ([]model.Listing, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type AdminHandler struct {
	Store AdminListingStore
	Cache *CacheBuster
}

func NewAdminHandler(s AdminListingStore, cache *CacheBuster) *AdminHandler {
	return &AdminHandler{Store: s, Cache: cache}
}

// canModerate double-checks the capability behind the route-level role gate.
// A non-admin reaching an admin route gets an explicit 403 from the caller,
// never an empty result and never the operation itself.
func canModerate(c echo.Context) bool {
	return domain.PolicyFor(getRole(c)).CanModerate
}

// ListAll returns every listing in every status with owner name and email.
func (h *AdminHandler) ListAll(c echo.Context) error {
	if !canModerate(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ls, err := h.Store.ListAllForAdmin(ctx)
	if err != nil {
		return fail(c, err, "load listings failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": listingViews(ls)})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func validListingStatus(s string) bool {
	switch s {
	case model.ListingActive, model.ListingPaused, model.ListingRejected:
		return true
	}
	return false
}

// UpdateStatus moves a listing to ACTIVE, PAUSED or REJECTED.
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	if !canModerate(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil || !validListingStatus(req.Status) {
		return invalidFields(c, []string{"status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Store.UpdateStatus(ctx, c.Param("id"), req.Status); err != nil {
		return fail(c, err, "update status failed")
	}

	h.Cache.Bust(ctx)
	return c.JSON(http.StatusOK, echo.Map{"status": req.Status})
}

// Delete removes any listing regardless of owner.
func (h *AdminHandler) Delete(c echo.Context) error {
	if !canModerate(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Store.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err, "delete listing failed")
	}

	h.Cache.Bust(ctx)
	return c.NoContent(http.StatusNoContent)
}
