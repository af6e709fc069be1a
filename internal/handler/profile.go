package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flatmates/marketplace/internal/domain"
	"github.com/flatmates/marketplace/internal/model"
	"github.com/flatmates/marketplace/internal/repository"
)

// ProfileStore is the slice of the user repository the handler needs.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (model.User, error)
	UpdateProfile(ctx context.Context, id string, in repository.ProfileUpdate) error
	SetHideGender(ctx context.Context, id string, hide bool) error
}

type ProfileHandler struct {
	Store ProfileStore
	Cache *CacheBuster
}

func NewProfileHandler(s ProfileStore, cache *CacheBuster) *ProfileHandler {
	return &ProfileHandler{Store: s, Cache: cache}
}

// updateProfileReq mirrors domain.ProfileInput: every field is optional and
// absent fields leave the stored value alone.
type updateProfileReq struct {
	Name              *string `json:"name"`
	Bio               *string `json:"bio"`
	Age               *int    `json:"age"`
	Occupation        *string `json:"occupation"`
	BudgetMin         *int    `json:"budgetMin"`
	BudgetMax         *int    `json:"budgetMax"`
	Lifestyle         *string `json:"lifestyle"`
	MoveInDate        *string `json:"moveInDate"` // YYYY-MM-DD
	PreferredLocation *string `json:"preferredLocation"`
	Images            *string `json:"images"` // comma-separated URLs
	IsPublic          *bool   `json:"isPublic"`
	HideGender        *bool   `json:"hideGender"`
}

type profileResp struct {
	ID                string         `json:"id"`
	Email             string         `json:"email"`
	Name              string         `json:"name"`
	Role              string         `json:"role"`
	Bio               *string        `json:"bio"`
	Age               *int           `json:"age"`
	Occupation        *string        `json:"occupation"`
	BudgetMin         *int           `json:"budgetMin"`
	BudgetMax         *int           `json:"budgetMax"`
	Lifestyle         *string        `json:"lifestyle"`
	MoveInDate        *time.Time     `json:"moveInDate"`
	PreferredLocation *string        `json:"preferredLocation"`
	Images            []string       `json:"images"`
	IsPublic          bool           `json:"isPublic"`
	Settings          model.Settings `json:"settings"`
	CreatedAt         time.Time      `json:"createdAt"`
}

func profileView(u model.User) profileResp {
	return profileResp{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Role:              u.Role,
		Bio:               u.Bio,
		Age:               u.Age,
		Occupation:        u.Occupation,
		BudgetMin:         u.BudgetMin,
		BudgetMax:         u.BudgetMax,
		Lifestyle:         u.Lifestyle,
		MoveInDate:        u.MoveInDate,
		PreferredLocation: u.PreferredLocation,
		Images:            u.Images,
		IsPublic:          u.IsPublic,
		Settings:          u.Settings,
		CreatedAt:         u.CreatedAt,
	}
}

// Get returns the caller's full profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Store.GetByID(ctx, uid)
	if err != nil {
		return fail(c, err, "load profile failed")
	}
	return c.JSON(http.StatusOK, profileView(u))
}

// Update applies a partial profile edit.  Absent fields keep their stored
// values; the hideGender flag is written separately through the atomic
// settings update.
func (h *ProfileHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	bad := domain.ValidateProfile(domain.ProfileInput{
		Name:              req.Name,
		Bio:               req.Bio,
		Age:               req.Age,
		Occupation:        req.Occupation,
		BudgetMin:         req.BudgetMin,
		BudgetMax:         req.BudgetMax,
		Lifestyle:         req.Lifestyle,
		MoveInDate:        req.MoveInDate,
		PreferredLocation: req.PreferredLocation,
		ImageURLs:         req.Images,
		IsPublic:          req.IsPublic,
		HideGender:        req.HideGender,
	})
	var moveIn *time.Time
	if req.MoveInDate != nil && *req.MoveInDate != "" {
		t, ok := parseAvailableFrom(*req.MoveInDate)
		if !ok {
			bad = append(bad, "moveInDate")
		}
		moveIn = t
	}
	if len(bad) > 0 {
		return invalidFields(c, bad)
	}

	upd := repository.ProfileUpdate{
		Name:              req.Name,
		Bio:               req.Bio,
		Age:               req.Age,
		Occupation:        req.Occupation,
		BudgetMin:         req.BudgetMin,
		BudgetMax:         req.BudgetMax,
		Lifestyle:         req.Lifestyle,
		MoveInDate:        moveIn,
		PreferredLocation: req.PreferredLocation,
		IsPublic:          req.IsPublic,
	}
	if req.Images != nil {
		enc := domain.EncodeImages(domain.SplitURLList(*req.Images))
		upd.ImagesJSON = &enc
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Store.UpdateProfile(ctx, uid, upd); err != nil {
		return fail(c, err, "update profile failed")
	}
	if req.HideGender != nil {
		if err := h.Store.SetHideGender(ctx, uid, *req.HideGender); err != nil {
			return fail(c, err, "update settings failed")
		}
	}

	h.Cache.Bust(ctx)

	u, err := h.Store.GetByID(ctx, uid)
	if err != nil {
		return fail(c, err, "load profile failed")
	}
	return c.JSON(http.StatusOK, profileView(u))
}
