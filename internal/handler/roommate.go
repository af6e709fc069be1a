package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flatmates/marketplace/internal/domain"
	"github.com/flatmates/marketplace/internal/model"
)

// RoommateStore provides the public-profile scan the directory filters over.
type RoommateStore interface {
	ListPublic(ctx context.Context) ([]model.User, error)
}

type RoommateHandler struct {
	Store RoommateStore
}

func NewRoommateHandler(s RoommateStore) *RoommateHandler {
	return &RoommateHandler{Store: s}
}

// roommateResp is the directory card: public profile fields only, no email.
type roommateResp struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Bio               *string    `json:"bio"`
	Age               *int       `json:"age"`
	Occupation        *string    `json:"occupation"`
	BudgetMin         *int       `json:"budgetMin"`
	BudgetMax         *int       `json:"budgetMax"`
	Lifestyle         *string    `json:"lifestyle"`
	MoveInDate        *time.Time `json:"moveInDate"`
	PreferredLocation *string    `json:"preferredLocation"`
	Images            []string   `json:"images"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func roommateViews(us []model.User) []roommateResp {
	out := make([]roommateResp, 0, len(us))
	for _, u := range us {
		out = append(out, roommateResp{
			ID:                u.ID,
			Name:              u.Name,
			Bio:               u.Bio,
			Age:               u.Age,
			Occupation:        u.Occupation,
			BudgetMin:         u.BudgetMin,
			BudgetMax:         u.BudgetMax,
			Lifestyle:         u.Lifestyle,
			MoveInDate:        u.MoveInDate,
			PreferredLocation: u.PreferredLocation,
			Images:            u.Images,
			CreatedAt:         u.CreatedAt,
		})
	}
	return out
}

// List returns the public roommate directory.  An authenticated requester is
// excluded from their own results; anonymous requests see everyone.
func (h *RoommateHandler) List(c echo.Context) error {
	f := domain.RoommateFilter{Location: c.QueryParam("location")}
	if v := c.QueryParam("minBudget"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalidFields(c, []string{"minBudget"})
		}
		f.MinBudget = &n
	}
	if v := c.QueryParam("maxBudget"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalidFields(c, []string{"maxBudget"})
		}
		f.MaxBudget = &n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Store.ListPublic(ctx)
	if err != nil {
		return fail(c, err, "load roommates failed")
	}

	selfID, _ := getUserID(c) // empty when anonymous
	matched := domain.FilterRoommates(users, f, selfID)
	return c.JSON(http.StatusOK, echo.Map{"roommates": roommateViews(matched)})
}
