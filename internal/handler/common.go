// Package handler implements the HTTP action layer.  Every mutating
// handler follows the same sequence: bind the request, resolve the acting
// identity from context, run the domain rules, perform one repository
// operation and finally invalidate cached reads.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/flatmates/marketplace/internal/config"
	"github.com/flatmates/marketplace/internal/domain"
	"github.com/flatmates/marketplace/internal/middleware"
	"github.com/flatmates/marketplace/internal/queue"
	"github.com/flatmates/marketplace/internal/repository"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c echo.Context) (string, error) {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("invalid user_id in context")
}

// getRole returns the role claim, empty when unauthenticated.
func getRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// CacheBuster drops cached public responses after a successful mutation.
// A nil CacheBuster is a no-op so handlers can be constructed without Redis.
type CacheBuster struct {
	Cfg config.CacheConfig
	RDB *redis.Client
}

func (b *CacheBuster) Bust(ctx context.Context) {
	if b == nil {
		return
	}
	middleware.Invalidate(ctx, b.Cfg, b.RDB)
}

// Events is the activity publisher handlers notify after a successful
// mutation.  Publishing is best effort and must never block the response.
type Events interface {
	ListingCreated(ev queue.ListingCreatedEvent)
	PaymentCompleted(ev queue.PaymentCompletedEvent)
}

// fail maps a repository error to the response envelope.  Business
// sentinels get their own statuses; anything else is logged and reported as
// a generic failure so internal detail never leaks to the caller.
func fail(c echo.Context, err error, generic string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrQuotaExceeded):
		return c.JSON(http.StatusConflict, echo.Map{"error": domain.QuotaMessage})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	default:
		log.Printf("handler: %s: %v", generic, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": generic})
	}
}

// invalidFields reports a validation failure with the failing field names.
func invalidFields(c echo.Context, fields []string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid fields", "fields": fields})
}
