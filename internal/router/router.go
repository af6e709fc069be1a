// Package router registers the HTTP routes of the marketplace API.  Routes
// are grouped by concern: public browse endpoints, authenticated endpoints
// under /v1 and admin moderation under /v1/admin.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/flatmates/marketplace/internal/config"
	"github.com/flatmates/marketplace/internal/handler"
	"github.com/flatmates/marketplace/internal/middleware"
	"github.com/flatmates/marketplace/internal/model"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Auth     *handler.AuthHandler
	Listing  *handler.ListingHandler
	Roommate *handler.RoommateHandler
	Message  *handler.MessageHandler
	Payment  *handler.PaymentHandler
	Profile  *handler.ProfileHandler
	Admin    *handler.AdminHandler
	Sitemap  *handler.SitemapHandler
	Health   *handler.HealthHandler
}

// Register wires all routes onto the Echo instance.  Public reads go through
// the Redis response cache; every route shares the token-bucket rate
// limiter.  rdb may be nil, in which case both degrade to pass-through.
func Register(e *echo.Echo, h Handlers, cfg config.Config, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.Use(middleware.NewTokenBucket(rlCfg, rdb))

	e.GET("/healthz", h.Health.Check)
	e.GET("/sitemap.xml", h.Sitemap.Get)

	// Session endpoints.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/refresh-access", h.Auth.RefreshAccess)
	auth.POST("/logout", h.Auth.Logout)

	cache := middleware.NewRedisCache(cacheCfg, rdb)

	// Public browse endpoints.  The roommate directory takes an optional
	// token so an authenticated requester is excluded from their own
	// results; because identity changes the response it is not cached.
	e.GET("/v1/listings", h.Listing.Search, cache)
	e.GET("/v1/listings/:id", h.Listing.Get, cache)
	e.GET("/v1/roommates", h.Roommate.List, middleware.OptionalJWT(cfg.JWTSecret))

	// Authenticated endpoints.
	v1 := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	v1.GET("/me", h.Auth.Me)

	v1.POST("/listings", h.Listing.Create)
	v1.PATCH("/listings/:id", h.Listing.Update)
	v1.DELETE("/listings/:id", h.Listing.Delete)
	v1.GET("/my/listings", h.Listing.ListMine)

	v1.GET("/profile", h.Profile.Get)
	v1.PATCH("/profile", h.Profile.Update)

	v1.POST("/messages", h.Message.Send)
	v1.GET("/conversations", h.Message.Conversations)
	v1.GET("/messages/:userId", h.Message.Thread)

	v1.POST("/payments/order", h.Payment.CreateOrder)
	v1.POST("/payments/verify", h.Payment.Verify)
	v1.POST("/payments/upgrade", h.Payment.Upgrade)
	v1.GET("/payments", h.Payment.History)

	// Moderation endpoints.  The role gate runs at the group level; the
	// handlers re-check the capability so a misrouted request still gets an
	// explicit 403.
	admin := e.Group("/v1/admin", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole(model.RoleAdmin))
	admin.GET("/listings", h.Admin.ListAll)
	admin.PATCH("/listings/:id/status", h.Admin.UpdateStatus)
	admin.DELETE("/listings/:id", h.Admin.Delete)
}
