package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/flatmates/marketplace/internal/config"
	"github.com/flatmates/marketplace/internal/database"
	"github.com/flatmates/marketplace/internal/gateway"
	"github.com/flatmates/marketplace/internal/handler"
	"github.com/flatmates/marketplace/internal/queue"
	"github.com/flatmates/marketplace/internal/repository"
	"github.com/flatmates/marketplace/internal/router"
	"github.com/flatmates/marketplace/internal/service/activity"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName,
		cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables the response cache and rate
	// limiter without affecting the rest of the service.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	listings := repository.NewListingRepo(db)
	messages := repository.NewMessageRepo(db)
	payments := repository.NewPaymentRepo(db)

	var pg handler.PaymentGateway
	if cfg.GatewayConfigured() {
		g, err := gateway.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
		if err != nil {
			log.Fatalf("gateway: %v", err)
		}
		pg = g
	} else {
		log.Println("razorpay credentials absent; payment order creation disabled")
	}

	events := activity.NewPublisher()
	buster := &handler.CacheBuster{Cfg: cacheCfg, RDB: rdb}

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, tokens),
		Listing:  handler.NewListingHandler(listings, buster, events),
		Roommate: handler.NewRoommateHandler(users),
		Message:  handler.NewMessageHandler(messages, users),
		Payment:  handler.NewPaymentHandler(cfg, payments, users, pg, events),
		Profile:  handler.NewProfileHandler(users, buster),
		Admin:    handler.NewAdminHandler(listings, buster),
		Sitemap:  handler.NewSitemapHandler(cfg.BaseURL, listings),
		Health:   handler.NewHealthHandler(db),
	}

	// The activity consumer runs for the lifetime of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Register(e, h, cfg, cacheCfg, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
