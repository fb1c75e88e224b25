package main // Entry point package

import (
	"log" // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/perfume-store/internal/cache"      // Redis read cache for catalog views
	"github.com/iliyamo/perfume-store/internal/config"     // Internal config loader
	"github.com/iliyamo/perfume-store/internal/database"   // MySQL connection pool
	"github.com/iliyamo/perfume-store/internal/handler"    // HTTP handlers
	"github.com/iliyamo/perfume-store/internal/middleware" // Session, auth and rate limit middleware
	"github.com/iliyamo/perfume-store/internal/queue"      // Order event consumer
	"github.com/iliyamo/perfume-store/internal/repository" // MySQL repositories
	"github.com/iliyamo/perfume-store/internal/router"     // Route registration
	"github.com/iliyamo/perfume-store/internal/service"    // Business rules
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate limiting
	// without any further branching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	// Repositories over the shared pool.
	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	carts := repository.NewCartRepo(db)
	orders := repository.NewOrderRepo(db)
	rates := repository.NewRateRepo(db)

	// Core services.
	pricer := service.NewPricer(rates)
	cartSvc := service.NewCart(carts, products)
	checkout := service.NewCheckout(carts, products, orders)
	lifecycle := service.NewLifecycle(orders)
	accounts := service.NewAccounts(users)

	cacheCfg := config.LoadCacheConfig()
	cacheClient := rdb
	if !cacheCfg.Enabled {
		cacheClient = nil
	}
	readCache := cache.New(cacheClient, cacheCfg.Prefix, cacheCfg.TTL)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users)
	productH := handler.NewProductHandler(products, pricer, readCache)
	cartH := handler.NewCartHandler(cartSvc, products, pricer)
	orderH := handler.NewOrderHandler(checkout, lifecycle, orders)
	adminOrderH := handler.NewAdminOrderHandler(lifecycle, orders)
	adminUserH := handler.NewAdminUserHandler(accounts, users)
	currencyH := handler.NewCurrencyHandler(rates, readCache)

	e := echo.New() // Create Echo instance

	// Every request gets a session id and, when a valid token is present,
	// the account behind it. Rate limiting keys off both.
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Session())
	e.Use(middleware.OptionalAuth(cfg.JWTSecret, users))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, users)
	router.RegisterShop(e, productH, cartH, orderH, currencyH)
	router.RegisterAdmin(e, cfg.JWTSecret, users, productH, adminOrderH, adminUserH, currencyH)

	// Background consumer that mirrors order events into logs/orders.log.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
