package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"hostify/internal/cache"
	"hostify/internal/config"
	"hostify/internal/database"
	"hostify/internal/handlers"
	"hostify/internal/services"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 2. Init DB
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to init database", zap.Error(err))
	}

	// 3. Optional Redis cache
	redisClient := cache.NewRedisClient(cfg)
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cache.Ping(ctx, redisClient); err != nil {
			logger.Warn("redis unreachable, caching disabled", zap.Error(err))
			redisClient = nil
		}
		cancel()
	}

	// 4. Services
	mailer := services.NewMailgunMailer(cfg, logger)
	dispatcher := services.NewDispatcher(db, mailer, logger)
	defer dispatcher.Close()

	cartSvc := services.NewCartService(db)
	svc := &handlers.Services{
		Catalog:    services.NewCatalogService(db),
		Cart:       cartSvc,
		Orders:     services.NewOrderService(db, cartSvc, dispatcher, cfg, logger),
		Domains:    services.NewDomainService(db, redisClient, cfg, logger),
		Tickets:    services.NewTicketService(db, dispatcher, cfg, logger),
		Settings:   services.NewSettingsService(db, redisClient, logger),
		AIChat:     services.NewAIChatService(cfg, logger),
		Dispatcher: dispatcher,
	}

	// 5. API Server
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Validator = handlers.NewValidator()

	handlers.RegisterRoutes(e, svc)

	logger.Info("hostify starting", zap.String("addr", cfg.HTTPAddr))
	e.Logger.Fatal(e.Start(cfg.HTTPAddr))
}
