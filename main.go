package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vocab-pet-engine/catalog"
	"vocab-pet-engine/config"
	"vocab-pet-engine/engine"
	"vocab-pet-engine/handlers"
	"vocab-pet-engine/middleware"
	"vocab-pet-engine/models"
	"vocab-pet-engine/services"
	"vocab-pet-engine/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		log.Fatal("failed to load catalog:", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	svc := services.New(db, cat, services.Options{Location: cfg.Location})

	scheduler, err := svc.Quests.StartRetentionScheduler(cfg.QuestRetentionDays)
	if err != nil {
		log.Fatal("failed to start quest retention scheduler:", err)
	}

	app := fiber.New()

	// 🔐❗ GLOBAL: Only Gateway requests allowed, no exceptions
	app.Use(middleware.GatewayAuthMiddleware(cfg.GameServiceToken))

	allowedOrigins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Service-Token, X-User-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	if err := handlers.SetupRoutes(app, svc); err != nil {
		log.Fatal("failed to set up routes:", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Daily quest retention: %d days", cfg.QuestRetentionDays)
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOrigins)

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := scheduler.Shutdown(); err != nil {
		log.Printf("scheduler shutdown: %v", err)
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

// loadCatalog fetches the override from R2 only when an object key is configured.
func loadCatalog(ctx context.Context, cfg *config.Config) (*engine.Catalog, error) {
	var fetcher catalog.Fetcher
	if cfg.CatalogObjectKey != "" {
		store, err := utils.NewR2Store(ctx, cfg.R2)
		if err != nil {
			return nil, err
		}
		fetcher = store
	}
	return catalog.Load(ctx, fetcher, cfg.CatalogObjectKey)
}
