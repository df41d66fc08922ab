package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"reputation-badge-system/handlers"
	"reputation-badge-system/middleware"
	"reputation-badge-system/models"
	"reputation-badge-system/services"
	"reputation-badge-system/utils"
	"reputation-badge-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// 🔐 GLOBAL: only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-User-ID, X-User-Roles, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.UserReputation{},
		&models.Badge{},
		&models.BadgeUnlock{},
		&models.BadgeToken{},
		&models.Endorsement{},
		&models.RewardEvent{},
		&models.AccountMirror{},
		&models.LeaderboardEntry{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	r2Ready, err := utils.InitR2()
	if err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}
	if !r2Ready {
		log.Println("⚠️  R2 not configured — badge artwork stored on local disk")
		if err := utils.EnsureUploadDir(); err != nil {
			log.Fatal("failed to ensure upload dir:", err)
		}
	}

	eventService := services.NewEventService(db)
	catalogService := services.NewCatalogService(db)
	rewardEngine := services.NewRewardEngine(db, eventService)
	mintService := services.NewMintService(db, eventService)
	accountService := services.NewAccountService(db)
	leaderboardService := services.NewLeaderboardService(db)

	if err := catalogService.SeedDefaultBadges(); err != nil {
		log.Fatal("failed to seed badge catalog:", err)
	}

	identityServiceURL := os.Getenv("IDENTITY_SERVICE_URL")
	if identityServiceURL == "" {
		log.Fatal("IDENTITY_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("REPUTATION_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("REPUTATION_SERVICE_TOKEN environment variable not set")
	}
	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	authClient := services.NewAuthServiceClient(authServiceURL, serviceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker := workers.NewAccountSyncWorker(db, identityServiceURL, "/api/v1/public/profiles", serviceToken)
	go syncWorker.Start(ctx)

	leaderboardService.StartSnapshotScheduler()
	if err := leaderboardService.Snapshot(); err != nil {
		log.Printf("initial leaderboard snapshot failed: %v", err)
	}

	handlers.SetupReputationRoutes(app, rewardEngine, eventService, authClient)
	handlers.SetupBadgeRoutes(app, catalogService)
	handlers.SetupTokenRoutes(app, mintService)
	handlers.SetupCommunityRoutes(app, accountService, leaderboardService)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Account Sync Worker running")
	log.Println("✅ Leaderboard snapshot scheduler running (hourly)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")

	<-ctx.Done()
	log.Println("Shutting down server...")
}
