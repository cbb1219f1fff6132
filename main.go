package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hall-da-fama/handlers"
	"hall-da-fama/models"
	"hall-da-fama/services"
	"hall-da-fama/utils"
	"hall-da-fama/workers"

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

	app := fiber.New(fiber.Config{
		AppName: "Hall da Fama",
	})

	// CORS: the dashboard front end runs on a separate origin (TV screens
	// load it from the CDN).
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOriginsString,
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, X-HubSpot-Token, X-Requested-With",
		ExposeHeaders: "Content-Length, Content-Type, X-Cache",
		MaxAge:        86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Println("⚠️  R2 not configured, celebration archive disabled:", err)
	}

	utils.InitMappings()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to access database pool:", err)
	}
	configurePool(sqlDB)

	if err := db.AutoMigrate(
		&models.UnlockedBadge{},
		&models.DealNotification{},
		&models.DealMirror{},
		&models.DealStagePipeline{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	configStore := utils.NewConfigStore()
	cache := services.NewCache()

	hubClient := services.NewHubSpotClient()
	badgeService := services.NewBadgeService(db)
	hallService := services.NewHallService(hubClient, badgeService)
	rankingService := services.NewRankingService(db)
	revenueService := services.NewRevenueService(db, configStore)
	notificationService := services.NewNotificationService(db)
	celebrationService := services.NewCelebrationService(configStore)
	whatsappClient := services.NewWhatsAppClient()
	lookerService := services.NewLookerService(services.NewLookerClient())
	reportService := services.NewReportService(hallService, whatsappClient)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mirrorWorker := workers.NewDealMirrorWorker(hubClient, db)
	go mirrorWorker.Run(ctx, 60*time.Second)

	refreshWorker := workers.NewCacheRefreshWorker(cache, hallService, revenueService, reportService)
	if err := refreshWorker.Start(ctx); err != nil {
		log.Fatal("failed to start scheduler:", err)
	}

	handlers.SetupHallDaFamaRoutes(app, hallService, cache)
	handlers.SetupRankingRoutes(app, rankingService)
	handlers.SetupBadgeRoutes(app, badgeService)
	handlers.SetupRevenueRoutes(app, revenueService, cache, configStore)
	handlers.SetupWebhookRoutes(app, notificationService, celebrationService, whatsappClient)
	handlers.SetupDealRoutes(app, notificationService)
	handlers.SetupLookerRoutes(app, lookerService)
	handlers.SetupThemeRoutes(app, configStore)
	handlers.SetupReportRoutes(app, reportService)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":       "ok",
			"cache_update": cache.LastUpdate(),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Deal mirror polling running (every 60s)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// configurePool sizes the connection pool for Cloud Run: few warm
// connections, short idle life so scaled-down instances release them.
func configurePool(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
}
