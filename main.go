package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/stikovich/advent.calendar/config"
	"github.com/stikovich/advent.calendar/handlers"
	"github.com/stikovich/advent.calendar/middleware"
	"github.com/stikovich/advent.calendar/models"
	"github.com/stikovich/advent.calendar/services"
	"github.com/stikovich/advent.calendar/utils"
	"github.com/stikovich/advent.calendar/workers"

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

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Invalid configuration: ", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // attachments are screenshots and receipts, not builds
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware(cfg.CalendarServiceToken))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		// Map driver duplicate-key errors to gorm.ErrDuplicatedKey so the
		// submission race is detectable.
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Task{},
		&models.CalendarUser{},
		&models.Points{},
		&models.GlobalProgress{},
		&models.Progress{},
		&models.Submission{},
		&models.Reward{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.InitR2(cfg); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}
	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	calendarService := services.NewCalendarService(cfg)
	taskService := services.NewTaskService(db)
	rewardService := services.NewRewardService(db, cfg)
	pointsService := services.NewPointsService(db, rewardService, cfg)
	submissionService := services.NewSubmissionService(db, taskService, calendarService, pointsService, rewardService)
	userService := services.NewUserService(db)

	if err := pointsService.EnsureGlobalProgress(); err != nil {
		log.Fatal("failed to init global progress:", err)
	}
	if err := taskService.SeedTasks(models.DefaultTasks); err != nil {
		log.Fatal("failed to seed tasks:", err)
	}

	var authClient *services.AuthServiceClient
	if cfg.AuthServiceURL != "" {
		authClient = services.NewAuthServiceClient(cfg.AuthServiceURL, cfg.CalendarServiceToken)
	} else {
		log.Println("⚠️  AUTH_SERVICE_URL not set — reward SSE stream disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SyncServiceURL != "" {
		syncWorker := workers.NewCalendarUserSyncWorker(db, cfg.SyncServiceURL, "/api/v1/public/profiles", cfg.CalendarServiceToken)
		syncWorker.Start(ctx)
	} else {
		log.Println("⚠️  SYNC_SERVICE_URL not set — user mirror sync disabled")
	}

	taskService.StartPublishScheduler()

	handlers.SetupCalendarRoutes(app, calendarService, submissionService, pointsService, rewardService)
	handlers.SetupSubmissionRoutes(app, calendarService, taskService, submissionService, cfg.AllowedUploadExts)
	handlers.SetupRewardRoutes(app, pointsService, rewardService, authClient)
	handlers.SetupAdminRoutes(app, submissionService, pointsService, taskService, userService)

	app.Static("/uploads", "./uploads")

	addr := fmt.Sprintf(":%d", cfg.Port)
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost%s", addr)
	log.Printf("✅ Season window: %s → %s (%d days)",
		calendarService.SeasonStart().Format("2006-01-02"),
		calendarService.SeasonEnd().Format("2006-01-02"),
		calendarService.DayCount())
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
