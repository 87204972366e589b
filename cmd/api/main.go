package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/craftcv/craftcv-api/internal/config"
	"github.com/craftcv/craftcv-api/internal/database"
	"github.com/craftcv/craftcv-api/internal/handler"
	"github.com/craftcv/craftcv-api/internal/middleware"
	"github.com/craftcv/craftcv-api/internal/models"
	"github.com/craftcv/craftcv-api/internal/repository"
	"github.com/craftcv/craftcv-api/internal/router"
	"github.com/craftcv/craftcv-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Resume{}, &models.Review{}, &models.ReviewerProgression{}, &models.ReviewerBadge{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	reviewRepo := repository.NewReviewRepository(db)
	progressionRepo := repository.NewProgressionRepository(db)
	resumeDirectory := repository.NewResumeDirectory(db)

	reviewService := service.NewReviewService(service.ReviewServiceParams{
		Reviews:          reviewRepo,
		Progressions:     progressionRepo,
		Resumes:          resumeDirectory,
		Validator:        validate,
		Cache:            redisClient,
		CacheTTL:         cfg.StatsCacheTTL,
		XPAward:          cfg.ReviewXPAward,
		SandboxResumeIDs: cfg.SandboxResumeIDs,
		Logger:           logger,
	})
	leaderboardService := service.NewLeaderboardService(progressionRepo, logger)

	reviewHandler := handler.NewReviewHandler(reviewService, validate, logger)
	reviewerHandler := handler.NewReviewerHandler(leaderboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ReviewHandler:   reviewHandler,
		ReviewerHandler: reviewerHandler,
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
