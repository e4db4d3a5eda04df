package main

import (
	"fmt"
	"os"

	"ratrace/internal/app"
	"ratrace/internal/catalog"
	"ratrace/internal/config"
	"ratrace/internal/database"
	"ratrace/internal/engine"
	"ratrace/internal/logger"
	"ratrace/internal/services"
	"ratrace/internal/validator"
)

// @title           Rat Race API
// @version         1.0
// @description     Single-player game session engine for the rat race cash flow board game.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Load the game catalog
	cat, err := catalog.Open(appConfig.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	log.Infow("catalog loaded",
		"professions", len(cat.Professions),
		"opportunities", len(cat.Opportunities),
		"doodads", len(cat.Doodads),
		"events", len(cat.Events),
	)

	// Register custom validators
	validator.Register(cat.Rules)

	runner := services.NewGameRunner(dbManager.DB(), engine.New(cat),
		services.WithSeed(appConfig.SeedFunc()),
	)
	if appConfig.GameSeed != nil {
		log.Warnw("new games use a fixed seed", "seed", *appConfig.GameSeed)
	}

	router := app.NewRouter(dbManager.DB(), runner, app.Options{
		JWTSecret:   []byte(appConfig.JWTSecret),
		AdminAPIKey: appConfig.AdminAPIKey,
		Retention:   appConfig.Retention,
	})

	log.Infof("Starting rat race server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
