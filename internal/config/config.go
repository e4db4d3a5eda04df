package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`

	// Database
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"ratrace"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"ratrace"`
	DBName     string `env:"DB_NAME" envDefault:"ratrace"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"ratrace.db"`

	// Auth
	JWTSecret   string `env:"JWT_SECRET" envDefault:"fallback-secret-key-for-dev-only"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	// Game
	CatalogPath string        `env:"CATALOG_PATH"`
	GameSeed    *uint64       `env:"GAME_SEED"`
	Retention   time.Duration `env:"COMPLETED_GAME_RETENTION" envDefault:"720h"`
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}
	if cfg.Retention <= 0 {
		return nil, fmt.Errorf("COMPLETED_GAME_RETENTION must be positive, got %s", cfg.Retention)
	}

	appConfig = &cfg
	return appConfig, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// SeedFunc returns the seed source for new sessions: the fixed GAME_SEED
// when set, otherwise nil so callers draw from crypto/rand.
func (c *Config) SeedFunc() func() uint64 {
	if c.GameSeed == nil {
		return nil
	}
	seed := *c.GameSeed
	return func() uint64 { return seed }
}
