package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "8080" || cfg.DBDriver != "postgres" {
			t.Errorf("unexpected defaults: port %q driver %q", cfg.Port, cfg.DBDriver)
		}
		if cfg.Retention != 720*time.Hour {
			t.Errorf("expected 720h retention, got %s", cfg.Retention)
		}
		if cfg.GameSeed != nil || cfg.SeedFunc() != nil {
			t.Error("expected no fixed seed")
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("GAME_SEED", "42")
		t.Setenv("COMPLETED_GAME_RETENTION", "1h")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DBDriver != "sqlite" || cfg.Retention != time.Hour {
			t.Errorf("unexpected config %+v", cfg)
		}
		seed := cfg.SeedFunc()
		if seed == nil || seed() != 42 {
			t.Error("expected fixed seed 42")
		}
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		if _, err := Load(); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("rejects bad seed", func(t *testing.T) {
		t.Setenv("GAME_SEED", "lucky")
		if _, err := Load(); err == nil {
			t.Fatal("expected an error")
		}
	})
}
