package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.JWT.Expiration != 15*time.Minute {
		t.Errorf("JWT expiration = %v, want 15m", cfg.JWT.Expiration)
	}
	if cfg.AMQP.Queue != "note_events" {
		t.Errorf("AMQP queue = %q, want note_events", cfg.AMQP.Queue)
	}
	if cfg.Editor.MaxContentBytes != 1<<20 {
		t.Errorf("max content = %d, want 1MiB", cfg.Editor.MaxContentBytes)
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_HOST", "couch")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("EDITOR_IDLE_TIMEOUT", "45m")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Database.URL(); got != "http://u:p@couch:5984" {
		t.Errorf("Database.URL() = %q", got)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if cfg.Editor.IdleTimeout != 45*time.Minute {
		t.Errorf("idle timeout = %v, want 45m", cfg.Editor.IdleTimeout)
	}
	if !cfg.IsProduction() || !cfg.DebugLogging() {
		t.Error("production and debug flags should follow the environment")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_EXPIRATION", "fifteen minutes")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject an invalid duration")
	}
}

func TestGetEnvAsInt_FallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")

	if got := getEnvAsInt("SOME_INT", 7); got != 7 {
		t.Errorf("getEnvAsInt() = %d, want 7", got)
	}
}
