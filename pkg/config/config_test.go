package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8090" {
		t.Errorf("Expected Port to be 8090, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Redis.Enabled {
		t.Error("Expected Redis to be disabled by default")
	}

	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Expected SESSION_TTL 30m, got %v", cfg.Session.TTL)
	}

	if cfg.Session.SweepSchedule != "@every 1m" {
		t.Errorf("Expected sweep schedule @every 1m, got %s", cfg.Session.SweepSchedule)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("ASSETS_FILE", "assets.yaml")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}
	if cfg.AssetsFile != "assets.yaml" {
		t.Errorf("Expected AssetsFile assets.yaml, got %s", cfg.AssetsFile)
	}
	if !cfg.Redis.Enabled || cfg.RedisAddr() != "cache:6379" {
		t.Errorf("Expected enabled redis at cache:6379, got %v %s", cfg.Redis.Enabled, cfg.RedisAddr())
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("Expected SESSION_TTL 2h, got %v", cfg.Session.TTL)
	}
	if cfg.RateLimit.RPS != 2.5 {
		t.Errorf("Expected RPS 2.5, got %v", cfg.RateLimit.RPS)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be debug, got %s", cfg.LogLevel)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	t.Setenv("ENV", "invalid")

	if _, err := Load(); err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestValidateInvalidRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "0")

	if _, err := Load(); err == nil {
		t.Error("Expected error when RATE_LIMIT_BURST is 0, got nil")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2h")

	if d := getEnvAsDuration("TEST_DURATION", "1h"); d != 2*time.Hour {
		t.Errorf("Expected duration to be 2h, got %v", d)
	}

	t.Setenv("TEST_DURATION", "garbage")
	if d := getEnvAsDuration("TEST_DURATION", "1h"); d != time.Hour {
		t.Errorf("Expected fallback 1h, got %v", d)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "100")

	if v := getEnvAsInt("TEST_INT", 50); v != 100 {
		t.Errorf("Expected value to be 100, got %d", v)
	}
	if v := getEnvAsInt("TEST_INT_UNSET", 50); v != 50 {
		t.Errorf("Expected default 50, got %d", v)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")

	if v := getEnvAsBool("TEST_BOOL", false); !v {
		t.Errorf("Expected value to be true, got %v", v)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("LOG_FORMAT=json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// registers restore-on-cleanup, then leave it unset so the file applies
	t.Setenv("LOG_FORMAT", "")
	os.Unsetenv("LOG_FORMAT")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("Expected LogFormat json from file, got %s", cfg.LogFormat)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Expected error for missing env file")
	}
}
