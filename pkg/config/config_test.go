package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}

	if got := cfg.Sync.SuppressionWindow; got != time.Second {
		t.Fatalf("expected suppression window default 1s, got %v", got)
	}

	if got := cfg.Groups.CleanupTTL; got != 5*time.Minute {
		t.Fatalf("expected cleanup TTL default 5m, got %v", got)
	}

	if cfg.Groups.IDPrefix != "TOMATE" {
		t.Fatalf("unexpected group id prefix %q", cfg.Groups.IDPrefix)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_OverridesSyncWindow(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("DESAYUNOS_SYNC_SUPPRESSION_WINDOW", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Sync.SuppressionWindow != 250*time.Millisecond {
		t.Fatalf("expected overridden window, got %v", cfg.Sync.SuppressionWindow)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
}
