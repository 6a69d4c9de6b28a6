package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.HTTPAddr)
	}
	if !cfg.MigrateOnStart || !cfg.Import.Enabled {
		t.Errorf("expected migrations and import on by default")
	}
	if cfg.Import.Interval != 12*time.Hour || cfg.Import.Limit != 50 || cfg.Import.Timeout != 30*time.Second {
		t.Errorf("unexpected import defaults %+v", cfg.Import)
	}
	if cfg.Import.FeedURL != "https://famme.no/products.json" {
		t.Errorf("unexpected feed url %q", cfg.Import.FeedURL)
	}
	if cfg.RateLimit.RPS != 5 || cfg.RateLimit.Burst != 10 {
		t.Errorf("unexpected rate limit defaults %+v", cfg.RateLimit)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected shutdown timeout %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/catalog")
	t.Setenv("IMPORT_INTERVAL", "30m")
	t.Setenv("IMPORT_LIMIT", "5")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabaseURL != "postgres://u:p@db:5432/catalog" {
		t.Errorf("unexpected database url %q", cfg.DatabaseURL)
	}
	if cfg.Import.Interval != 30*time.Minute || cfg.Import.Limit != 5 {
		t.Errorf("unexpected import config %+v", cfg.Import)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected format to be lower-cased, got %q", cfg.LogFormat)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Errorf("unexpected redis addr %q", cfg.RedisAddr)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "http:\n  addr: \":9090\"\nimport:\n  enabled: false\n  interval: 0s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("expected :9090, got %q", cfg.HTTPAddr)
	}
	if cfg.Import.Enabled {
		t.Errorf("expected import to be disabled")
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	t.Setenv("IMPORT_LIMIT", "0")

	_, err := Load("")
	if err == nil {
		t.Fatalf("expected a validation error")
	}
	for _, want := range []string{"log.format", "import.limit"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got %v", want, err)
		}
	}
}

func TestLoad_ImportTimeoutRequired(t *testing.T) {
	t.Setenv("IMPORT_TIMEOUT", "0s")

	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "import.timeout") {
		t.Fatalf("expected an import.timeout error, got %v", err)
	}

	t.Setenv("IMPORT_ENABLED", "false")
	if _, err := Load(""); err != nil {
		t.Errorf("expected the timeout to be ignored with import disabled, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected an error for a missing config file")
	}
}
