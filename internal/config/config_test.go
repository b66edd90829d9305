package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/park285/Cheese-TimePressure/internal/timepressure"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TP_CONFIG", "TP_THRESHOLD_SEC", "TP_WINDOW", "TP_WORKERS", "REDIS_URL", "DATABASE_URL", "TP_CACHE_TTL_SEC", "TP_MESSAGES_DIR", "TP_OUTPUT_DIR", "TP_FETCH_TIMEOUT"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ThresholdSeconds != 120 || cfg.WindowSize != 10 || cfg.Workers != 1 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tp.yaml")
	body := "threshold_seconds: 60\nwindow_size: 5\nworkers: 2\ncache_ttl: 90m\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TP_CONFIG", path)
	t.Setenv("TP_WINDOW", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ThresholdSeconds != 60 || cfg.WindowSize != 8 || cfg.Workers != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.CacheTTL != 90*time.Minute {
		t.Fatalf("cache ttl = %v", cfg.CacheTTL)
	}
}

func TestLoad_InvalidFileWindow(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tp.yaml")
	if err := os.WriteFile(path, []byte("window_size: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TP_CONFIG", path)
	if _, err := Load(); !errors.Is(err, timepressure.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
}

func TestLoad_IgnoresBadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TP_THRESHOLD_SEC", "abc")
	t.Setenv("TP_WORKERS", "-3")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ThresholdSeconds != 120 || cfg.Workers != 1 {
		t.Fatalf("bad env should be ignored: %+v", cfg)
	}
}
