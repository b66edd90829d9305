package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/park285/Cheese-TimePressure/internal/timepressure"
	yaml "gopkg.in/yaml.v3"
)

type AppConfig struct {
	ThresholdSeconds int `yaml:"threshold_seconds"`
	WindowSize       int `yaml:"window_size"`
	Workers          int `yaml:"workers"`

	RedisURL    string        `yaml:"redis_url"`
	DatabaseURL string        `yaml:"database_url"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`

	MessagesDir  string        `yaml:"messages_dir"`
	OutputDir    string        `yaml:"output_dir"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

func defaults() *AppConfig {
	return &AppConfig{
		ThresholdSeconds: timepressure.DefaultThresholdSeconds,
		WindowSize:       timepressure.DefaultWindowSize,
		Workers:          1,
		CacheTTL:         24 * time.Hour,
		OutputDir:        ".",
		FetchTimeout:     30 * time.Second,
	}
}

// Load builds the configuration from defaults, the YAML file named by
// TP_CONFIG (if any) and then environment variables.
func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("TP_CONFIG")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("TP_THRESHOLD_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.ThresholdSeconds = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("TP_WINDOW")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.WindowSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("TP_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		c.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		c.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TP_CACHE_TTL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.CacheTTL = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("TP_MESSAGES_DIR")); v != "" {
		c.MessagesDir = v
	}
	if v := strings.TrimSpace(os.Getenv("TP_OUTPUT_DIR")); v != "" {
		c.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("TP_FETCH_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.FetchTimeout = d
		}
	}
}

func (c *AppConfig) Validate() error {
	if err := c.Options().Validate(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	return nil
}

// Options is the classifier configuration consumed by the aggregator.
func (c *AppConfig) Options() timepressure.Options {
	return timepressure.Options{ThresholdSeconds: c.ThresholdSeconds, WindowSize: c.WindowSize}
}
