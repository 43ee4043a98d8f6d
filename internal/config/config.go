package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Prediction service
	PredictorURL     string
	PredictorTimeout time.Duration

	// Gauge
	GaugeTickInterval time.Duration
	GaugeRadius       float64

	// Sessions
	SessionBackend   string
	RedisURL         string
	SessionTTL       time.Duration
	SessionCacheSize int

	// History (disabled when PostgresURL is empty)
	PostgresURL          string
	HistoryWorkers       int
	HistoryQueueSize     int
	HistoryBatchSize     int
	HistoryFlushInterval time.Duration
}

// Load loads configuration from environment variables, reading a .env file
// first when one exists. It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		PredictorTimeout: getEnvDuration("PREDICTOR_TIMEOUT", 15*time.Second),

		GaugeTickInterval: getEnvDuration("GAUGE_TICK_INTERVAL", 20*time.Millisecond),
		GaugeRadius:       getEnvFloat("GAUGE_RADIUS", 94),

		SessionBackend:   strings.ToLower(getEnv("SESSION_BACKEND", "memory")),
		RedisURL:         getEnv("REDIS_URL", ""),
		SessionTTL:       getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionCacheSize: getEnvInt("SESSION_CACHE_SIZE", 1024),

		PostgresURL:          getEnv("POSTGRES_URL", ""),
		HistoryWorkers:       getEnvInt("HISTORY_WORKERS", 2),
		HistoryQueueSize:     getEnvInt("HISTORY_QUEUE_SIZE", 1000),
		HistoryBatchSize:     getEnvInt("HISTORY_BATCH_SIZE", 50),
		HistoryFlushInterval: getEnvDuration("HISTORY_FLUSH_INTERVAL", 1*time.Second),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:8080")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Critical configuration - fail if missing
	var err error
	if cfg.PredictorURL, err = getEnvRequired("PREDICTOR_URL"); err != nil {
		return nil, err
	}

	switch cfg.SessionBackend {
	case "memory":
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("SESSION_BACKEND=redis requires REDIS_URL")
		}
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND: %q", cfg.SessionBackend)
	}

	return cfg, nil
}

// IsDevelopment reports whether the dashboard runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// HistoryEnabled reports whether outcomes are persisted
func (c *Config) HistoryEnabled() bool {
	return c.PostgresURL != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
