// Package config loads runtime settings from the environment and session files.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/raphaelgruber/plagcheck/internal/models"
)

// Config holds all configuration values.
type Config struct {
	// Scoring service
	ServerURL     string
	ClientTimeout time.Duration

	// Session defaults
	DefaultModel string
	Threshold    float64

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Scoring stub
	StubPort    int
	StubFixture string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ServerURL:     getEnv("PLAGCHECK_SERVER_URL", "http://localhost:5001"),
		ClientTimeout: parseDuration(getEnv("PLAGCHECK_CLIENT_TIMEOUT", ""), 5*time.Minute),

		DefaultModel: getEnv("PLAGCHECK_DEFAULT_MODEL", models.DefaultModel),
		Threshold:    parseThreshold(getEnv("PLAGCHECK_THRESHOLD", "")),

		LogFile:  getEnv("PLAGCHECK_LOG_FILE", "/tmp/plagcheck.log"),
		LogLevel: parseLogLevel(getEnv("PLAGCHECK_LOG_LEVEL", "INFO")),

		StubPort:    parseInt(getEnv("PLAGCHECK_STUB_PORT", ""), 5001),
		StubFixture: getEnv("PLAGCHECK_STUB_FIXTURE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}

func parseInt(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return fallback
}

func parseThreshold(s string) float64 {
	t, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.DefaultThreshold
	}
	return models.ClampThreshold(t)
}
