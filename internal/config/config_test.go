package config_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raphaelgruber/plagcheck/internal/config"
	"github.com/raphaelgruber/plagcheck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into an empty directory so no stray .env is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	for _, key := range []string{
		"PLAGCHECK_SERVER_URL", "PLAGCHECK_CLIENT_TIMEOUT", "PLAGCHECK_DEFAULT_MODEL",
		"PLAGCHECK_THRESHOLD", "PLAGCHECK_LOG_FILE", "PLAGCHECK_LOG_LEVEL",
		"PLAGCHECK_STUB_PORT", "PLAGCHECK_STUB_FIXTURE",
	} {
		t.Setenv(key, "")
	}

	cfg := config.Load()
	assert.Equal(t, "http://localhost:5001", cfg.ServerURL)
	assert.Equal(t, 5*time.Minute, cfg.ClientTimeout)
	assert.Equal(t, models.DefaultModel, cfg.DefaultModel)
	assert.Equal(t, models.DefaultThreshold, cfg.Threshold)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5001, cfg.StubPort)
	assert.Empty(t, cfg.StubFixture)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PLAGCHECK_SERVER_URL", "http://scoring:9000")
	t.Setenv("PLAGCHECK_CLIENT_TIMEOUT", "30s")
	t.Setenv("PLAGCHECK_THRESHOLD", "5")
	t.Setenv("PLAGCHECK_LOG_LEVEL", "debug")
	t.Setenv("PLAGCHECK_STUB_PORT", "7000")

	cfg := config.Load()
	assert.Equal(t, "http://scoring:9000", cfg.ServerURL)
	assert.Equal(t, 30*time.Second, cfg.ClientTimeout)
	assert.Equal(t, models.MaxThreshold, cfg.Threshold)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 7000, cfg.StubPort)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	// godotenv never overrides a variable that is present, even when empty.
	for _, key := range []string{"PLAGCHECK_SERVER_URL", "PLAGCHECK_DEFAULT_MODEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PLAGCHECK_SERVER_URL=http://from-dotenv:5001\nPLAGCHECK_DEFAULT_MODEL=paraphrase-mpnet\n"), 0o644))

	cfg := config.Load()
	assert.Equal(t, "http://from-dotenv:5001", cfg.ServerURL)
	assert.Equal(t, "paraphrase-mpnet", cfg.DefaultModel)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PLAGCHECK_CLIENT_TIMEOUT", "soon")
	t.Setenv("PLAGCHECK_THRESHOLD", "high")
	t.Setenv("PLAGCHECK_LOG_LEVEL", "chatty")
	t.Setenv("PLAGCHECK_STUB_PORT", "-1")

	cfg := config.Load()
	assert.Equal(t, 5*time.Minute, cfg.ClientTimeout)
	assert.Equal(t, models.DefaultThreshold, cfg.Threshold)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5001, cfg.StubPort)
}

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	threshold := 0.75
	in := config.SessionFile{
		Texts:     []string{"first document", "second document"},
		Threshold: &threshold,
		Models:    []string{"all-MiniLM-L6-v2", "stub-model"},
	}
	require.NoError(t, config.SaveSession(path, in))

	out, err := config.LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, in.Texts, out.Texts)
	assert.Equal(t, in.Models, out.Models)
	assert.Equal(t, 0.75, out.ThresholdOr(0.8))
}

func TestParseSession(t *testing.T) {
	s, err := config.ParseSession([]byte("texts:\n  - a\n  - |\n    multi\n    line\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "multi\nline\n"}, s.Texts)
	assert.Nil(t, s.Models)
	assert.Equal(t, 0.8, s.ThresholdOr(0.8))

	s, err = config.ParseSession([]byte("texts: [a, b]\nthreshold: 0.01\n"))
	require.NoError(t, err)
	assert.Equal(t, models.MinThreshold, s.ThresholdOr(0.8))

	_, err = config.ParseSession([]byte("texts: {not: a list"))
	assert.Error(t, err)

	_, err = config.LoadSession(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read session file")
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := config.SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("analysis completed", "request_id", "abc")

	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), "analysis completed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(file.Bytes()), &entry))
	assert.Equal(t, "analysis completed", entry["msg"])
	assert.Equal(t, "abc", entry["request_id"])
}

func TestSetupLoggerLevelsPerDestination(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		wantStderr bool
		wantFile   bool
		wantDebug  bool
	}{
		{name: "error keeps file at info", level: slog.LevelError, wantStderr: false, wantFile: true},
		{name: "info", level: slog.LevelInfo, wantStderr: true, wantFile: true},
		{name: "debug reaches both", level: slog.LevelDebug, wantStderr: true, wantFile: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr, file bytes.Buffer
			logger := config.SetupLoggerWithWriters(&stderr, &file, tt.level)

			logger.Debug("matrix decoded")
			logger.Info("analysis completed")

			assert.Equal(t, tt.wantStderr, strings.Contains(stderr.String(), "analysis completed"))
			assert.Equal(t, tt.wantFile, strings.Contains(file.String(), "analysis completed"))
			assert.Equal(t, tt.wantDebug, strings.Contains(file.String(), "matrix decoded"))
		})
	}
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plagcheck.log")
	logger, cleanup := config.SetupLogger(path, slog.LevelError)
	logger.Info("stub listening", "port", 5001)
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"stub listening"`)
}

func TestSetupFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plagcheck.log")
	logger, cleanup := config.SetupFileLogger(path, slog.LevelDebug)
	logger.Debug("catalog fetched", "models", 3)
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"catalog fetched"`))
}

func TestSetupFileLoggerUnwritablePath(t *testing.T) {
	logger, cleanup := config.SetupFileLogger(filepath.Join(t.TempDir(), "missing", "dir", "x.log"), slog.LevelInfo)
	require.NotNil(t, logger)
	logger.Info("dropped")
	assert.NoError(t, cleanup())
}
