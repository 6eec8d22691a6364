package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"MANGAVERSE_API_URL", "MANGAVERSE_DB_PATH", "MANGAVERSE_MIN_INTERVAL",
	"MANGAVERSE_BACKOFF", "MANGAVERSE_MAX_RETRIES", "MANGAVERSE_JITTER",
	"MANGAVERSE_PER_MINUTE", "MANGAVERSE_HTTP_TIMEOUT",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
}

// clearEnv blanks every key for the test; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "/home/reader")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, 350*time.Millisecond, cfg.MinInterval)
	assert.Equal(t, time.Second, cfg.Backoff)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.InDelta(t, 0.2, cfg.Jitter, 1e-9)
	assert.Equal(t, 60, cfg.PerMinute)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "/home/reader/.mangaverse/mangaverse.db", cfg.DBPath)
	assert.Equal(t, "/home/reader/.mangaverse/mangaverse.log", cfg.DefaultLogFile())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "/home/reader")
	// godotenv does not override variables that are already set
	for _, k := range []string{"MANGAVERSE_MAX_RETRIES", "MANGAVERSE_DB_PATH", "LOG_FORMAT"} {
		os.Unsetenv(k)
	}

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"MANGAVERSE_MAX_RETRIES=2\nMANGAVERSE_DB_PATH=~/data/mv.db\nLOG_FORMAT=json\n",
	), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("MANGAVERSE_MAX_RETRIES")
		os.Unsetenv("MANGAVERSE_DB_PATH")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, "/home/reader/data/mv.db", cfg.DBPath)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := map[string]string{
		"MANGAVERSE_MIN_INTERVAL": "soon",
		"MANGAVERSE_MAX_RETRIES":  "many",
		"MANGAVERSE_JITTER":       "lots",
		"MANGAVERSE_HTTP_TIMEOUT": "10",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load("")
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Jitter = 1.5
	cfg.LogLevel = "loud"
	err = cfg.Validate()
	assert.ErrorContains(t, err, "MANGAVERSE_JITTER")
	assert.ErrorContains(t, err, "LOG_LEVEL")
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "id", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"id":1`)
}

func TestOpenLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{DBPath: filepath.Join(dir, "nested", "mv.db")}

	f, err := cfg.OpenLogFile("")
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, filepath.Join(dir, "nested", "mangaverse.log"), f.Name())
}
