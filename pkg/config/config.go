package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIURL = "https://api.jikan.moe/v4"

type Config struct {
	// Catalog API
	APIURL      string        `env:"MANGAVERSE_API_URL"`
	HTTPTimeout time.Duration `env:"MANGAVERSE_HTTP_TIMEOUT" default:"30s"`

	// Gateway
	MinInterval time.Duration `env:"MANGAVERSE_MIN_INTERVAL" default:"350ms"`
	Backoff     time.Duration `env:"MANGAVERSE_BACKOFF" default:"1s"`
	MaxRetries  int           `env:"MANGAVERSE_MAX_RETRIES" default:"5"`
	Jitter      float64       `env:"MANGAVERSE_JITTER" default:"0.2"`
	PerMinute   int           `env:"MANGAVERSE_PER_MINUTE" default:"60"`

	// Storage
	DBPath string `env:"MANGAVERSE_DB_PATH" default:"~/.mangaverse/mangaverse.db"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
	LogFile   string `env:"LOG_FILE"`
}

// Load reads envFile when it exists, then the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	config := &Config{}
	loadEnvString(&config.APIURL, "MANGAVERSE_API_URL", DefaultAPIURL)
	loadEnvString(&config.DBPath, "MANGAVERSE_DB_PATH", filepath.Join(home, ".mangaverse", "mangaverse.db"))
	loadEnvString(&config.LogLevel, "LOG_LEVEL", "info")
	loadEnvString(&config.LogFormat, "LOG_FORMAT", "text")
	loadEnvString(&config.LogFile, "LOG_FILE", "")

	if err := loadEnvDuration(&config.HTTPTimeout, "MANGAVERSE_HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.MinInterval, "MANGAVERSE_MIN_INTERVAL", 350*time.Millisecond); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.Backoff, "MANGAVERSE_BACKOFF", time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.MaxRetries, "MANGAVERSE_MAX_RETRIES", 5); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.Jitter, "MANGAVERSE_JITTER", 0.2); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.PerMinute, "MANGAVERSE_PER_MINUTE", 60); err != nil {
		return nil, err
	}

	config.DBPath = expandHome(config.DBPath, home)
	return config, nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func loadEnvString(target *string, key, defaultValue string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var problems []string

	if c.APIURL == "" {
		problems = append(problems, "MANGAVERSE_API_URL must not be empty")
	}
	if c.MinInterval < 0 {
		problems = append(problems, "MANGAVERSE_MIN_INTERVAL must not be negative")
	}
	if c.Backoff <= 0 {
		problems = append(problems, "MANGAVERSE_BACKOFF must be positive")
	}
	if c.MaxRetries < 0 {
		problems = append(problems, "MANGAVERSE_MAX_RETRIES must not be negative")
	}
	if c.Jitter < 0 || c.Jitter >= 1 {
		problems = append(problems, "MANGAVERSE_JITTER must be in [0, 1)")
	}
	if c.PerMinute < 0 {
		problems = append(problems, "MANGAVERSE_PER_MINUTE must not be negative")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}
	validLogFormats := []string{"text", "json"}
	if !slices.Contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// DefaultLogFile is where the TUI logs when LOG_FILE is unset.
func (c *Config) DefaultLogFile() string {
	return filepath.Join(filepath.Dir(c.DBPath), "mangaverse.log")
}
