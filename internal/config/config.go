package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingAPIKey = errors.New("YouTube API key is required")
)

const (
	LookupByID     = "id"
	LookupByHandle = "handle"

	DefaultInputPath  = "youtube_data_philippines.csv"
	DefaultOutputPath = "updated_youtube_data_ph.csv"
)

// Config holds the application configuration
type Config struct {
	YouTube YouTubeConfig
	Logging LoggingConfig
	Redis   RedisConfig
	Server  ServerConfig
	// DBPath is the SQLite Cloud connection string for the run archive.
	// Empty disables archiving.
	DBPath string
}

type YouTubeConfig struct {
	APIKey       string
	LookupMode   string
	FetchTimeout time.Duration
}

type LoggingConfig struct {
	Level string
	File  string
}

// RedisConfig configures the optional stats cache. Empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

// Load loads the configuration from environment variables.
// A missing API key is not an error here; see Validate.
func Load() (*Config, error) {
	cfg := &Config{
		YouTube: YouTubeConfig{
			APIKey:       strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY")),
			LookupMode:   strings.ToLower(getEnv("LOOKUP_MODE", LookupByID)),
			FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("CACHE_TTL", 6*time.Hour),
		},
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: parseCommaSeparated(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		},
		DBPath: getEnv("DB_PATH", ""),
	}

	switch cfg.YouTube.LookupMode {
	case LookupByID, LookupByHandle:
	default:
		return nil, fmt.Errorf("LOOKUP_MODE must be %q or %q, got %q", LookupByID, LookupByHandle, cfg.YouTube.LookupMode)
	}
	if cfg.YouTube.FetchTimeout < 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT must not be negative")
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is not set", ErrMissingAPIKey)
	}
	return nil
}

// OutputPathFor derives the output file name for an input table.
func OutputPathFor(inputPath string) string {
	if filepath.Clean(inputPath) == DefaultInputPath {
		return DefaultOutputPath
	}
	return filepath.Join(filepath.Dir(inputPath), "updated_"+filepath.Base(inputPath))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
