// Package config reads the server and lookup-client settings from the
// environment. Every setting has a default, so both binaries start with no
// environment at all.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server holds cmd/server configuration.
type Server struct {
	Port           int
	DBPath         string
	CatalogPath    string
	ReloadInterval time.Duration
	AllowedOrigins []string
	LogLevel       slog.Level
}

// Client holds cmd/lookup configuration.
type Client struct {
	BaseURL  string
	Debounce time.Duration
	Timeout  time.Duration
	LogLevel slog.Level
}

// LoadServer loads server configuration from environment variables.
//
//	PORT                    5001
//	DB_PATH                 data/eligibility.db
//	CATALOG_PATH            data/catalog.yaml
//	CATALOG_RELOAD_INTERVAL 10m
//	CORS_ALLOWED_ORIGINS    *            (comma-separated)
//	LOG_LEVEL               info
func LoadServer() (*Server, error) {
	cfg := &Server{
		Port:           getEnvAsInt("PORT", 5001),
		DBPath:         getEnv("DB_PATH", "data/eligibility.db"),
		CatalogPath:    getEnv("CATALOG_PATH", "data/catalog.yaml"),
		ReloadInterval: getEnvAsDuration("CATALOG_RELOAD_INTERVAL", 10*time.Minute),
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:       getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the server configuration.
func (c *Server) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("catalog path is required")
	}
	if c.ReloadInterval <= 0 {
		return fmt.Errorf("invalid catalog reload interval: %s", c.ReloadInterval)
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}
	return nil
}

// LoadClient loads lookup-client configuration from environment variables.
//
//	ELIGIBILITY_API_URL  http://127.0.0.1:5001
//	LOOKUP_DEBOUNCE      1s
//	LOOKUP_TIMEOUT       10s
//	LOG_LEVEL            warn
func LoadClient() (*Client, error) {
	cfg := &Client{
		BaseURL:  strings.TrimRight(getEnv("ELIGIBILITY_API_URL", "http://127.0.0.1:5001"), "/"),
		Debounce: getEnvAsDuration("LOOKUP_DEBOUNCE", time.Second),
		Timeout:  getEnvAsDuration("LOOKUP_TIMEOUT", 10*time.Second),
		LogLevel: getEnvAsLevel("LOG_LEVEL", slog.LevelWarn),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the client configuration.
func (c *Client) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL: %q", c.BaseURL)
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("invalid debounce: %s", c.Debounce)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvAsLevel accepts debug, info, warn and error (any case).
func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	if value, exists := os.LookupEnv(key); exists {
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err == nil {
			return level
		}
	}
	return defaultValue
}
