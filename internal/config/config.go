package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"reading-companion/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort      string
	LogLevel        string
	SessionTTL      time.Duration
	CleanupInterval time.Duration
	MaxPages        int
	MaxFileSize     int64
	GCPProjectID    string
	GCPLocation     string
	AllowedOrigins  []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:      getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		SessionTTL:      getEnvSecondsOrDefault("SESSION_TTL_SECONDS", time.Hour),
		CleanupInterval: getEnvSecondsOrDefault("CLEANUP_INTERVAL_SECONDS", 5*time.Minute),
		MaxPages:        getEnvIntOrDefault("MAX_PAGES", 15),
		MaxFileSize:     getEnvInt64OrDefault("MAX_FILE_SIZE", 10*1024*1024), // 10MB default
		GCPProjectID:    getEnvOrDefault("GCP_PROJECT_ID", ""),
		GCPLocation:     getEnvOrDefault("GCP_LOCATION", "us-central1"),
		AllowedOrigins:  splitAndTrim(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSessionTTL returns the session inactivity TTL
func (c *AppConfig) GetSessionTTL() time.Duration {
	return c.SessionTTL
}

// GetCleanupInterval returns the reaper sweep interval
func (c *AppConfig) GetCleanupInterval() time.Duration {
	return c.CleanupInterval
}

// GetMaxPages returns the per-session page upload limit
func (c *AppConfig) GetMaxPages() int {
	return c.MaxPages
}

// GetMaxFileSize returns the maximum allowed upload file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetGCPProjectID returns the Google Cloud project for the AI collaborators
func (c *AppConfig) GetGCPProjectID() string {
	return c.GCPProjectID
}

// GetGCPLocation returns the Vertex AI location
func (c *AppConfig) GetGCPLocation() string {
	return c.GCPLocation
}

// GetAllowedOrigins returns the CORS origins for the frontend
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
