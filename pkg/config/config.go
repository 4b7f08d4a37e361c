package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Session  SessionConfig
	Sentry   SentryConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	Environment  string
	ServiceName  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  string // Comma-separated list of allowed origins
}

// UpstreamConfig holds the marketplace core API connection settings
type UpstreamConfig struct {
	BaseURL        string
	TimeoutSeconds int
	// Circuit breaker tuning
	BreakerInterval         int
	BreakerTimeout          int
	BreakerFailureThreshold int
	BreakerSuccessThreshold int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// DatabaseConfig holds the audit-trail database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	Enabled  bool
}

// SessionConfig holds operator session settings
type SessionConfig struct {
	JWTSecret string
	TTLHours  int
}

// SentryConfig holds Sentry error reporting settings
type SentryConfig struct {
	DSN     string
	Enabled bool
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ServiceName:  serviceName,
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 30),
			CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:5173"),
		},
		Upstream: UpstreamConfig{
			BaseURL:                 getEnv("CORE_API_BASE_URL", "http://localhost:8000"),
			TimeoutSeconds:          getEnvAsInt("CORE_API_TIMEOUT", 15),
			BreakerInterval:         getEnvAsInt("CORE_API_BREAKER_INTERVAL", 60),
			BreakerTimeout:          getEnvAsInt("CORE_API_BREAKER_TIMEOUT", 30),
			BreakerFailureThreshold: getEnvAsInt("CORE_API_BREAKER_FAILURES", 5),
			BreakerSuccessThreshold: getEnvAsInt("CORE_API_BREAKER_SUCCESSES", 1),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "guimaps_admin"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			Enabled:  getEnvAsBool("AUDIT_DB_ENABLED", true),
		},
		Session: SessionConfig{
			JWTSecret: getEnv("SESSION_JWT_SECRET", "change-me-in-production"),
			TTLHours:  getEnvAsInt("SESSION_TTL_HOURS", 12),
		},
		Sentry: SentryConfig{
			DSN:     getEnv("SENTRY_DSN", ""),
			Enabled: getEnvAsBool("SENTRY_ENABLED", false),
		},
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Timeout returns the upstream request timeout as a duration
func (c *UpstreamConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionTTL returns the configured session lifetime
func (c *SessionConfig) SessionTTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
