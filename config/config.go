package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	// ErrConfigMissing is returned when a required setting is absent
	ErrConfigMissing = errors.New("required configuration missing")

	// ErrConfigInvalid is returned when a setting cannot be parsed
	ErrConfigInvalid = errors.New("invalid configuration value")
)

// SupportedAlgorithms lists the JWS algorithms accepted for AUTH_ALGORITHM
var SupportedAlgorithms = []string{
	"RS256", "RS384", "RS512",
	"PS256", "PS384", "PS512",
	"ES256", "ES384", "ES512",
	"EdDSA",
}

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	ConnectionString string // From DATABASE_URL
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	Migrate          bool
}

// AuthConfig holds bearer token validation settings. It is read once at
// startup and never mutated afterwards.
type AuthConfig struct {
	Enabled          bool
	IssuerURL        string
	JWKSURL          string // optional; skips OIDC discovery when set
	Algorithm        string
	RequireAudience  bool
	ExpectedAudience string
	Leeway           time.Duration
	HTTPTimeout      time.Duration
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// LoadDotEnv loads a .env file from the working directory if one exists
func LoadDotEnv() {
	_ = godotenv.Load(".env")
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	LoadDotEnv()

	authEnabled, err := getEnvAsBoolStrict("AUTH_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	requireAudience, err := getEnvAsBoolStrict("AUTH_REQUIRE_AUDIENCE", false)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	migrate, err := getEnvAsBoolStrict("DB_MIGRATE", true)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "127.0.0.1"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			ConnectionString: getEnv("DATABASE_URL", ""),
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Migrate:          migrate,
		},
		Auth: AuthConfig{
			Enabled:          authEnabled,
			IssuerURL:        getEnv("ISSUER_URL", ""),
			JWKSURL:          getEnv("JWKS_URL", ""),
			Algorithm:        getEnv("AUTH_ALGORITHM", "RS256"),
			RequireAudience:  requireAudience,
			ExpectedAudience: getEnv("AUTH_AUDIENCE", ""),
			Leeway:           getEnvAsDuration("AUTH_LEEWAY", 0),
			HTTPTimeout:      getEnvAsDuration("AUTH_HTTP_TIMEOUT", 10*time.Second),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Database.ConnectionString == "" {
		return fmt.Errorf("%w: DATABASE_URL must be set", ErrConfigMissing)
	}

	if c.Auth.Enabled {
		if c.Auth.IssuerURL == "" {
			return fmt.Errorf("%w: ISSUER_URL must be set when AUTH_ENABLED is true", ErrConfigMissing)
		}
		if !isSupportedAlgorithm(c.Auth.Algorithm) {
			return fmt.Errorf("unsupported AUTH_ALGORITHM %q", c.Auth.Algorithm)
		}
		if c.Auth.RequireAudience && c.Auth.ExpectedAudience == "" {
			return fmt.Errorf("%w: AUTH_AUDIENCE must be set when AUTH_REQUIRE_AUDIENCE is true", ErrConfigMissing)
		}
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return c.ConnectionString
}

// LogString returns a safe string for logging (no password)
func (c *DatabaseConfig) LogString() string {
	u, err := url.Parse(c.ConnectionString)
	if err != nil || u.Host == "" {
		return "host=<from DATABASE_URL>"
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	db := strings.TrimPrefix(u.Path, "/")
	return fmt.Sprintf("host=%s port=%s database=%s", u.Hostname(), port, db)
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func isSupportedAlgorithm(alg string) bool {
	for _, a := range SupportedAlgorithms {
		if a == alg {
			return true
		}
	}
	return false
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8000)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8000
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBoolStrict reports values strconv.ParseBool rejects instead of
// falling back to the default
func getEnvAsBoolStrict(key string, defaultValue bool) (bool, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrConfigInvalid, key, valueStr)
	}
	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
