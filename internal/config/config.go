package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingDB2Settings is returned when one or more gateway variables are unset.
var ErrMissingDB2Settings = errors.New("missing DB2 gateway settings")

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	DB2       DB2Config
	Redis     RedisConfig
	Logger    LoggerConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// DB2Config holds the connection values for the remote DB2 REST gateway.
// It is read once at startup and never mutated afterwards.
type DB2Config struct {
	Host           string
	Port           string
	User           string
	Password       string
	BasePath       string
	TimeoutSeconds int
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// RateLimitConfig configures the per-client limiter on the user routes.
type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

// Load reads configuration from environment variables, applying defaults where possible.
// The four DB2 gateway variables are mandatory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "user-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "1339"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 0),
		},
		DB2: DB2Config{
			Host:           os.Getenv("DB2_HOST"),
			Port:           os.Getenv("DB2_PORT"),
			User:           os.Getenv("DB2_USER"),
			Password:       os.Getenv("DB2_PASSWORD"),
			BasePath:       getEnv("DB2_BASE_PATH", "/services/db2"),
			TimeoutSeconds: getEnvAsInt("DB2_TIMEOUT_SECONDS", 0),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RPS:     rps,
			Burst:   getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
	}

	if err := cfg.DB2.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every gateway variable that is missing.
func (d DB2Config) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Host) == "" {
		missing = append(missing, "DB2_HOST")
	}
	if strings.TrimSpace(d.Port) == "" {
		missing = append(missing, "DB2_PORT")
	}
	if strings.TrimSpace(d.User) == "" {
		missing = append(missing, "DB2_USER")
	}
	if strings.TrimSpace(d.Password) == "" {
		missing = append(missing, "DB2_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingDB2Settings, strings.Join(missing, ", "))
	}
	return nil
}

// BaseURL returns the root URL of the DB2 REST services.
func (d DB2Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%s/%s", d.Host, d.Port, strings.Trim(d.BasePath, "/"))
}

// Timeout returns the remote call timeout. Zero means no timeout.
func (d DB2Config) Timeout() time.Duration {
	if d.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
