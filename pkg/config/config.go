package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDirectoryEndpoint is the upstream JSON list of providers
const DefaultDirectoryEndpoint = "https://srijandubey.github.io/campus-api-mock/SRM-C1-25.json"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Directory DirectoryConfig
	Redis     RedisConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Events    EventsConfig
	CORS      CORSConfig
	Log       LogConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DirectoryConfig holds upstream directory configuration
type DirectoryConfig struct {
	Endpoint           string
	Timeout            time.Duration
	RefreshInterval    time.Duration
	FetchAttempts      int
	MinRosterSize      int
	FallbackRosterSize int
	// AbsentModeAvailable treats a missing consultation mode flag as available
	AbsentModeAvailable bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig holds query session configuration
type SessionConfig struct {
	Store          string // "redis" or "memory"
	TTL            time.Duration
	MemoryCapacity int
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	SuggestPerMinute int
}

// EventsConfig holds directory event stream configuration
type EventsConfig struct {
	HeartbeatInterval time.Duration
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Env   string
	Level string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from an optional .env file and environment variables
func Load() (*Config, error) {
	// a missing .env file is fine; real environment variables take precedence
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Directory: DirectoryConfig{
			Endpoint:            getEnv("DIRECTORY_ENDPOINT", DefaultDirectoryEndpoint),
			Timeout:             getEnvAsDuration("DIRECTORY_TIMEOUT", 10*time.Second),
			RefreshInterval:     getEnvAsDuration("DIRECTORY_REFRESH_INTERVAL", 0),
			FetchAttempts:       getEnvAsInt("DIRECTORY_FETCH_ATTEMPTS", 3),
			MinRosterSize:       getEnvAsInt("DIRECTORY_MIN_ROSTER_SIZE", 5),
			FallbackRosterSize:  getEnvAsInt("DIRECTORY_FALLBACK_ROSTER_SIZE", 10),
			AbsentModeAvailable: getEnvAsBool("DIRECTORY_ABSENT_MODE_AVAILABLE", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Store:          getEnv("SESSION_STORE", "memory"),
			TTL:            getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			MemoryCapacity: getEnvAsInt("SESSION_MEMORY_CAPACITY", 10000),
		},
		RateLimit: RateLimitConfig{
			SuggestPerMinute: getEnvAsInt("RATE_LIMIT_SUGGEST_PER_MINUTE", 600),
		},
		Events: EventsConfig{
			HeartbeatInterval: getEnvAsDuration("EVENTS_HEARTBEAT_INTERVAL", 30*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Env:   getEnv("APP_ENV", "development"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "doctor-finder"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Directory.Endpoint == "" {
		return fmt.Errorf("DIRECTORY_ENDPOINT must not be empty")
	}
	if c.Directory.FetchAttempts < 1 {
		return fmt.Errorf("DIRECTORY_FETCH_ATTEMPTS must be at least 1")
	}
	if c.Directory.MinRosterSize < 0 {
		return fmt.Errorf("DIRECTORY_MIN_ROSTER_SIZE must not be negative")
	}
	if c.Directory.FallbackRosterSize < 1 {
		return fmt.Errorf("DIRECTORY_FALLBACK_ROSTER_SIZE must be at least 1")
	}
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("SESSION_STORE must be memory or redis, got %q", c.Session.Store)
	}
	if c.Session.Store == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("SESSION_STORE=redis requires REDIS_ENABLED=true")
	}
	return nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the HTTP listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
