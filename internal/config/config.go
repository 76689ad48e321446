// Package config loads service configuration from the environment.
//
// A local .env file is honored when present (development convenience);
// real environments inject variables directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ServiceConfig identifies the running process.
type ServiceConfig struct {
	Name           string
	Version        string
	Env            string
	Port           string
	AuthorizerPort string
}

// SessionConfig holds the session-authority knobs.
type SessionConfig struct {
	// InactivitySeconds is the sliding inactivity window. A session whose
	// idle time reaches this value is expired.
	InactivitySeconds int
	// CookieName is the session cookie read by both enforcement points.
	CookieName string
}

// StoreConfig selects and parameterizes the session store backend and
// the user directory.
type StoreConfig struct {
	// Backend is one of "redis", "postgres", "memory".
	Backend string
	// Table is the postgres table name, doubling as the redis key prefix.
	Table string

	RedisAddr     string
	RedisPassword string
	DatabaseURL   string

	// UserDirectory is one of "static", "postgres".
	UserDirectory string
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level string
}

// TracingConfig holds OpenTelemetry exporter settings.
type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

// ProfilingConfig holds Pyroscope settings.
type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

// ShutdownConfig controls graceful-shutdown pacing.
type ShutdownConfig struct {
	ReadinessDrainSeconds int
	TimeoutSeconds        int
}

// Config is the root configuration passed explicitly to every component.
// Nothing reads the environment after Load returns.
type Config struct {
	Service   ServiceConfig
	Session   SessionConfig
	Store     StoreConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
	Shutdown  ShutdownConfig
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Service: ServiceConfig{
			Name:           getEnv("SERVICE_NAME", "sessiongate"),
			Version:        getEnv("SERVICE_VERSION", "dev"),
			Env:            getEnv("ENV", "development"),
			Port:           getEnv("PORT", "8080"),
			AuthorizerPort: getEnv("AUTHORIZER_PORT", "8081"),
		},
		Session: SessionConfig{
			InactivitySeconds: getEnvAsInt("INACTIVITY_SECONDS", 1800),
			CookieName:        getEnv("SESSION_COOKIE_NAME", "sid"),
		},
		Store: StoreConfig{
			Backend:       getEnv("SESSION_STORE", "memory"),
			Table:         getEnv("SESSIONS_TABLE", "sessions"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			DatabaseURL:   getEnv("DATABASE_URL", ""),
			UserDirectory: getEnv("USER_DIRECTORY", "static"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvAsBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("TRACING_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvAsFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvAsBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PROFILING_ENDPOINT", "http://localhost:4040"),
		},
		Shutdown: ShutdownConfig{
			ReadinessDrainSeconds: getEnvAsInt("READINESS_DRAIN_SECONDS", 0),
			TimeoutSeconds:        getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
		},
	}
}

// Validate rejects configurations that cannot produce a working service.
func (c Config) Validate() error {
	if c.Session.InactivitySeconds <= 0 {
		return fmt.Errorf("INACTIVITY_SECONDS must be positive, got %d", c.Session.InactivitySeconds)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}

	switch c.Store.Backend {
	case "memory":
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("SESSION_STORE=redis requires REDIS_ADDR")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("SESSION_STORE=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q (want redis, postgres or memory)", c.Store.Backend)
	}

	switch c.Store.UserDirectory {
	case "static":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("USER_DIRECTORY=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown USER_DIRECTORY %q (want static or postgres)", c.Store.UserDirectory)
	}

	return nil
}

// InactivityWindow returns the sliding window as a duration.
func (c Config) InactivityWindow() time.Duration {
	return time.Duration(c.Session.InactivitySeconds) * time.Second
}

// GetReadinessDrainDelayDuration returns the delay between failing
// readiness and starting HTTP shutdown.
func (c Config) GetReadinessDrainDelayDuration() time.Duration {
	return time.Duration(c.Shutdown.ReadinessDrainSeconds) * time.Second
}

// GetShutdownTimeoutDuration returns the graceful-shutdown deadline.
func (c Config) GetShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.Shutdown.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvAsFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvAsBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
