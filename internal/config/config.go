// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Cache    CacheConfig
	Breaker  BreakerConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`

	// Port is the port to listen on (default: 8000)
	Port int `env:"SERVER_PORT" envDefault:"8000"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required).
	// DB_URL is read when DATABASE_URL is unset.
	URL string `env:"DATABASE_URL"`

	// AltURL backs the DB_URL fallback.
	AltURL string `env:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" envDefault:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" envDefault:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`

	// AcquireTimeout bounds connect and ping at startup (default: 2s)
	AcquireTimeout time.Duration `env:"DB_ACQUIRE_TIMEOUT" envDefault:"2s"`

	// RunMigrations applies pending migrations on serve (default: true)
	RunMigrations bool `env:"DB_RUN_MIGRATIONS" envDefault:"true"`
}

// UploadConfig holds CSV upload processing settings.
type UploadConfig struct {
	// MaxBodySize is the byte ceiling for one CSV body (default: 2 MiB)
	MaxBodySize int64 `env:"UPLOAD_MAX_BODY_SIZE" envDefault:"2097152"`

	// ReadChunkSize is how many bytes are pulled from the body per read (default: 8192)
	ReadChunkSize int `env:"UPLOAD_READ_CHUNK_SIZE" envDefault:"8192"`

	// MaxConcurrent is the maximum number of parallel extractions (default: 16)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" envDefault:"16"`

	// MaxWaitTime is how long to wait for an upload slot (default: 10s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" envDefault:"10s"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" envDefault:"120"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// CacheConfig holds the optional Redis document cache settings.
type CacheConfig struct {
	// RedisURL enables the cache when set, e.g. redis://localhost:6379/0
	RedisURL string `env:"REDIS_URL"`

	// TTL is how long a cached document lives (default: 10m)
	TTL time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

// BreakerConfig holds circuit breaker settings for the document store.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open (default: 3)
	MaxRequests uint32 `env:"BREAKER_MAX_REQUESTS" envDefault:"3"`

	// Interval is the cyclic period for clearing counts while closed (default: 60s)
	Interval time.Duration `env:"BREAKER_INTERVAL" envDefault:"60s"`

	// Timeout is how long the breaker stays open (default: 30s)
	Timeout time.Duration `env:"BREAKER_TIMEOUT" envDefault:"30s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Enabled reports whether a Redis URL was configured.
func (c *CacheConfig) Enabled() bool {
	return c.RedisURL != ""
}
