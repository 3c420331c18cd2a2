// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Session SessionConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// RateLimitEnabled controls per-IP rate limiting (default: true)
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RateLimitPerMinute is the request budget per IP per minute (default: 300)
	RateLimitPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
}

// SessionConfig holds record-session policy settings.
type SessionConfig struct {
	// MaxUploadBytes is the maximum accepted load size in bytes (default: 100MB)
	MaxUploadBytes int64 `env:"SESSION_MAX_UPLOAD_BYTES" default:"104857600"`

	// MaxGenerateCount bounds synthetic sample requests (default: 100000)
	MaxGenerateCount int `env:"SESSION_MAX_GENERATE_COUNT" default:"100000"`

	// PageSizes is the comma-separated set of allowed page sizes (default: 10,25,50,100)
	PageSizes []int `env:"SESSION_PAGE_SIZES" default:"10,25,50,100"`

	// DefaultPageSize is the page size after a new load (default: 25)
	DefaultPageSize int `env:"SESSION_DEFAULT_PAGE_SIZE" default:"25"`

	// HistoryLimit bounds the in-session edit trail (default: 500)
	HistoryLimit int `env:"SESSION_HISTORY_LIMIT" default:"500"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
