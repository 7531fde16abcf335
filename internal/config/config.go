// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New(ctx) to build a Config with defaults.
//   - Load layers a YAML file and FINESSE_* environment variables on top.
//   - Errors wrap this package's sentinels.
package config

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorageBackend selects where store snapshots live: memory, file or redis.
	StorageBackend string `koanf:"storage_backend"`

	// DataDir holds snapshot files for the file backend.
	DataDir string `koanf:"data_dir"`

	// SecureDir holds credentials for the file backend. Files are written 0600.
	SecureDir string `koanf:"secure_dir"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`

	// BoundaryLatencyMS is the simulated latency of every data-access call.
	BoundaryLatencyMS int `koanf:"boundary_latency_ms"`

	// TokenSecret signs session tokens issued by the mock boundary.
	TokenSecret     string `koanf:"token_secret"`
	TokenTTLMinutes int    `koanf:"token_ttl_minutes"`

	// BcryptCost is the hashing cost for registered passwords.
	BcryptCost int `koanf:"bcrypt_cost"`

	// EventQueueSize bounds the in-memory change-event queue.
	EventQueueSize int `koanf:"event_queue_size"`

	// WorkerCount sets the number of event dispatch workers.
	WorkerCount int `koanf:"worker_count"`

	// SentryDSN enables error reporting when set.
	SentryDSN         string `koanf:"sentry_dsn"`
	SentryEnvironment string `koanf:"sentry_environment"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		StorageBackend:    BackendFile,
		DataDir:           "data",
		SecureDir:         "data/secure",
		RedisAddr:         "localhost:6379",
		RedisDB:           0,
		RedisPrefix:       "finesse:",
		BoundaryLatencyMS: 1000,
		TokenSecret:       "finesse-dev-secret",
		TokenTTLMinutes:   24 * 60,
		BcryptCost:        10,
		EventQueueSize:    10_000,
		WorkerCount:       runtime.NumCPU(),
		SentryEnvironment: "development",
	}
}

// BoundaryLatency returns the simulated latency as a duration.
func (c *Config) BoundaryLatency() time.Duration {
	return time.Duration(c.BoundaryLatencyMS) * time.Millisecond
}

// TokenTTL returns the session token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// Validate checks the values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StorageBackend {
	case BackendMemory:
	case BackendFile:
		if c.DataDir == "" || c.SecureDir == "" {
			return fmt.Errorf("%w: data_dir and secure_dir are required for the file backend", ErrInvalidConfig)
		}
		if c.DataDir == c.SecureDir {
			return fmt.Errorf("%w: secure_dir must differ from data_dir", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage_backend %q", ErrInvalidConfig, c.StorageBackend)
	}
	if c.BoundaryLatencyMS < 0 {
		return fmt.Errorf("%w: boundary_latency_ms must not be negative", ErrInvalidConfig)
	}
	if c.TokenSecret == "" {
		return fmt.Errorf("%w: token_secret must not be empty", ErrInvalidConfig)
	}
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("%w: token_ttl_minutes must be positive", ErrInvalidConfig)
	}
	return nil
}
