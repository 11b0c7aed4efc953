package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/bansalKrishna311/tryo/internal/domain"
	pkgconfig "github.com/bansalKrishna311/tryo/pkg/config"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the tryo server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server. The UI shell talks to localhost only.
	HTTPHost            string `env:"HTTP_HOST" envDefault:"127.0.0.1"`
	HTTPPort            int    `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeoutSecs int    `env:"SHUTDOWN_TIMEOUT_SECONDS" envDefault:"10"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"redis"`

	// Redis
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass      string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"tryo:"`

	// PostgreSQL
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"tryo"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"tryo"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"tryo"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"4"`

	// Collection rules
	CartMaxQuantity    int `env:"CART_MAX_QUANTITY" envDefault:"99"`
	TryHistoryCapacity int `env:"TRY_HISTORY_CAPACITY" envDefault:"5"`

	// Store resilience
	StoreRetryBackoffMS   int     `env:"STORE_RETRY_BACKOFF_MS" envDefault:"50"`
	StoreOpTimeoutMS      int     `env:"STORE_OP_TIMEOUT_MS" envDefault:"2000"`
	SlowQueryMS           int     `env:"STORE_SLOW_QUERY_MS" envDefault:"200"`
	BreakerTimeoutSecs    int     `env:"BREAKER_TIMEOUT_SECONDS" envDefault:"10"`
	BreakerFailureRatio   float64 `env:"BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests    uint32  `env:"BREAKER_MIN_REQUESTS" envDefault:"5"`
	BreakerHalfOpenProbes uint32  `env:"BREAKER_HALF_OPEN_REQUESTS" envDefault:"1"`

	// Kafka. Empty disables the activity feed.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// OpenTelemetry
	OTelEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTelInsecure   bool    `env:"OTEL_INSECURE" envDefault:"true"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// DotenvFile is read from the working directory when present. The process
// environment takes precedence over it.
const DotenvFile = ".env"

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg, DotenvFile); err != nil {
		return nil, fmt.Errorf("load tryo config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !slices.Contains([]string{BackendMemory, BackendRedis, BackendPostgres}, c.StoreBackend) {
		return fmt.Errorf("STORE_BACKEND must be one of memory, redis, postgres, got %q", c.StoreBackend)
	}
	if c.CartMaxQuantity < 1 || c.CartMaxQuantity > domain.MaxQuantity {
		return fmt.Errorf("CART_MAX_QUANTITY must be between 1 and %d", domain.MaxQuantity)
	}
	if c.TryHistoryCapacity < 1 {
		return fmt.Errorf("TRY_HISTORY_CAPACITY must be at least 1")
	}
	if c.StoreRetryBackoffMS < 0 || c.StoreOpTimeoutMS < 0 {
		return fmt.Errorf("store backoff and timeout must not be negative")
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0.0, 1.0]")
	}
	if c.OTelSampleRate < 0 || c.OTelSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0")
	}
	return nil
}

// HTTPAddr is the listen address.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.StoreRetryBackoffMS) * time.Millisecond
}

func (c *Config) OpTimeout() time.Duration {
	return time.Duration(c.StoreOpTimeoutMS) * time.Millisecond
}

func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryMS) * time.Millisecond
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSecs) * time.Second
}

func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutSecs) * time.Second
}
