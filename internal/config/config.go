package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned by Load when API_KEY is empty.
var ErrMissingAPIKey = errors.New("API_KEY environment variable must be set for security")

// Config holds the application configuration
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"xpscale"`
	Version     string `env:"VERSION" envDefault:"dev"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DBUser        string `env:"DB_USER" envDefault:"postgres"`
	DBPassword    string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost        string `env:"DB_HOST" envDefault:"localhost"`
	DBPort        string `env:"DB_PORT" envDefault:"5432"`
	DBName        string `env:"DB_NAME" envDefault:"xpscale"`
	DBMaxConns    int    `env:"DB_MAX_CONNS" envDefault:"10"`

	APIKey          string   `env:"API_KEY"` // API key for authentication
	TrustedProxies  []string `env:"TRUSTED_PROXIES" envSeparator:","`
	MaxRequestBytes int64    `env:"MAX_REQUEST_BYTES" envDefault:"1048576"`

	BoostCatalogPath string `env:"BOOST_CATALOG_PATH" envDefault:"configs/boosts.toml"`
	CurveCacheSize   int    `env:"CURVE_CACHE_SIZE" envDefault:"4096"`

	EventMaxRetries    int           `env:"EVENT_MAX_RETRIES" envDefault:"5"`
	EventRetryDelay    time.Duration `env:"EVENT_RETRY_DELAY" envDefault:"2s"`
	EventDeadLetterLog string        `env:"EVENT_DEAD_LETTER_PATH" envDefault:"events_deadletter.jsonl"`

	EventLogRetentionDays int           `env:"EVENT_LOG_RETENTION_DAYS" envDefault:"30"`
	EventLogCleanupEvery  time.Duration `env:"EVENT_LOG_CLEANUP_INTERVAL" envDefault:"1h"`
	WorkerCount           int           `env:"WORKER_COUNT" envDefault:"2"`
	WorkerQueueSize       int           `env:"WORKER_QUEUE_SIZE" envDefault:"16"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT value: %d", c.Port)
	}
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: expected %s or %s", c.StorageDriver, StorageDriverPostgres, StorageDriverMemory)
	}
	if c.MaxRequestBytes < 1 {
		return fmt.Errorf("invalid MAX_REQUEST_BYTES value: %d", c.MaxRequestBytes)
	}
	if c.EventLogRetentionDays < 1 {
		return fmt.Errorf("invalid EVENT_LOG_RETENTION_DAYS value: %d", c.EventLogRetentionDays)
	}
	if c.EventLogCleanupEvery <= 0 {
		return fmt.Errorf("invalid EVENT_LOG_CLEANUP_INTERVAL value: %s", c.EventLogCleanupEvery)
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("invalid DB_MAX_CONNS value: %d", c.DBMaxConns)
	}
	return nil
}

// IsDevelopment reports whether the service runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvironmentDev || c.Environment == EnvironmentDevelopment
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
