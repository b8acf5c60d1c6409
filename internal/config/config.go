package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all process configuration loaded from environment variables.
// Run-mode flags and message templates live in the persisted run state, not here.
type Config struct {
	App         AppConfig
	SourceDB    SourceDBConfig
	State       StateConfig
	Cache       CacheConfig
	RingCentral RingCentralConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"surplus-restock-notifier"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// SourceDBConfig holds the connection settings for the surplus data source.
type SourceDBConfig struct {
	Type     string `envconfig:"SOURCE_DB_TYPE" default:"postgres"` // postgres or mysql
	Host     string `envconfig:"SOURCE_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"SOURCE_DB_PORT" default:"5432"`
	Name     string `envconfig:"SOURCE_DB_NAME" default:"surplus"`
	User     string `envconfig:"SOURCE_DB_USER" default:"postgres"`
	Password string `envconfig:"SOURCE_DB_PASS" default:""`
	SSLMode  string `envconfig:"SOURCE_DB_SSLMODE" default:"disable"`
}

// StateConfig holds run-state persistence settings.
type StateConfig struct {
	Type string `envconfig:"STATE_STORE_TYPE" default:"file"` // file or sqlite
	Path string `envconfig:"STATE_STORE_PATH" default:"./data/run-state.json"`
}

// CacheConfig holds component-lookup cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"` // memory, redis, or none
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"15m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// RingCentralConfig holds the chat platform credentials and destination.
type RingCentralConfig struct {
	ServerURL    string        `envconfig:"RC_SERVER_URL" default:"https://platform.ringcentral.com"`
	ClientID     string        `envconfig:"RC_CLIENT_ID" default:""`
	ClientSecret string        `envconfig:"RC_CLIENT_SECRET" default:""`
	JWT          string        `envconfig:"RC_JWT" default:""`
	ChatID       string        `envconfig:"RC_CHAT_ID" default:"139466260486"`
	HTTPTimeout  time.Duration `envconfig:"RC_HTTP_TIMEOUT" default:"30s"`
}

// PostgresDSN returns the PostgreSQL connection string.
func (s *SourceDBConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		s.User, s.Password, s.Host, s.Port, s.Name, s.SSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (s *SourceDBConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		s.User, s.Password, s.Host, s.Port, s.Name)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
