package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// Ledger configuration
	Ledger LedgerConfig

	// Origin authentication configuration
	Auth AuthConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RateLimit       float64 // requests per second, 0 disables
	RateBurst       int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string
	EventChannel string
}

// Storage backends for ledger state
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// LedgerConfig holds the ledger constants and backend selection
type LedgerConfig struct {
	Backend            string
	PostMinBytes       uint32
	PostMaxBytes       uint32
	CommentMinBytes    uint32
	CommentMaxBytes    uint32
	ExistentialDeposit uint64
	Endowments         string // "account:amount,..." applied at startup
	EventBuffer        int
}

// AuthConfig holds bearer token verification settings
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables, and from the file
// named by CONFIG_FILE when set
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			RateLimit:       v.GetFloat64("SERVER_RATE_LIMIT"),
			RateBurst:       v.GetInt("SERVER_RATE_BURST"),
		},
		Database: DatabaseConfig{
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			Name:           v.GetString("DB_NAME"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			MaxOpenConns:   v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:   v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxLifetime:    v.GetDuration("DB_MAX_LIFETIME"),
			MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		},
		Redis: RedisConfig{
			Addr:         v.GetString("REDIS_ADDR"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			KeyPrefix:    v.GetString("REDIS_KEY_PREFIX"),
			EventChannel: v.GetString("REDIS_EVENT_CHANNEL"),
		},
		Ledger: LedgerConfig{
			Backend:            strings.ToLower(v.GetString("LEDGER_BACKEND")),
			PostMinBytes:       v.GetUint32("LEDGER_POST_MIN_BYTES"),
			PostMaxBytes:       v.GetUint32("LEDGER_POST_MAX_BYTES"),
			CommentMinBytes:    v.GetUint32("LEDGER_COMMENT_MIN_BYTES"),
			CommentMaxBytes:    v.GetUint32("LEDGER_COMMENT_MAX_BYTES"),
			ExistentialDeposit: v.GetUint64("LEDGER_EXISTENTIAL_DEPOSIT"),
			Endowments:         v.GetString("LEDGER_ENDOWMENTS"),
			EventBuffer:        v.GetInt("LEDGER_EVENT_BUFFER"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("AUTH_JWT_SECRET"),
			Issuer:    v.GetString("AUTH_ISSUER"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_RATE_LIMIT", 100.0)
	v.SetDefault("SERVER_RATE_BURST", 200)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "blogchain")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_MAX_LIFETIME", 5*time.Minute)
	v.SetDefault("MIGRATIONS_PATH", "./migrations")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "blogchain")
	v.SetDefault("REDIS_EVENT_CHANNEL", "blogchain:events")

	v.SetDefault("LEDGER_BACKEND", BackendMemory)
	v.SetDefault("LEDGER_POST_MIN_BYTES", 10)
	v.SetDefault("LEDGER_POST_MAX_BYTES", 4096)
	v.SetDefault("LEDGER_COMMENT_MIN_BYTES", 4)
	v.SetDefault("LEDGER_COMMENT_MAX_BYTES", 1024)
	v.SetDefault("LEDGER_EXISTENTIAL_DEPOSIT", 1)
	v.SetDefault("LEDGER_EVENT_BUFFER", 1000)

	v.SetDefault("AUTH_ISSUER", "blogchain")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Ledger.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required")
		}
	default:
		return fmt.Errorf("LEDGER_BACKEND must be one of: memory, postgres, redis")
	}

	if uint64(c.Ledger.PostMaxBytes) <= uint64(c.Ledger.PostMinBytes)+1 {
		return fmt.Errorf("LEDGER_POST_MAX_BYTES must exceed LEDGER_POST_MIN_BYTES by at least 2")
	}
	if uint64(c.Ledger.CommentMaxBytes) <= uint64(c.Ledger.CommentMinBytes)+1 {
		return fmt.Errorf("LEDGER_COMMENT_MAX_BYTES must exceed LEDGER_COMMENT_MIN_BYTES by at least 2")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
