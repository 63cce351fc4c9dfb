// Package config loads service configuration from an optional .env file,
// an optional YAML file and the process environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:usertodos.db?_foreign_keys=on"
)

// Config is the root service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	API       APIConfig       `mapstructure:"api"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// DatabaseConfig represents the connection pool configuration
type DatabaseConfig struct {
	Driver             string        `mapstructure:"driver"`
	DSN                string        `mapstructure:"dsn"`
	MaxOpenConns       int           `mapstructure:"max_open_conns"`
	MaxIdleConns       int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"`
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// APIConfig toggles legacy response behaviors.
type APIConfig struct {
	// ExposeDBErrors echoes driver messages to clients instead of a generic message.
	ExposeDBErrors bool `mapstructure:"expose_db_errors"`
	// LegacyTodoUpdate makes PUT /todos/:id write nothing on success, holding
	// the request open until the client gives up.
	LegacyTodoUpdate bool `mapstructure:"legacy_todo_update"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// envBindings maps config keys onto the environment variables that set them.
var envBindings = map[string]string{
	"server.port":                   "PORT",
	"server.shutdown_timeout":       "SERVER_SHUTDOWN_TIMEOUT",
	"database.driver":               "DATABASE_DRIVER",
	"database.dsn":                  "CONNECTION_STR",
	"database.max_open_conns":       "DATABASE_MAX_OPEN_CONNS",
	"database.max_idle_conns":       "DATABASE_MAX_IDLE_CONNS",
	"database.conn_max_lifetime":    "DATABASE_CONN_MAX_LIFETIME",
	"database.slow_query_threshold": "DATABASE_SLOW_QUERY_THRESHOLD",
	"log.level":                     "LOG_LEVEL",
	"api.expose_db_errors":          "API_EXPOSE_DB_ERRORS",
	"api.legacy_todo_update":        "API_LEGACY_TODO_UPDATE",
	"telemetry.enabled":             "TELEMETRY_ENABLED",
	"telemetry.service_name":        "TELEMETRY_SERVICE_NAME",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.slow_query_threshold", 200*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("api.expose_db_errors", false)
	v.SetDefault("api.legacy_todo_update", false)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "usertodos")
}

// LoadEnvFile loads variables from path into the process environment without
// overriding variables that are already set. It reports whether the file existed.
func LoadEnvFile(path string) (bool, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return true, fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return true, nil
}

// Load builds the configuration. Missing config files are skipped.
func Load(configPaths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	for _, path := range configPaths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("CONNECTION_STR is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Database.DSN == "" {
			c.Database.DSN = defaultSQLiteDSN
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return errors.New("pool sizes must not be negative")
	}
	return nil
}
