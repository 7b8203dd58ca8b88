// Package config loads service configuration from an optional config
// file plus BLOOD_ORDERS_* environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"blood-orders/internal/store"
)

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config is the full service configuration
type Config struct {
	ListenAddr string   `mapstructure:"listen_addr"`
	Store      string   `mapstructure:"store"`
	Database   Database `mapstructure:"database"`
}

// Database holds the PostgreSQL connection parameters
type Database struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DBConfig converts the database section into store connection config
func (c *Config) DBConfig() store.DBConfig {
	return store.DBConfig{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		Database: c.Database.Name,
		SSLMode:  c.Database.SSLMode,
	}
}

// Load reads configuration: defaults, then the config file at path (if
// given), then environment variables. A missing file is only an error
// when the path was explicit.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("store", StoreMemory)
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "bloodorders")
	v.SetDefault("database.password", "bloodorders")
	v.SetDefault("database.name", "bloodorders")
	v.SetDefault("database.sslmode", "disable")

	v.SetEnvPrefix("BLOOD_ORDERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.Store != StoreMemory && cfg.Store != StorePostgres {
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}

	return &cfg, nil
}
