// Package config loads runtime configuration from config.toml and
// SHIPDESK_-prefixed environment variables, with built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	Stores   StoresConfig
	Log      LogConfig
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	Path string // SQLite file path; ":memory:" for ephemeral runs
}

// StoresConfig holds storefront registry settings.
type StoresConfig struct {
	SeedPath     string // optional hujson seed file for store configs
	DefaultStore string // store label when no sender matches
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// Load reads configuration with the priority: SHIPDESK_ environment
// variables, then config.toml, then built-in defaults. A missing config
// file is not an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.shipdesk")

	v.SetDefault("database.path", "shipdesk.db")
	v.SetDefault("stores.seed_path", "")
	v.SetDefault("stores.default_store", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SHIPDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Stores: StoresConfig{
			SeedPath:     v.GetString("stores.seed_path"),
			DefaultStore: v.GetString("stores.default_store"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: invalid log format %q", c.Log.Format)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("config: database path must not be empty")
	}
	return nil
}
