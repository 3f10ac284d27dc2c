// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or
// environment variables. DatabaseURL is the backend selector signal: when it
// is set the relational store is used, otherwise the embedded snapshot store.
type Config struct {
	Port         string `mapstructure:"PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	SnapshotPath string `mapstructure:"SNAPSHOT_PATH"`
	RedisURL     string `mapstructure:"REDIS_URL"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	Env          string `mapstructure:"APP_ENV"`
	SeedDemoData bool   `mapstructure:"SEED_DEMO_DATA"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables alone are enough.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8420")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("SNAPSHOT_PATH", "data/trove.json")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("SEED_DEMO_DATA", false)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.DatabaseURL == "" && c.SnapshotPath == "" {
		return errors.New("SNAPSHOT_PATH is required when DATABASE_URL is not set")
	}
	return nil
}

// UseDatabase reports whether the relational backend is selected.
func (c *Config) UseDatabase() bool {
	return c.DatabaseURL != ""
}
