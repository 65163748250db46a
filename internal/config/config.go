// Package config provides application configuration loaded from environment
// variables and an optional config file.
package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig selects the key-value substrate.
// Driver is one of "sqlite", "postgres" or "memory".
type DatabaseConfig struct {
	Driver string
	DSN    string
	Debug  bool
}

// StorageConfig holds limits applied to persisted records.
type StorageConfig struct {
	QuotaBytes int64
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env         string
	Dev         bool
	Lang        string
	PrintJobTTL time.Duration
	NodeID      int64 // snowflake node used for order ids
}

// Load reads configuration from the environment. When ORDERS_CONFIG points
// to a file (yaml, json, toml or env) its values are used below env vars.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	if path := v.GetString("ORDERS_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("Warning: config file %s not loaded, using environment variables: %v", path, err)
		}
	}

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DEV", false)
	v.SetDefault("APP_LANG", "ar")
	v.SetDefault("PRINT_JOB_TTL", "10m")
	v.SetDefault("NODE_ID", 1)
	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60)
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "orders.db")
	v.SetDefault("DB_DEBUG", false)
	v.SetDefault("STORAGE_QUOTA_BYTES", 5*1024*1024)

	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			ReadTimeout:  v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetInt("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetInt("SERVER_IDLE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:    v.GetString("DATABASE_DSN"),
			Debug:  v.GetBool("DB_DEBUG"),
		},
		Storage: StorageConfig{
			QuotaBytes: v.GetInt64("STORAGE_QUOTA_BYTES"),
		},
		App: AppConfig{
			Env:         v.GetString("APP_ENV"),
			Dev:         v.GetBool("DEV"),
			Lang:        v.GetString("APP_LANG"),
			PrintJobTTL: v.GetDuration("PRINT_JOB_TTL"),
			NodeID:      v.GetInt64("NODE_ID"),
		},
	}
}
