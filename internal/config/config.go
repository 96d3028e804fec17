// Package config loads application configuration from environment
// variables with an optional .env file, via viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root application configuration.
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Store       StoreConfig
	Idempotency IdempotencyConfig
	CORS        CORSConfig
}

// AppConfig holds server-level settings.
type AppConfig struct {
	Port            string
	Env             string // development, production
	LogLevel        string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// DSN builds the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// JWTConfig holds token validation settings. Empty secret disables auth.
type JWTConfig struct {
	Secret string
}

// StoreConfig is the store identity frozen onto receipts.
type StoreConfig struct {
	Name    string
	Address string
	Phone   string
}

// IdempotencyConfig controls replay protection.
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

// CORSConfig holds allowed origins for the terminal SPA.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment and optional .env file.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		// .env is optional, environment variables are enough
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !strings.Contains(err.Error(), "no such file") {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Port:            v.GetString("APP_PORT"),
			Env:             v.GetString("APP_ENV"),
			LogLevel:        v.GetString("LOG_LEVEL"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
			MinConns: v.GetInt32("DB_MIN_CONNS"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Store: StoreConfig{
			Name:    v.GetString("STORE_NAME"),
			Address: v.GetString("STORE_ADDRESS"),
			Phone:   v.GetString("STORE_PHONE"),
		},
		Idempotency: IdempotencyConfig{
			Enabled: v.GetBool("IDEMPOTENCY_ENABLED"),
			TTL:     v.GetDuration("IDEMPOTENCY_TTL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitNonEmpty(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "fowlpos")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)

	v.SetDefault("STORE_NAME", "Fresh Fowl Poultry")
	v.SetDefault("STORE_ADDRESS", "")
	v.SetDefault("STORE_PHONE", "")

	v.SetDefault("IDEMPOTENCY_ENABLED", true)
	v.SetDefault("IDEMPOTENCY_TTL", "24h")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
