// Package config reads service configuration from environment variables,
// falling back to sensible local-development defaults. A .env file, if
// present, is loaded by main before FromEnv runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every knob the service reads at startup.
type Config struct {
	Port string

	DB     DB
	Redis  Redis
	Google Google

	// SessionTTL bounds how long a signed-in session survives without renewal.
	SessionTTL time.Duration
	// ViewTTL bounds how long a cached view is served before it expires on
	// its own, independent of explicit invalidation.
	ViewTTL time.Duration
}

// DB holds PostgreSQL connection settings.
type DB struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds a libpq-compatible connection string.
func (d DB) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Redis holds connection settings for the view cache and session store.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Google holds the OAuth client settings for the identity provider.
type Google struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// FromEnv assembles a Config from the process environment.
func FromEnv() Config {
	return Config{
		Port: getEnv("PORT", "8080"),
		DB: DB{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "wildoasis"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Google: Google{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/callback"),
		},
		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),
		ViewTTL:    getEnvDuration("VIEW_TTL", 10*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
