// Package config loads application configuration from environment variables.
// All configuration is read here, once, at startup; other packages receive a
// *Config (or a slice of it) by injection and never touch the environment.
package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the process needs. Read-only after Load.
type Config struct {
	// Port is the HTTP listen port (default: 4000).
	Port string

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// JWTSecret signs session tokens. May be empty: token issuance then
	// fails with a configuration error at request time instead of the
	// process refusing to start.
	JWTSecret string

	// TokenTTL is the session token lifetime (default: 1h).
	TokenTTL time.Duration

	// MigrationsDir is where SQL migrations live. Empty disables the
	// startup migration run.
	MigrationsDir string

	Database DatabaseConfig
}

// DatabaseConfig holds Postgres connection parameters. Individual fields are
// read from separate env vars; DATABASE_URL takes precedence when set.
type DatabaseConfig struct {
	Host     string
	Name     string
	User     string
	Password string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// urlOverride is set when DATABASE_URL is provided.
	urlOverride string
}

// DSN returns the Postgres connection string. If DATABASE_URL was set it is
// returned as-is, otherwise the DSN is assembled from the individual fields.
func (d DatabaseConfig) DSN() string {
	if d.urlOverride != "" {
		return d.urlOverride
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   ensurePort(d.Host, "5432"),
		Path:   "/" + d.Name,
	}
	return u.String()
}

// ensurePort appends the default port when the host string doesn't carry one.
func ensurePort(host, defaultPort string) string {
	if _, _, err := net.SplitHostPort(host); err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// Load builds a Config from the environment. Defaults are suitable for local
// development; nothing here fails hard, a missing JWT_SECRET included.
func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "4000"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      parseTTL(os.Getenv("TOKEN_TTL")),
		MigrationsDir: getenv("MIGRATIONS_DIR", "migrations"),
		Database: DatabaseConfig{
			Host:            getenv("DB_HOST", "localhost"),
			Name:            getenv("DB_NAME", "bookshelf"),
			User:            getenv("DB_USER", "bookshelf"),
			Password:        getenv("DB_PASSWORD", ""),
			MaxOpenConns:    getenvInt("DB_MAX_OPEN", 25),
			MaxIdleConns:    getenvInt("DB_MAX_IDLE", 25),
			ConnMaxLifetime: time.Duration(getenvInt("DB_MAX_LIFETIME", 300)) * time.Second,
			urlOverride:     os.Getenv("DATABASE_URL"),
		},
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// parseTTL accepts durations such as "30m", "1h", "90s" or a bare number of
// minutes. Anything unparseable falls back to the 1 hour default.
func parseTTL(s string) time.Duration {
	if s == "" {
		return time.Hour
	}
	if strings.HasSuffix(s, "s") || strings.HasSuffix(s, "m") || strings.HasSuffix(s, "h") {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
		return time.Hour
	}
	min, err := strconv.Atoi(s)
	if err != nil {
		return time.Hour
	}
	return time.Duration(min) * time.Minute
}
