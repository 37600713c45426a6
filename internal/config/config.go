// Package config loads the date service's configuration from environment
// variables. No other package reads env vars directly; defaults suit local
// development.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// Database holds MariaDB connection settings.
	Database DatabaseConfig

	// Redis holds the parse-cache connection settings.
	Redis RedisConfig

	// Parse holds date parsing and preview settings.
	Parse ParseConfig

	// CORSOrigins lists origins allowed to call the API from a browser
	// (comma-separated CORS_ORIGINS). Empty disables CORS headers.
	CORSOrigins []string

	// TrustedProxies lists reverse proxy CIDRs whose forwarding headers are
	// believed when resolving client IPs (comma-separated TRUSTED_PROXIES).
	TrustedProxies []string

	// SeedCalendar is an optional calendar definition file (JSON or YAML)
	// imported at startup when no calendar with its name exists yet.
	SeedCalendar string
}

// DatabaseConfig holds MariaDB connection parameters. Host, User, Password
// and Name come from separate env vars so orchestrators can manage each one;
// DATABASE_URL, when set, takes precedence over all of them.
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format (default: "localhost:3306").
	// If no port is specified, 3306 is appended automatically.
	Host string

	// User is the MariaDB username (default: "calendate").
	User string

	// Password is the MariaDB password (default: "calendate").
	Password string

	// Name is the database name (default: "calendate").
	Name string

	// dsnOverride is set when DATABASE_URL is provided, bypassing individual fields.
	dsnOverride string

	// MaxOpenConns is the maximum number of open connections in the pool.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// ConnMaxLifetime is how long a connection can be reused.
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver/mysql connection string. If DATABASE_URL was
// set, it is returned as-is. Otherwise the DSN is built from the individual
// Host/User/Password/Name fields using the driver's Config.FormatDSN()
// to safely handle special characters in passwords.
func (d DatabaseConfig) DSN() string {
	if d.dsnOverride != "" {
		return d.dsnOverride
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
// Allows users to set DB_HOST=mydb (gets :3306) or DB_HOST=mydb:3307 (as-is).
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	// Empty disables the parse cache.
	URL string
}

// ParseConfig tunes the parse endpoints.
type ParseConfig struct {
	// CacheTTL is how long a parsed date stays in Redis.
	CacheTTL time.Duration

	// PreviewRateLimit is the number of preview and parse requests one
	// client IP may make per PreviewRateWindow.
	PreviewRateLimit int

	// PreviewRateWindow is the rate limiting window.
	PreviewRateWindow time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost:3306"),
			User:            getEnv("DB_USER", "calendate"),
			Password:        getEnv("DB_PASSWORD", "calendate"),
			Name:            getEnv("DB_NAME", "calendate"),
			dsnOverride:     getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Parse: ParseConfig{
			CacheTTL:          getEnvDuration("PARSE_CACHE_TTL", 24*time.Hour),
			PreviewRateLimit:  getEnvInt("PREVIEW_RATE_LIMIT", 60),
			PreviewRateWindow: getEnvDuration("PREVIEW_RATE_WINDOW", time.Minute),
		},

		CORSOrigins:    getEnvList("CORS_ORIGINS", nil),
		TrustedProxies: getEnvList("TRUSTED_PROXIES", []string{"127.0.0.1/8", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}),
		SeedCalendar:   getEnv("SEED_CALENDAR", ""),
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.Parse.PreviewRateLimit < 1 {
		return nil, fmt.Errorf("PREVIEW_RATE_LIMIT must be positive, got %d", cfg.Parse.PreviewRateLimit)
	}
	if cfg.Parse.PreviewRateWindow <= 0 {
		return nil, fmt.Errorf("PREVIEW_RATE_WINDOW must be positive")
	}

	// Production deployments must name their database explicitly rather
	// than silently using the development credentials.
	if cfg.IsProduction() && cfg.Database.dsnOverride == "" && cfg.Database.Password == "calendate" {
		return nil, fmt.Errorf("DB_PASSWORD or DATABASE_URL is required in production")
	}

	return cfg, nil
}

// IsProduction returns true for "production" or "prod", in any case.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvList reads a comma-separated env var, dropping empty items, or
// returns the default.
func getEnvList(key string, defaultVal []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvDuration reads a duration env var (e.g., "720h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
