// Package config provides centralized configuration for the family tree server.
// Values come from environment variables (optionally seeded from a .env file),
// fall back to the defaults declared in struct tags, and are validated once at
// startup so that a misconfigured server refuses to start.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Security     SecurityConfig
	Logging      LoggingConfig
	Housekeeping HousekeepingConfig
	Census       CensusConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	// BaseURL is used when building absolute links, e.g. in block config URLs.
	BaseURL string `env:"SERVER_BASE_URL" default:"http://localhost:8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// URL is required. DB_URL is accepted as an alternative name.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"20"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// AutoMigrate applies the schema at startup.
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds the optional settings cache connection.
// When URL is empty, settings are cached in process memory.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" default:"3s"`

	// SettingsTTL bounds how long cached settings live (0 keeps them until invalidated).
	SettingsTTL time.Duration `env:"REDIS_SETTINGS_TTL" default:"0s"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// SessionCookie is the name of the login session cookie.
	SessionCookie string `env:"SESSION_COOKIE" default:"ft_session"`

	// SecureCookies marks the session cookie Secure (HTTPS only).
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" default:"false"`

	// BcryptCost is the cost factor for password hashes.
	BcryptCost int `env:"BCRYPT_COST" default:"10"`

	// MetricsToken, when set, is required as a bearer token on /metrics.
	MetricsToken string `env:"METRICS_TOKEN"`

	RateLimitEnabled  bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is text or json.
	Format string `env:"LOG_FORMAT" default:"text"`
}

// HousekeepingConfig holds the periodic cleanup settings.
type HousekeepingConfig struct {
	// Probability runs housekeeping after one request in this many (0 disables).
	Probability int `env:"HOUSEKEEPING_PROBABILITY" default:"100"`

	// Interval additionally runs housekeeping on a timer (0 disables).
	Interval time.Duration `env:"HOUSEKEEPING_INTERVAL" default:"6h"`

	CacheDir     string `env:"HOUSEKEEPING_CACHE_DIR" default:"data/cache"`
	ThumbnailDir string `env:"HOUSEKEEPING_THUMBNAIL_DIR" default:"data/thumbnail-cache"`

	MaxCacheAge     time.Duration `env:"HOUSEKEEPING_MAX_CACHE_AGE" default:"1h"`
	MaxThumbnailAge time.Duration `env:"HOUSEKEEPING_MAX_THUMBNAIL_AGE" default:"2160h"`
	MaxLogAge       time.Duration `env:"HOUSEKEEPING_MAX_LOG_AGE" default:"2160h"`
	MaxSessionAge   time.Duration `env:"HOUSEKEEPING_MAX_SESSION_AGE" default:"24h"`
}

// CensusConfig holds census report settings.
type CensusConfig struct {
	// DefaultPlace preselects the census country in the report form.
	DefaultPlace string `env:"CENSUS_DEFAULT_PLACE" default:"United States"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
