package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	ServerPort   string        `json:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Debug        bool          `json:"debug"`

	// Logging
	LogDir   string `json:"log_dir"`
	LogLevel string `json:"log_level"`

	Middleware MiddlewareConfig `json:"middleware"`
	CORS       CORSConfig       `json:"cors"`

	// Extract endpoint limiter and the history limiter
	RateLimit        RateLimitConfig `json:"rate_limit"`
	HistoryRateLimit RateLimitConfig `json:"history_rate_limit"`

	Database DatabaseConfig `json:"database"`
	YouTube  YouTubeConfig  `json:"youtube"`
	Spaces   SpacesConfig   `json:"spaces"`

	Version string `json:"version"`

	RequestTimeout  time.Duration `json:"request_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type MiddlewareConfig struct {
	EnableRecover   bool `json:"enable_recover"`
	EnableRequestID bool `json:"enable_request_id"`
	EnableLogger    bool `json:"enable_logger"`
	EnableTimeout   bool `json:"enable_timeout"`
	EnableCORS      bool `json:"enable_cors"`
	EnableRateLimit bool `json:"enable_rate_limit"`
}

type DatabaseConfig struct {
	Path               string        `json:"path"`
	MaxConnections     int           `json:"max_connections"`
	MaxIdleConnections int           `json:"max_idle_connections"`
	ConnMaxLifetime    time.Duration `json:"conn_max_lifetime"`
}

// YouTubeConfig holds upstream credentials and the knobs of the extraction
// pipeline. APIKey is optional: without it the official adapter is skipped
// and channel listing is refused.
type YouTubeConfig struct {
	APIKey                 string        `json:"-"`
	InnerTubeClientVersion string        `json:"innertube_client_version"`
	UpstreamTimeout        time.Duration `json:"upstream_timeout"`
	ChannelPageDelay       time.Duration `json:"channel_page_delay"`
	ChannelMaxPages        int           `json:"channel_max_pages"`
	ChannelBatchSize       int           `json:"channel_batch_size"`
	ShortFormSeconds       int           `json:"short_form_seconds"`
	BulkMaxURLs            int           `json:"bulk_max_urls"`
	ResolveCacheSize       int           `json:"resolve_cache_size"`
}

// SpacesConfig enables archiving saved analyses to S3-compatible storage
// when Bucket is set.
type SpacesConfig struct {
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	Bucket    string `json:"bucket"`
}

func (s SpacesConfig) Enabled() bool {
	return s.Bucket != ""
}

type CORSConfig struct {
	Enabled          bool     `json:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `json:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute"`
	BurstSize         int  `json:"burst_size"`
	MaxClients        int  `json:"max_clients"`

	// TrustedProxies lists the addresses (or CIDR prefixes) allowed to name
	// the caller through X-User-ID. Requests from anywhere else are keyed by IP.
	TrustedProxies []string `json:"trusted_proxies"`
}

func defaultDevConfig() MiddlewareConfig {
	return MiddlewareConfig{
		EnableRecover:   true,
		EnableRequestID: true,
		EnableLogger:    true,
		EnableTimeout:   false, // Disabled for easier debugging
		EnableCORS:      true,
		EnableRateLimit: true,
	}
}

func defaultProdConfig() MiddlewareConfig {
	return MiddlewareConfig{
		EnableRecover:   true,
		EnableRequestID: true,
		EnableLogger:    true,
		EnableTimeout:   true,
		EnableCORS:      true,
		EnableRateLimit: true,
	}
}

// Load reads configuration from the environment and validates it, creating
// the log and database directories.
func Load() (*Config, error) {
	cfg := FromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv reads configuration from environment variables without validating
// it. A .env file in the working directory is applied first if one exists;
// real environment variables win over it.
func FromEnv() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 5*time.Minute),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		Debug:        getEnvAsBool("DEBUG", false),

		LogDir:   getEnv("LOG_DIR", "/var/log/yt-research"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Version: getEnv("VERSION", "1.0.0"),

		// Bulk and channel requests walk many upstream pages.
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 5*time.Minute),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		CORS: CORSConfig{
			Enabled:        getEnvAsBool("CORS_ENABLED", true),
			AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsStringSlice(
				"CORS_ALLOWED_METHODS",
				[]string{"GET", "POST", "OPTIONS"},
			),
			AllowedHeaders: getEnvAsStringSlice(
				"CORS_ALLOWED_HEADERS",
				[]string{"Content-Type", "X-User-ID"},
			),
			ExposedHeaders:   getEnvAsStringSlice("CORS_EXPOSED_HEADERS", []string{"X-Request-ID"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 86400),
		},

		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 10),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
			MaxClients:        getEnvAsInt("RATE_LIMIT_MAX_CLIENTS", 10000),
			TrustedProxies:    getEnvAsStringSlice("RATE_LIMIT_TRUSTED_PROXIES", []string{"127.0.0.1", "::1"}),
		},

		HistoryRateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("HISTORY_RATE_LIMIT_RPM", 20),
			BurstSize:         getEnvAsInt("HISTORY_RATE_LIMIT_BURST", 20),
			MaxClients:        getEnvAsInt("RATE_LIMIT_MAX_CLIENTS", 10000),
			TrustedProxies:    getEnvAsStringSlice("RATE_LIMIT_TRUSTED_PROXIES", []string{"127.0.0.1", "::1"}),
		},

		Database: DatabaseConfig{
			Path:               getEnv("DB_PATH", "/var/lib/yt-research/data.db"),
			MaxConnections:     getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},

		YouTube: YouTubeConfig{
			APIKey:                 getEnv("YOUTUBE_API_KEY", ""),
			InnerTubeClientVersion: getEnv("INNERTUBE_CLIENT_VERSION", "2.20250222.10.00"),
			UpstreamTimeout:        getEnvAsDuration("UPSTREAM_TIMEOUT", 20*time.Second),
			ChannelPageDelay:       getEnvAsDuration("CHANNEL_PAGE_DELAY", 100*time.Millisecond),
			ChannelMaxPages:        getEnvAsInt("CHANNEL_MAX_PAGES", 200),
			ChannelBatchSize:       getEnvAsInt("CHANNEL_BATCH_SIZE", 50),
			ShortFormSeconds:       getEnvAsInt("SHORT_FORM_SECONDS", 60),
			BulkMaxURLs:            getEnvAsInt("BULK_MAX_URLS", 50),
			ResolveCacheSize:       getEnvAsInt("RESOLVE_CACHE_SIZE", 1024),
		},

		Spaces: SpacesConfig{
			AccessKey: getEnv("SPACES_ACCESS_KEY", ""),
			SecretKey: getEnv("SPACES_SECRET_KEY", ""),
			Region:    getEnv("SPACES_REGION", "us-east-1"),
			Endpoint:  getEnv("SPACES_ENDPOINT", ""),
			Bucket:    getEnv("SPACES_BUCKET", ""),
		},

		Middleware: defaultDevConfig(),
	}

	if os.Getenv("ENV") == "production" {
		cfg.Middleware = defaultProdConfig()
	}

	return cfg
}

func (c *Config) Validate() error {
	if err := validatePaths(c); err != nil {
		return err
	}

	if err := validateTimeouts(c); err != nil {
		return err
	}

	if err := validateYouTube(c); err != nil {
		return err
	}

	return nil
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.LogDir, "log directory"},
		{filepath.Dir(c.Database.Path), "database directory"},
	}

	for _, p := range paths {
		if err := os.MkdirAll(p.path, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p.name, err)
		}
	}

	return nil
}

func validateTimeouts(c *Config) error {
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.YouTube.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}
	return nil
}

func validateYouTube(c *Config) error {
	y := c.YouTube
	if y.ChannelMaxPages <= 0 {
		return fmt.Errorf("channel max pages must be positive")
	}
	if y.ChannelBatchSize <= 0 || y.ChannelBatchSize > 50 {
		return fmt.Errorf("channel batch size must be between 1 and 50")
	}
	if y.ChannelPageDelay < 0 {
		return fmt.Errorf("channel page delay must not be negative")
	}
	if y.BulkMaxURLs <= 0 {
		return fmt.Errorf("bulk max urls must be positive")
	}
	return nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts
		}
	}
	return defaultValue
}
