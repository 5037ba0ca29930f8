package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service configuration. Values come from an optional YAML
// file named by CONFIG_FILE and are then overridden by environment variables.
type Config struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	PostgresDSN string `yaml:"postgres_dsn"`

	MongoURI string `yaml:"mongo_uri"`
	MongoDB  string `yaml:"mongo_db"`

	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	FeedCacheTTL  time.Duration `yaml:"feed_cache_ttl"`

	MinioEndpoint  string `yaml:"minio_endpoint"`
	MinioAccessKey string `yaml:"minio_access_key"`
	MinioSecretKey string `yaml:"minio_secret_key"`
	MinioBucket    string `yaml:"minio_bucket"`
	MinioUseSSL    bool   `yaml:"minio_use_ssl"`
	// MinioPublicURL is the externally reachable base for cover image URLs.
	MinioPublicURL string `yaml:"minio_public_url"`

	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		ShutdownTimeout: 10 * time.Second,
		AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:3000"},
		LogLevel:        "info",
		LogFormat:       "json",
		MongoDB:         "promptflow",
		RedisAddr:       "redis:6379",
		SessionTTL:      24 * time.Hour,
		FeedCacheTTL:    30 * time.Second,
		MinioEndpoint:   "minio:9000",
		MinioBucket:     "prompts",
		MaxUploadBytes:  10 << 20,
	}
}

// Load reads CONFIG_FILE (if set) and applies environment overrides.
func Load() (*Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if cfg.MinioPublicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		cfg.MinioPublicURL = scheme + "://" + cfg.MinioEndpoint
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getenv("PORT", c.Port)
	c.ShutdownTimeout = getenvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("LOG_FORMAT", c.LogFormat)
	c.PostgresDSN = getenv("POSTGRES_DSN", c.PostgresDSN)
	c.MongoURI = getenv("MONGO_URI", c.MongoURI)
	c.MongoDB = getenv("MONGO_DB", c.MongoDB)
	c.RedisAddr = getenv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getenv("REDIS_PASSWORD", c.RedisPassword)
	c.SessionTTL = getenvDuration("SESSION_TTL", c.SessionTTL)
	c.FeedCacheTTL = getenvDuration("FEED_CACHE_TTL", c.FeedCacheTTL)
	c.MinioEndpoint = getenv("MINIO_ENDPOINT", c.MinioEndpoint)
	c.MinioAccessKey = getenv("MINIO_ACCESS_KEY", c.MinioAccessKey)
	c.MinioSecretKey = getenv("MINIO_SECRET_KEY", c.MinioSecretKey)
	c.MinioBucket = getenv("MINIO_BUCKET", c.MinioBucket)
	c.MinioUseSSL = getenvBool("MINIO_USE_SSL", c.MinioUseSSL)
	c.MinioPublicURL = getenv("MINIO_PUBLIC_URL", c.MinioPublicURL)
	c.MaxUploadBytes = getenvInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	if v, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
