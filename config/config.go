// ABOUTME: This file implements configuration management with environment variable support
// ABOUTME: Provides validation and defaults for every pipeline component
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig     `json:"server"`
	HTTP       HTTPConfig       `json:"http"`
	Database   DatabaseConfig   `json:"database"`
	Storage    StorageConfig    `json:"storage"`
	Translator TranslatorConfig `json:"translator"`
	Generator  GeneratorConfig  `json:"generator"`
	Ingest     IngestConfig     `json:"ingest"`
	Cache      CacheConfig      `json:"cache"`
	Retry      RetryConfig      `json:"retry"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"9300"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"300s"` // Batch stage runs can be slow
}

type HTTPConfig struct {
	Timeout   time.Duration `json:"timeout" env:"HTTP_TIMEOUT" default:"30s"`
	UserAgent string        `json:"user_agent" env:"HTTP_USER_AGENT" default:"Mozilla/5.0 (compatible; NewsOptimizerBot/1.0)"`
}

type DatabaseConfig struct {
	Host            string        `json:"host" env:"DB_HOST" default:"localhost"`
	Port            string        `json:"port" env:"DB_PORT" default:"5432"`
	User            string        `json:"user" env:"DB_USER" default:"news_optimizer"`
	Password        string        `json:"-" env:"DB_PASSWORD"`
	Name            string        `json:"name" env:"DB_NAME" default:"news_optimizer"`
	MaxConns        int32         `json:"max_conns" env:"DB_MAX_CONNS" default:"20"`
	MinConns        int32         `json:"min_conns" env:"DB_MIN_CONNS" default:"5"`
	MaxConnLifetime time.Duration `json:"max_conn_lifetime" env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

type StorageConfig struct {
	Host    string        `json:"host" env:"MEDIA_STORAGE_HOST" default:"http://media-storage:9400"`
	APIPath string        `json:"api_path" env:"MEDIA_STORAGE_API_PATH" default:"/api/v1/media"`
	Timeout time.Duration `json:"timeout" env:"MEDIA_STORAGE_TIMEOUT" default:"60s"`
}

type TranslatorConfig struct {
	Host       string        `json:"host" env:"TRANSLATOR_HOST" default:"https://api-free.deepl.com"`
	TargetLang string        `json:"target_lang" env:"TRANSLATOR_TARGET_LANG" default:"TR"`
	Timeout    time.Duration `json:"timeout" env:"TRANSLATOR_TIMEOUT" default:"120s"`
}

type GeneratorConfig struct {
	Host    string        `json:"host" env:"GENERATOR_HOST" default:"https://generativelanguage.googleapis.com"`
	Model   string        `json:"model" env:"GENERATOR_MODEL" default:"gemini-1.5-flash-latest"`
	Timeout time.Duration `json:"timeout" env:"GENERATOR_TIMEOUT" default:"240s"` // Generative calls are slow
}

type IngestConfig struct {
	SiteID              string        `json:"site_id" env:"SITE_ID" default:"default"`
	MaxImagesPerArticle int           `json:"max_images_per_article" env:"INGEST_MAX_IMAGES" default:"10"`
	MaxImageBytes       int64         `json:"max_image_bytes" env:"INGEST_MAX_IMAGE_BYTES" default:"10485760"`
	MediaTimeout        time.Duration `json:"media_timeout" env:"INGEST_MEDIA_TIMEOUT" default:"30s"`
	FetchEmptyBodies    bool          `json:"fetch_empty_bodies" env:"INGEST_FETCH_EMPTY_BODIES" default:"true"`
}

type CacheConfig struct {
	Enabled  bool          `json:"enabled" env:"CACHE_ENABLED" default:"false"`
	RedisURL string        `json:"redis_url" env:"CACHE_REDIS_URL" default:"redis://localhost:6379"`
	TTL      time.Duration `json:"ttl" env:"CACHE_TTL" default:"24h"`
}

type RetryConfig struct {
	MaxAttempts   int           `json:"max_attempts" env:"RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelay     time.Duration `json:"base_delay" env:"RETRY_BASE_DELAY" default:"1s"`
	MaxDelay      time.Duration `json:"max_delay" env:"RETRY_MAX_DELAY" default:"30s"`
	BackoffFactor float64       `json:"backoff_factor" env:"RETRY_BACKOFF_FACTOR" default:"2.0"`
	JitterFactor  float64       `json:"jitter_factor" env:"RETRY_JITTER_FACTOR" default:"0.1"`
}

func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) error {
	var err error

	// Server config
	if config.Server.Port, err = envInt("SERVER_PORT", 9300); err != nil {
		return err
	}
	if config.Server.ShutdownTimeout, err = envDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	if config.Server.ReadTimeout, err = envDuration("SERVER_READ_TIMEOUT", 10*time.Second); err != nil {
		return err
	}
	if config.Server.WriteTimeout, err = envDuration("SERVER_WRITE_TIMEOUT", 300*time.Second); err != nil {
		return err
	}

	// HTTP client config
	if config.HTTP.Timeout, err = envDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	config.HTTP.UserAgent = envString("HTTP_USER_AGENT", "Mozilla/5.0 (compatible; NewsOptimizerBot/1.0)")

	// Database config
	config.Database.Host = envString("DB_HOST", "localhost")
	config.Database.Port = envString("DB_PORT", "5432")
	config.Database.User = envString("DB_USER", "news_optimizer")
	config.Database.Password = os.Getenv("DB_PASSWORD")
	config.Database.Name = envString("DB_NAME", "news_optimizer")

	maxConns, err := envInt("DB_MAX_CONNS", 20)
	if err != nil {
		return err
	}
	config.Database.MaxConns = int32(maxConns)

	minConns, err := envInt("DB_MIN_CONNS", 5)
	if err != nil {
		return err
	}
	config.Database.MinConns = int32(minConns)

	if config.Database.MaxConnLifetime, err = envDuration("DB_MAX_CONN_LIFETIME", time.Hour); err != nil {
		return err
	}

	// Media storage config
	config.Storage.Host = envString("MEDIA_STORAGE_HOST", "http://media-storage:9400")
	config.Storage.APIPath = envString("MEDIA_STORAGE_API_PATH", "/api/v1/media")
	if config.Storage.Timeout, err = envDuration("MEDIA_STORAGE_TIMEOUT", 60*time.Second); err != nil {
		return err
	}

	// Translator config
	config.Translator.Host = envString("TRANSLATOR_HOST", "https://api-free.deepl.com")
	config.Translator.TargetLang = envString("TRANSLATOR_TARGET_LANG", "TR")
	if config.Translator.Timeout, err = envDuration("TRANSLATOR_TIMEOUT", 120*time.Second); err != nil {
		return err
	}

	// Generator config
	config.Generator.Host = envString("GENERATOR_HOST", "https://generativelanguage.googleapis.com")
	config.Generator.Model = envString("GENERATOR_MODEL", "gemini-1.5-flash-latest")
	if config.Generator.Timeout, err = envDuration("GENERATOR_TIMEOUT", 240*time.Second); err != nil {
		return err
	}

	// Ingest config
	config.Ingest.SiteID = envString("SITE_ID", "default")
	if config.Ingest.MaxImagesPerArticle, err = envInt("INGEST_MAX_IMAGES", 10); err != nil {
		return err
	}

	maxImageBytes, err := envInt("INGEST_MAX_IMAGE_BYTES", 10*1024*1024)
	if err != nil {
		return err
	}
	config.Ingest.MaxImageBytes = int64(maxImageBytes)

	if config.Ingest.MediaTimeout, err = envDuration("INGEST_MEDIA_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	if config.Ingest.FetchEmptyBodies, err = envBool("INGEST_FETCH_EMPTY_BODIES", true); err != nil {
		return err
	}

	// Cache config
	if config.Cache.Enabled, err = envBool("CACHE_ENABLED", false); err != nil {
		return err
	}
	config.Cache.RedisURL = envString("CACHE_REDIS_URL", "redis://localhost:6379")
	if config.Cache.TTL, err = envDuration("CACHE_TTL", 24*time.Hour); err != nil {
		return err
	}

	// Retry config
	if config.Retry.MaxAttempts, err = envInt("RETRY_MAX_ATTEMPTS", 3); err != nil {
		return err
	}
	if config.Retry.BaseDelay, err = envDuration("RETRY_BASE_DELAY", time.Second); err != nil {
		return err
	}
	if config.Retry.MaxDelay, err = envDuration("RETRY_MAX_DELAY", 30*time.Second); err != nil {
		return err
	}
	if config.Retry.BackoffFactor, err = envFloat("RETRY_BACKOFF_FACTOR", 2.0); err != nil {
		return err
	}
	if config.Retry.JitterFactor, err = envFloat("RETRY_JITTER_FACTOR", 0.1); err != nil {
		return err
	}

	return nil
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.HTTP.Timeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive: %v", config.HTTP.Timeout)
	}

	if config.Storage.Host == "" {
		return fmt.Errorf("media storage host cannot be empty")
	}

	if config.Translator.Host == "" {
		return fmt.Errorf("translator host cannot be empty")
	}

	if config.Translator.TargetLang == "" {
		return fmt.Errorf("translator target language cannot be empty")
	}

	if config.Generator.Host == "" {
		return fmt.Errorf("generator host cannot be empty")
	}

	if config.Generator.Model == "" {
		return fmt.Errorf("generator model cannot be empty")
	}

	if config.Ingest.SiteID == "" {
		return fmt.Errorf("site ID cannot be empty")
	}

	if config.Ingest.MaxImagesPerArticle < 0 {
		return fmt.Errorf("max images per article must be non-negative: %d", config.Ingest.MaxImagesPerArticle)
	}

	if config.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry max attempts must be positive: %d", config.Retry.MaxAttempts)
	}

	if config.Retry.BackoffFactor <= 1.0 {
		return fmt.Errorf("backoff factor must be greater than 1.0: %f", config.Retry.BackoffFactor)
	}

	if config.Cache.Enabled && config.Cache.RedisURL == "" {
		return fmt.Errorf("cache enabled but no redis URL configured")
	}

	return nil
}

func envString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}

	return parsed, nil
}

func envFloat(key string, defaultValue float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}

	return parsed, nil
}

func envBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, v)
	}

	return parsed, nil
}

func envDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}

	return parsed, nil
}
