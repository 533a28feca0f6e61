package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	OpenAI   OpenAIConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Export   ExportConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Name        string
	Version     string
}

type OpenAIConfig struct {
	APIKey       string
	Organization string
	Model        string
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr     string
	DB       int
	CacheTTL time.Duration
}

type ExportConfig struct {
	Dir    string
	MaxAge time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("HOST", ""),
			Port: getEnv("PORT", "8080"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Name:        getEnv("APP_NAME", "DevPlan AI Generator"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		OpenAI: OpenAIConfig{
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			Organization: getEnv("OPENAI_ORGANIZATION", ""),
			Model:        getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			BaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "devplan"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheTTL: getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
		Export: ExportConfig{
			Dir:    getEnv("EXPORT_DIR", "exports"),
			MaxAge: getEnvAsDuration("EXPORT_MAX_AGE", 24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Export.Dir == "" {
		return fmt.Errorf("EXPORT_DIR is required")
	}

	// The API key may be empty: the service starts in a degraded
	// "needs_configuration" state and generation requests are rejected.
	return nil
}

// DSN renders the pgx connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// OpenAIConfigured reports whether an API key is present.
func (c *Config) OpenAIConfigured() bool {
	return c.OpenAI.APIKey != ""
}

// CacheEnabled reports whether the redis plan cache should be used.
// Caching stays off in development.
func (c *Config) CacheEnabled() bool {
	return c.App.Environment != "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
