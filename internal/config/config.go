// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/logger"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Timeouts  TimeoutConfig
	Cache     CacheConfig
	Providers ProvidersConfig
	AI        AIConfig
	Logging   logger.Config
	App       AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
}

// TimeoutConfig holds the aggregation deadlines.
type TimeoutConfig struct {
	GlobalSearch time.Duration `env:"TIMEOUT_GLOBAL_SEARCH" envDefault:"5s"`
	PerProvider  time.Duration `env:"TIMEOUT_PER_PROVIDER" envDefault:"2s"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	TTL    time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	Shards int           `env:"CACHE_SHARDS" envDefault:"16"`
}

// ProvidersConfig points at the provider catalog.
type ProvidersConfig struct {
	File            string `env:"PROVIDERS_FILE" envDefault:"config/providers.yaml"`
	DefaultCurrency string `env:"DEFAULT_CURRENCY" envDefault:"USD"`
}

// AIConfig holds settings for the simulated fallback providers.
type AIConfig struct {
	Enabled bool   `env:"AI_FALLBACK_ENABLED" envDefault:"false"`
	APIKey  string `env:"ANTHROPIC_API_KEY"`
	Model   string `env:"AI_MODEL" envDefault:"claude-3-5-haiku-latest"`
	BaseURL string `env:"AI_BASE_URL" envDefault:"https://api.anthropic.com"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout},
		{"TIMEOUT_GLOBAL_SEARCH", cfg.Timeouts.GlobalSearch},
		{"TIMEOUT_PER_PROVIDER", cfg.Timeouts.PerProvider},
		{"CACHE_TTL", cfg.Cache.TTL},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive", p.name)
		}
	}

	if cfg.Timeouts.PerProvider >= cfg.Timeouts.GlobalSearch {
		return fmt.Errorf("TIMEOUT_PER_PROVIDER (%s) should be less than TIMEOUT_GLOBAL_SEARCH (%s)",
			cfg.Timeouts.PerProvider, cfg.Timeouts.GlobalSearch)
	}

	if cfg.Cache.Shards < 1 || cfg.Cache.Shards > 256 {
		return fmt.Errorf("CACHE_SHARDS must be between 1 and 256, got %d", cfg.Cache.Shards)
	}

	if cfg.Providers.File == "" {
		return fmt.Errorf("PROVIDERS_FILE must not be empty")
	}
	if !currencyRegex.MatchString(cfg.Providers.DefaultCurrency) {
		return fmt.Errorf("DEFAULT_CURRENCY must be a 3-letter uppercase ISO 4217 code, got %q", cfg.Providers.DefaultCurrency)
	}

	if cfg.AI.Enabled && cfg.AI.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when AI_FALLBACK_ENABLED is true")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
