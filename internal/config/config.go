// Package config loads application configuration from YAML or environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Spotify    SpotifyConfig    `yaml:"spotify"`
	Completion CompletionConfig `yaml:"completion"`
	Taste      TasteConfig      `yaml:"taste"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"SERVER_ADDR"             env-default:"0.0.0.0:8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
}

// SpotifyConfig holds credentials for the primary catalog provider.
type SpotifyConfig struct {
	ClientID     string        `yaml:"client_id"     env:"SPOTIFY_ID"     env-required:"true"`
	ClientSecret string        `yaml:"client_secret" env:"SPOTIFY_SECRET" env-required:"true"`
	TokenMargin  time.Duration `yaml:"token_margin"  env:"SPOTIFY_TOKEN_MARGIN" env-default:"30s"`
}

// CompletionConfig holds settings for the completion service.
type CompletionConfig struct {
	APIKey string `yaml:"api_key" env:"COMPLETION_API_KEY" env-required:"true"`
	Model  string `yaml:"model"   env:"COMPLETION_MODEL"   env-default:"claude-sonnet-4-5"`
}

// TasteConfig holds taste-pipeline tuning knobs.
type TasteConfig struct {
	WindowSize int `yaml:"window_size" env:"TASTE_WINDOW_SIZE" env-default:"5"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Load reads configuration from the given YAML file if it exists, falling
// back to environment variables only when path is empty.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading config from environment: %w", err)
	}
	return &cfg, nil
}
