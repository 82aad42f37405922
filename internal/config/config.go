package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port         int    `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"dietint.db"`
	JWTSecret    string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	// Relay tunables: soft cap per consultation log and the per-user
	// send_message budget per minute.
	RelayLogCap       int `env:"RELAY_LOG_CAP" envDefault:"500"`
	SendRateLimit     int `env:"SEND_RATE_LIMIT" envDefault:"60"`
	SendRateWindowSec int `env:"SEND_RATE_WINDOW_SECONDS" envDefault:"60"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) SendRateWindow() time.Duration {
	return time.Duration(c.SendRateWindowSec) * time.Second
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate(isProduction bool) error {
	if !isProduction {
		return nil
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production (generate with: openssl rand -base64 32)")
	}
	for _, weak := range knownWeakSecrets {
		if c.JWTSecret == weak {
			return fmt.Errorf("JWT_SECRET is a known weak default; set a strong secret in production")
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
