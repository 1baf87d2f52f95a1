// Package config loads server and client settings from SEEDFUND_* variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server configures cmd/server.
type Server struct {
	Port     int    `env:"SEEDFUND_PORT"      envDefault:"8080"`
	DBPath   string `env:"SEEDFUND_DB_PATH"   envDefault:"./data/seedfund.db"`
	LogLevel string `env:"SEEDFUND_LOG_LEVEL" envDefault:"info"`

	JWTSecret string        `env:"SEEDFUND_JWT_SECRET"`
	TokenTTL  time.Duration `env:"SEEDFUND_TOKEN_TTL" envDefault:"24h"`

	RedisAddr     string        `env:"SEEDFUND_REDIS_ADDR"`
	RedisPassword string        `env:"SEEDFUND_REDIS_PASSWORD"`
	RedisDB       int           `env:"SEEDFUND_REDIS_DB"  envDefault:"0"`
	CacheTTL      time.Duration `env:"SEEDFUND_CACHE_TTL" envDefault:"5m"`

	PageSize int `env:"SEEDFUND_PAGE_SIZE" envDefault:"9"`
}

// Client configures cmd/fundctl.
type Client struct {
	ServerURL string `env:"SEEDFUND_SERVER_URL" envDefault:"http://localhost:8080"`
	Token     string `env:"SEEDFUND_TOKEN"`
	LogLevel  string `env:"SEEDFUND_LOG_LEVEL" envDefault:"warn"`

	// Wizard step-validity gate, off unless asked for.
	ValidateSteps     bool `env:"SEEDFUND_WIZARD_VALIDATE_STEPS"     envDefault:"false"`
	StrictPersistence bool `env:"SEEDFUND_WIZARD_STRICT_PERSISTENCE" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServer parses and validates the server configuration.
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot start with.
func (c Server) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("SEEDFUND_JWT_SECRET is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("invalid page size %d", c.PageSize))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid token ttl %s", c.TokenTTL))
	}
	return errors.Join(errs...)
}

// Addr is the listen address.
func (c Server) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LoadClient parses the fundctl configuration.
func LoadClient() (Client, error) {
	var cfg Client
	if err := ParseEnv(&cfg); err != nil {
		return Client{}, err
	}
	return cfg, nil
}
