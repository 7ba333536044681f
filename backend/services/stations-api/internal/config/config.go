package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "evdash/backend/libs/config"
)

const (
	defaultPort            = "8000"
	defaultJWTExpiresIn    = 24 * 60
	defaultPerPage         = 50
	maxPerPage             = 100
	defaultMaxRequestBytes = 1 << 20
)

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port            string `yaml:"port" env:"STATIONS_HTTP_PORT"`
		MaxRequestBytes int64  `yaml:"maxRequestBytes" env:"STATIONS_HTTP_MAX_REQUEST_BYTES"`
	} `yaml:"http"`
	Database struct {
		DSN         string `yaml:"dsn" env:"STATIONS_POSTGRES_DSN"`
		ApplySchema bool   `yaml:"applySchema" env:"STATIONS_APPLY_SCHEMA"`
	} `yaml:"database"`
	JWT struct {
		Secret           string `yaml:"secret" env:"STATIONS_JWT_SECRET"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"STATIONS_JWT_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
	Pagination struct {
		DefaultPerPage int `yaml:"defaultPerPage" env:"STATIONS_DEFAULT_PER_PAGE"`
		MaxPerPage     int `yaml:"maxPerPage" env:"STATIONS_MAX_PER_PAGE"`
	} `yaml:"pagination"`
	BcryptCost int `yaml:"bcryptCost" env:"STATIONS_BCRYPT_COST"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = defaultPort
	cfg.HTTP.MaxRequestBytes = defaultMaxRequestBytes
	cfg.Database.ApplySchema = true
	cfg.JWT.ExpiresInMinutes = defaultJWTExpiresIn
	cfg.Pagination.DefaultPerPage = defaultPerPage
	cfg.Pagination.MaxPerPage = maxPerPage

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database DSN is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("config: jwt secret is required")
	}
	if c.JWT.ExpiresInMinutes <= 0 {
		c.JWT.ExpiresInMinutes = defaultJWTExpiresIn
	}
	if c.HTTP.MaxRequestBytes <= 0 {
		c.HTTP.MaxRequestBytes = defaultMaxRequestBytes
	}
	if c.Pagination.MaxPerPage <= 0 || c.Pagination.MaxPerPage > maxPerPage {
		c.Pagination.MaxPerPage = maxPerPage
	}
	if c.Pagination.DefaultPerPage <= 0 || c.Pagination.DefaultPerPage > c.Pagination.MaxPerPage {
		c.Pagination.DefaultPerPage = defaultPerPage
	}
	if c.Pagination.DefaultPerPage > c.Pagination.MaxPerPage {
		c.Pagination.DefaultPerPage = c.Pagination.MaxPerPage
	}
	return nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = defaultPort
	}
	if strings.Contains(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInMinutes <= 0 {
		return time.Duration(defaultJWTExpiresIn) * time.Minute
	}
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}
