package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "evdash/backend/libs/config"
)

// Session storage backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

const (
	defaultPort          = "3000"
	defaultAPIURL        = "http://localhost:8000"
	defaultAPITimeout    = 10 * time.Second
	defaultSessionTTL    = 24 * time.Hour
	defaultCookieName    = "evdash_session"
	minCookieSecretBytes = 32
	defaultToastInterval = 100 * time.Millisecond
	defaultToastLifetime = 5 * time.Second
)

// Config represents dashboard configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"DASHBOARD_HTTP_PORT"`
	} `yaml:"http"`
	API struct {
		BaseURL string        `yaml:"baseURL" env:"DASHBOARD_API_URL"`
		Timeout time.Duration `yaml:"timeout" env:"DASHBOARD_API_TIMEOUT"`
	} `yaml:"api"`
	Session struct {
		Store        string        `yaml:"store" env:"DASHBOARD_SESSION_STORE"`
		TTL          time.Duration `yaml:"ttl" env:"DASHBOARD_SESSION_TTL"`
		CookieName   string        `yaml:"cookieName" env:"DASHBOARD_COOKIE_NAME"`
		CookieSecret string        `yaml:"cookieSecret" env:"DASHBOARD_COOKIE_SECRET"`
		CookieSecure bool          `yaml:"cookieSecure" env:"DASHBOARD_COOKIE_SECURE"`
	} `yaml:"session"`
	Redis struct {
		Addr     string `yaml:"addr" env:"DASHBOARD_REDIS_ADDR"`
		Password string `yaml:"password" env:"DASHBOARD_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"DASHBOARD_REDIS_DB"`
	} `yaml:"redis"`
	Toast struct {
		Interval time.Duration `yaml:"interval" env:"DASHBOARD_TOAST_INTERVAL"`
		Lifetime time.Duration `yaml:"lifetime" env:"DASHBOARD_TOAST_LIFETIME"`
	} `yaml:"toast"`
	Terminal struct {
		SessionFile string `yaml:"sessionFile" env:"EVADMIN_SESSION_FILE"`
		LogFile     string `yaml:"logFile" env:"EVADMIN_LOG_FILE"`
	} `yaml:"terminal"`
}

func defaults() *Config {
	cfg := &Config{}
	cfg.HTTP.Port = defaultPort
	cfg.API.BaseURL = defaultAPIURL
	cfg.API.Timeout = defaultAPITimeout
	cfg.Session.Store = SessionStoreMemory
	cfg.Session.TTL = defaultSessionTTL
	cfg.Session.CookieName = defaultCookieName
	cfg.Toast.Interval = defaultToastInterval
	cfg.Toast.Lifetime = defaultToastLifetime
	return cfg
}

// Load reads the web dashboard configuration. The cookie secret is required.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateWeb(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTerminal reads the configuration for the terminal front-end, which needs no cookie or
// redis settings.
func LoadTerminal() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	cfg := defaults()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		return errors.New("config: api base url is required")
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = defaultAPITimeout
	}
	if c.Toast.Interval <= 0 {
		c.Toast.Interval = defaultToastInterval
	}
	if c.Toast.Lifetime < c.Toast.Interval {
		c.Toast.Lifetime = defaultToastLifetime
	}
	return nil
}

func (c *Config) validateWeb() error {
	if len(c.Session.CookieSecret) < minCookieSecretBytes {
		return fmt.Errorf("config: cookie secret must be at least %d bytes", minCookieSecretBytes)
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = defaultSessionTTL
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = defaultCookieName
	}
	switch strings.ToLower(strings.TrimSpace(c.Session.Store)) {
	case "", SessionStoreMemory:
		c.Session.Store = SessionStoreMemory
	case SessionStoreRedis:
		c.Session.Store = SessionStoreRedis
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return errors.New("config: redis addr is required for the redis session store")
		}
	default:
		return fmt.Errorf("config: unknown session store %q", c.Session.Store)
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

// CookieMaxAge is the session TTL in whole seconds.
func (c *Config) CookieMaxAge() int {
	return int(c.Session.TTL / time.Second)
}
