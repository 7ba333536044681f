package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type nestedConfig struct {
	HTTP struct {
		Port string `yaml:"port" env:"TEST_HTTP_PORT"`
	} `yaml:"http"`
	Upstream struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"upstream"`
	Origins []string `yaml:"origins" env:"TEST_ORIGINS"`
	Debug   bool     `yaml:"debug" env:"TEST_DEBUG"`
	Ignored string   `env:"-"`
}

func TestLoadConfigFromYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := "http:\n  port: \"9000\"\nupstream:\n  url: http://api\n  timeout: 2s\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TEST_HTTP_PORT", "9100")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("TEST_ORIGINS", "a.example, b.example,,")
	t.Setenv("TEST_DEBUG", "true")
	t.Setenv("IGNORED", "nope")

	var cfg nestedConfig
	if err := LoadConfigFrom(path, &cfg); err != nil {
		t.Fatalf("LoadConfigFrom() error: %v", err)
	}

	if cfg.HTTP.Port != "9100" {
		t.Errorf("HTTP.Port = %q, want %q", cfg.HTTP.Port, "9100")
	}
	if cfg.Upstream.URL != "http://api" {
		t.Errorf("Upstream.URL = %q, want %q", cfg.Upstream.URL, "http://api")
	}
	if cfg.Upstream.Timeout != 3*time.Second {
		t.Errorf("Upstream.Timeout = %v, want 3s", cfg.Upstream.Timeout)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "b.example" {
		t.Errorf("Origins = %v, want [a.example b.example]", cfg.Origins)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.Ignored != "" {
		t.Errorf("Ignored = %q, want empty", cfg.Ignored)
	}
}

func TestLoadConfigRejectsNonPointer(t *testing.T) {
	var cfg nestedConfig
	if err := LoadConfigFrom("", cfg); err == nil {
		t.Fatal("expected error for non-pointer target")
	}
	if err := LoadConfigFrom("", nil); err == nil {
		t.Fatal("expected error for nil target")
	}
}

func TestLoadConfigBadEnvValue(t *testing.T) {
	t.Setenv("TEST_DEBUG", "maybe")
	var cfg nestedConfig
	if err := LoadConfigFrom("", &cfg); err == nil {
		t.Fatal("expected parse error for TEST_DEBUG")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg nestedConfig
	if err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}
