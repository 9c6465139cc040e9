package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
	if cfg.Routing.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("expected default attempts, got %d", cfg.Routing.MaxAttempts)
	}
	if cfg.Health.FailureResetTime != 5*time.Minute {
		t.Errorf("expected 5m reset, got %s", cfg.Health.FailureResetTime)
	}
	if len(cfg.Catalog.Models) == 0 {
		t.Error("expected builtin catalog")
	}
	if cfg.Providers.OpenAI.APIKey != "sk-test" {
		t.Error("expected vendor env var to populate API key")
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	path := writeConfig(t, `
server:
  port: 9090
routing:
  max_attempts: 5
  default_priority: quality
catalog:
  models:
    - provider: anthropic
      model: claude-3-5-sonnet-20241022
      cost_per_1k_tokens: 0.009
      avg_latency_ms: 1500
  quality_ranks:
    claude-3-5-sonnet-20241022: 10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Routing.MaxAttempts != 5 {
		t.Errorf("expected 5 attempts, got %d", cfg.Routing.MaxAttempts)
	}
	if cfg.Routing.DefaultPriority != "quality" {
		t.Errorf("expected quality priority, got %s", cfg.Routing.DefaultPriority)
	}
	if len(cfg.Catalog.Models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(cfg.Catalog.Models))
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TUTOR_SERVER_PORT", "7070")
	t.Setenv("TUTOR_LOG_LEVEL", "debug")
	path := writeConfig(t, "server:\n  port: 9090\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("expected env port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env log level, got %s", cfg.Logging.Level)
	}
}

func TestPrefixedKeyBeatsVendorKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "vendor")
	t.Setenv("TUTOR_OPENAI_API_KEY", "prefixed")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Providers.OpenAI.APIKey != "prefixed" {
		t.Errorf("expected prefixed key to win, got %s", cfg.Providers.OpenAI.APIKey)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"bad port", func(c *Config) { c.Server.Port = -1 }, "port"},
		{"zero attempts", func(c *Config) { c.Routing.MaxAttempts = -1 }, "max_attempts"},
		{"bad priority", func(c *Config) { c.Routing.DefaultPriority = "cheap" }, "default_priority"},
		{"bad sink", func(c *Config) { c.Usage.Sink = "kafka" }, "usage.sink"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad schedule", func(c *Config) { c.Health.SweepSchedule = "whenever" }, "sweep_schedule"},
		{"no keys", func(c *Config) { c.Providers.OpenAI.APIKey = ""; c.Providers.Anthropic.APIKey = "" }, "API key"},
		{"duplicate model", func(c *Config) {
			c.Catalog.Models = append(c.Catalog.Models, c.Catalog.Models[0])
		}, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.ApplyDefaults()
			cfg.Providers.OpenAI.APIKey = "sk-test"
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q missing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
