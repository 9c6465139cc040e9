package config

import (
	"time"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/catalog"
)

// Config is the root configuration document.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Routing   RoutingConfig   `yaml:"routing"`
	Health    HealthConfig    `yaml:"health"`
	Providers ProvidersConfig `yaml:"providers"`
	Usage     UsageConfig     `yaml:"usage"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// CatalogConfig holds the model table and optional file watching.
type CatalogConfig struct {
	Models       []catalog.Descriptor `yaml:"models"`
	QualityRanks map[string]int       `yaml:"quality_ranks"`

	// File, when set, is watched for changes and replaces the inline
	// model table at runtime.
	File          string        `yaml:"file"`
	Watch         bool          `yaml:"watch"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// RoutingConfig bounds the failover loop.
type RoutingConfig struct {
	MaxAttempts     int           `yaml:"max_attempts"`
	CallTimeout     time.Duration `yaml:"call_timeout"`
	DefaultPriority string        `yaml:"default_priority"`
}

// HealthConfig tunes the circuit breaker.
type HealthConfig struct {
	MaxFailures      int           `yaml:"max_failures"`
	FailureResetTime time.Duration `yaml:"failure_reset_time"`
	SweepSchedule    string        `yaml:"sweep_schedule"`
}

// ProvidersConfig holds per-vendor adapter settings.
type ProvidersConfig struct {
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
}

// OpenAIConfig configures the OpenAI chain adapter.
type OpenAIConfig struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	DefaultModel   string        `yaml:"default_model"`
	FallbackModels []string      `yaml:"fallback_models"`
	Timeout        time.Duration `yaml:"timeout"`
}

// AnthropicConfig configures the Anthropic primary adapter.
type AnthropicConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	DefaultModel string        `yaml:"default_model"`
	Timeout      time.Duration `yaml:"timeout"`
}

// UsageConfig selects the usage sink.
type UsageConfig struct {
	// Sink is "log", "sqlite" or "both".
	Sink       string `yaml:"sink"`
	SQLitePath string `yaml:"sqlite_path"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is json or text.
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus surface.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Path      string `yaml:"path"`
}
