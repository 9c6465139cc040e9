package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces the environment overrides.
const EnvPrefix = "TUTOR_"

// Load reads, defaults, env-overlays and validates a configuration file.
// An empty path yields a pure defaults-plus-environment configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.ApplyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration. API keys
// also honor the vendors' conventional variable names so that a deployment
// can reuse existing secrets without renaming them.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvPrefix + "SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv(EnvPrefix + "SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvPrefix + "DEFAULT_PRIORITY"); v != "" {
		c.Routing.DefaultPriority = v
	}
	if v := os.Getenv(EnvPrefix + "USAGE_SINK"); v != "" {
		c.Usage.Sink = v
	}
	if v := os.Getenv(EnvPrefix + "USAGE_SQLITE_PATH"); v != "" {
		c.Usage.SQLitePath = v
	}

	if v := os.Getenv(EnvPrefix + "OPENAI_API_KEY"); v != "" {
		c.Providers.OpenAI.APIKey = v
	} else if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Providers.OpenAI.APIKey == "" {
		c.Providers.OpenAI.APIKey = v
	}
	if v := os.Getenv(EnvPrefix + "ANTHROPIC_API_KEY"); v != "" {
		c.Providers.Anthropic.APIKey = v
	} else if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.Providers.Anthropic.APIKey == "" {
		c.Providers.Anthropic.APIKey = v
	}
}
