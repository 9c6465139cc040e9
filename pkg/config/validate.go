package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

var validPriorities = map[string]bool{"cost": true, "speed": true, "quality": true}
var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
var validLogFormats = map[string]bool{"json": true, "text": true}
var validSinks = map[string]bool{"log": true, "sqlite": true, "both": true}

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if len(c.Catalog.Models) == 0 {
		return fmt.Errorf("catalog.models must not be empty")
	}
	seen := map[string]bool{}
	for _, d := range c.Catalog.Models {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		k := d.Key().String()
		if seen[k] {
			return fmt.Errorf("catalog: duplicate entry %s", k)
		}
		seen[k] = true
	}

	if c.Routing.MaxAttempts < 1 {
		return fmt.Errorf("routing.max_attempts must be at least 1")
	}
	if c.Routing.CallTimeout <= 0 {
		return fmt.Errorf("routing.call_timeout must be positive")
	}
	if !validPriorities[c.Routing.DefaultPriority] {
		return fmt.Errorf("routing.default_priority %q must be cost, speed or quality", c.Routing.DefaultPriority)
	}

	if c.Health.MaxFailures < 1 {
		return fmt.Errorf("health.max_failures must be at least 1")
	}
	if c.Health.FailureResetTime <= 0 {
		return fmt.Errorf("health.failure_reset_time must be positive")
	}
	if _, err := cron.ParseStandard(c.Health.SweepSchedule); err != nil {
		return fmt.Errorf("health.sweep_schedule: %w", err)
	}

	if !validSinks[c.Usage.Sink] {
		return fmt.Errorf("usage.sink %q must be log, sqlite or both", c.Usage.Sink)
	}
	if c.Usage.Sink != "log" && c.Usage.SQLitePath == "" {
		return fmt.Errorf("usage.sqlite_path required for sink %q", c.Usage.Sink)
	}

	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format %q must be json or text", c.Logging.Format)
	}

	if c.Providers.OpenAI.APIKey == "" && c.Providers.Anthropic.APIKey == "" {
		return fmt.Errorf("at least one provider API key must be configured")
	}
	return nil
}
