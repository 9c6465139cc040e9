package config

import (
	"time"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/catalog"
)

// Default constants applied by ApplyDefaults.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultMaxAttempts = 3
	DefaultCallTimeout = 60 * time.Second
	DefaultPriority    = "cost"

	DefaultMaxFailures      = 3
	DefaultFailureResetTime = 5 * time.Minute
	DefaultSweepSchedule    = "* * * * *"

	DefaultUsageSink     = "log"
	DefaultSQLitePath    = "usage.db"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultMetricsNS     = "tutor_router"
	DefaultMetricsPath   = "/metrics"
	DefaultWatchDebounce = 500 * time.Millisecond
)

// defaultModels is the builtin catalog used when the file configures none.
func defaultModels() []catalog.Descriptor {
	return []catalog.Descriptor{
		{Provider: "openai", Model: "gpt-4o-mini", CostPer1KTokens: 0.0006, AvgLatencyMs: 600},
		{Provider: "openai", Model: "gpt-4o", CostPer1KTokens: 0.0050, AvgLatencyMs: 1200},
		{Provider: "anthropic", Model: "claude-3-5-haiku-20241022", CostPer1KTokens: 0.0024, AvgLatencyMs: 500},
		{Provider: "anthropic", Model: "claude-3-5-sonnet-20241022", CostPer1KTokens: 0.0090, AvgLatencyMs: 1500},
	}
}

// defaultQualityRanks orders the builtin catalog, best first.
func defaultQualityRanks() map[string]int {
	return map[string]int{
		"claude-3-5-sonnet-20241022": 10,
		"gpt-4o":                     8,
		"claude-3-5-haiku-20241022":  5,
		"gpt-4o-mini":                4,
	}
}

// ApplyDefaults fills every zero-valued field with its default so that the
// rest of the program never re-checks for missing settings.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if len(c.Catalog.Models) == 0 {
		c.Catalog.Models = defaultModels()
	}
	if len(c.Catalog.QualityRanks) == 0 {
		c.Catalog.QualityRanks = defaultQualityRanks()
	}
	if c.Catalog.WatchDebounce == 0 {
		c.Catalog.WatchDebounce = DefaultWatchDebounce
	}

	if c.Routing.MaxAttempts == 0 {
		c.Routing.MaxAttempts = DefaultMaxAttempts
	}
	if c.Routing.CallTimeout == 0 {
		c.Routing.CallTimeout = DefaultCallTimeout
	}
	if c.Routing.DefaultPriority == "" {
		c.Routing.DefaultPriority = DefaultPriority
	}

	if c.Health.MaxFailures == 0 {
		c.Health.MaxFailures = DefaultMaxFailures
	}
	if c.Health.FailureResetTime == 0 {
		c.Health.FailureResetTime = DefaultFailureResetTime
	}
	if c.Health.SweepSchedule == "" {
		c.Health.SweepSchedule = DefaultSweepSchedule
	}

	if c.Usage.Sink == "" {
		c.Usage.Sink = DefaultUsageSink
	}
	if c.Usage.SQLitePath == "" {
		c.Usage.SQLitePath = DefaultSQLitePath
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNS
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
