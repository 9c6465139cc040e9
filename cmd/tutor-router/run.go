package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/catalog"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/config"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/health"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/providers"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/providers/anthropic"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/providers/openai"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/routing"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/server"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/telemetry/logging"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/telemetry/metrics"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/usage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the router",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := logging.Setup(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}

	cat, err := catalog.New(cfg.Catalog.Models, cfg.Catalog.QualityRanks)
	if err != nil {
		return fmt.Errorf("building catalog: %w", err)
	}

	tracker := health.NewTracker(
		health.WithMaxFailures(cfg.Health.MaxFailures),
		health.WithFailureResetTime(cfg.Health.FailureResetTime),
		health.WithLogger(logger),
	)

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace)
	}

	adapters, err := buildAdapters(cfg, logger)
	if err != nil {
		return err
	}
	if len(adapters) == 0 {
		return fmt.Errorf("no provider adapters configured; set at least one API key")
	}

	sink, err := buildSink(cfg, logger)
	if err != nil {
		return err
	}
	var onDrop func()
	if collector != nil {
		onDrop = collector.UsageDropped
	}
	emitter := usage.NewEmitter(sink, logger, onDrop)

	opts := []routing.CoordinatorOption{
		routing.WithMaxAttempts(cfg.Routing.MaxAttempts),
		routing.WithCallTimeout(cfg.Routing.CallTimeout),
		routing.WithUsageEmitter(emitter),
	}
	if collector != nil {
		opts = append(opts, routing.WithObserver(collector))
	}
	coordinator := routing.NewCoordinator(cat, tracker, adapters, logger, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Catalog.Watch && cfg.Catalog.File != "" {
		watcher, err := catalog.NewWatcher(cat, cfg.Catalog.File, cfg.Catalog.WatchDebounce, logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	var publish func(map[catalog.Key]health.State)
	if collector != nil {
		publish = collector.PublishHealth
	}
	sweeper, err := health.NewSweeper(tracker, cfg.Health.SweepSchedule, publish, logger)
	if err != nil {
		return err
	}
	if err := sweeper.Start(); err != nil {
		return err
	}
	defer sweeper.Stop()

	defaultPriority, err := routing.ParsePriority(cfg.Routing.DefaultPriority)
	if err != nil {
		return err
	}
	srvOpts := server.Options{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MetricsPath:     cfg.Metrics.Path,
		DefaultPriority: defaultPriority,
	}
	if collector != nil {
		srvOpts.MetricsHandler = collector.Handler()
	}
	srv := server.New(coordinator, &server.BreakerReporter{Tracker: tracker}, srvOpts, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}
	if err := coordinator.Close(); err != nil {
		logger.Warn("closing adapters", "error", err)
	}
	if err := emitter.Close(); err != nil {
		logger.Warn("closing usage emitter", "error", err)
	}
	return nil
}

func buildAdapters(cfg *config.Config, logger *slog.Logger) (map[string]providers.ChatProvider, error) {
	adapters := make(map[string]providers.ChatProvider)
	if cfg.Providers.OpenAI.APIKey != "" {
		p, err := openai.New(openai.Config{
			APIKey:       cfg.Providers.OpenAI.APIKey,
			BaseURL:      cfg.Providers.OpenAI.BaseURL,
			DefaultModel: cfg.Providers.OpenAI.DefaultModel,
			Fallbacks:    cfg.Providers.OpenAI.FallbackModels,
			Timeout:      cfg.Providers.OpenAI.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		adapters[openai.ProviderName] = p
	}
	if cfg.Providers.Anthropic.APIKey != "" {
		p, err := anthropic.New(anthropic.Config{
			APIKey:       cfg.Providers.Anthropic.APIKey,
			BaseURL:      cfg.Providers.Anthropic.BaseURL,
			DefaultModel: cfg.Providers.Anthropic.DefaultModel,
			Timeout:      cfg.Providers.Anthropic.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		adapters[anthropic.ProviderName] = p
	}
	return adapters, nil
}

func buildSink(cfg *config.Config, logger *slog.Logger) (usage.Sink, error) {
	switch cfg.Usage.Sink {
	case "sqlite":
		return usage.NewSQLiteSink(cfg.Usage.SQLitePath)
	case "both":
		sqlite, err := usage.NewSQLiteSink(cfg.Usage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return usage.NewMultiSink(usage.NewLogSink(logger), sqlite), nil
	default:
		return usage.NewLogSink(logger), nil
	}
}
