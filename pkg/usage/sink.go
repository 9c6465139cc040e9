package usage

import (
	"context"
	"errors"
	"log/slog"
)

// LogSink writes each record as one structured log line. It is the default
// sink for deployments without a usage database.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink builds a log sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Write implements Sink.
func (s *LogSink) Write(_ context.Context, rec *Record) error {
	s.logger.Info("usage recorded",
		"id", rec.ID,
		"provider", rec.Provider,
		"model", rec.Model,
		"prompt_tokens", rec.PromptTokens,
		"completion_tokens", rec.CompletionTokens,
		"total_tokens", rec.TotalTokens,
		"cost_usd", rec.CostUSD,
		"user_id", rec.UserID,
		"session_id", rec.SessionID,
	)
	return nil
}

// Close implements Sink.
func (s *LogSink) Close() error { return nil }

// MultiSink fans one record out to several sinks, attempting all of them even
// when some fail.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink wraps the given sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Write implements Sink.
func (s *MultiSink) Write(ctx context.Context, rec *Record) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close implements Sink.
func (s *MultiSink) Close() error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
