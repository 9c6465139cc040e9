package routing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/catalog"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/health"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/providers"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/usage"
)

const (
	// DefaultMaxAttempts bounds the failover loop per call.
	DefaultMaxAttempts = 3

	// DefaultCallTimeout bounds one adapter invocation.
	DefaultCallTimeout = 60 * time.Second
)

// Observer receives routing outcomes for metrics. All methods must be cheap
// and non-blocking.
type Observer interface {
	RequestCompleted(provider, model, status string, elapsed time.Duration)
	FailoverOccurred()
	ProviderErrored(provider, errType string)
	TokensCounted(provider, model string, usage providers.TokenUsage, costUSD float64)
}

// Coordinator drives selection, invocation, health bookkeeping and usage
// emission for every chat call.
type Coordinator struct {
	catalog     *catalog.Catalog
	tracker     *health.Tracker
	selector    *Selector
	adapters    map[string]providers.ChatProvider
	emitter     *usage.Emitter
	stats       *Stats
	observer    Observer
	maxAttempts int
	callTimeout time.Duration
	logger      *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithMaxAttempts overrides the attempt budget.
func WithMaxAttempts(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithCallTimeout overrides the per-invocation timeout.
func WithCallTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.callTimeout = d
		}
	}
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) CoordinatorOption {
	return func(c *Coordinator) { c.observer = o }
}

// WithUsageEmitter attaches a usage emitter.
func WithUsageEmitter(e *usage.Emitter) CoordinatorOption {
	return func(c *Coordinator) { c.emitter = e }
}

// NewCoordinator wires the routing core together. adapters maps provider
// names (as they appear in catalog keys) to constructed adapters; catalog
// entries for providers without an adapter are never selected.
func NewCoordinator(cat *catalog.Catalog, tracker *health.Tracker, adapters map[string]providers.ChatProvider, logger *slog.Logger, opts ...CoordinatorOption) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		catalog:     cat,
		tracker:     tracker,
		selector:    NewSelector(cat, tracker, logger),
		adapters:    adapters,
		stats:       NewStats(),
		maxAttempts: DefaultMaxAttempts,
		callTimeout: DefaultCallTimeout,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats exposes the in-memory counters.
func (c *Coordinator) Stats() *Stats { return c.stats }

// RouteChat serves one chat request with bounded failover. Selection honors
// the request priority on the first attempt and forces speed for retries.
// An explicitly requested model fails hard on its first attempt's error
// rather than silently serving from elsewhere.
func (c *Coordinator) RouteChat(ctx context.Context, req *RouteRequest) (*ChatResponse, error) {
	if len(c.adapters) == 0 {
		return nil, &MisconfigurationError{Detail: "no provider adapters configured"}
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityCost
	}

	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID, "task", string(req.Task))

	// Catalog entries whose provider has no adapter are excluded up
	// front so the budget is spent on keys that can actually serve.
	excluded := make(map[catalog.Key]struct{})
	for _, d := range c.catalog.List() {
		if _, ok := c.adapters[d.Provider]; !ok {
			excluded[d.Key()] = struct{}{}
		}
	}

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		desc, err := c.selector.Select(req, priority, excluded)
		if err != nil {
			if attempt == 1 {
				c.stats.RecordUnavailable()
				return nil, err
			}
			// Mid-loop exhaustion of candidates ends the failover
			// with the real cause of the previous failure.
			break
		}

		key := desc.Key()
		attempts++
		resp, err := c.invoke(ctx, desc, req, requestID, attempt, logger)
		if err == nil {
			c.tracker.RecordSuccess(key)
			c.stats.RecordSuccess(key, attempt)
			c.emitUsage(resp, req)
			return resp, nil
		}

		lastErr = err
		c.tracker.RecordFailure(key)
		c.stats.RecordFailure(key)
		if c.observer != nil {
			c.observer.ProviderErrored(desc.Provider, errorType(err))
		}
		logger.Warn("attempt failed",
			"attempt", attempt, "key", key.String(), "error", err)

		if req.Model != "" && req.Model == desc.Model && attempt == 1 {
			// Explicit model requests are intentional; the error is
			// not masked by failing over to a different model.
			return nil, &AttemptsExhaustedError{Attempts: attempts, LastErr: err}
		}
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return nil, &AttemptsExhaustedError{Attempts: attempts, LastErr: err}
		}

		excluded[key] = struct{}{}
		priority = PrioritySpeed
		if c.observer != nil {
			c.observer.FailoverOccurred()
		}
		c.stats.RecordFailover()
	}

	c.stats.RecordExhausted()
	return nil, &AttemptsExhaustedError{Attempts: attempts, LastErr: lastErr}
}

func (c *Coordinator) invoke(ctx context.Context, desc catalog.Descriptor, req *RouteRequest, requestID string, attempt int, logger *slog.Logger) (*ChatResponse, error) {
	adapter := c.adapters[desc.Provider]

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	start := time.Now()
	reply, err := adapter.GenerateReply(callCtx, &providers.ReplyRequest{
		Model:        desc.Model,
		SystemPrompt: req.SystemPrompt,
		UserMessage:  req.UserMessage,
	})
	elapsed := time.Since(start)

	if c.observer != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		c.observer.RequestCompleted(desc.Provider, desc.Model, status, elapsed)
	}
	if err != nil {
		return nil, err
	}

	cost := desc.CostPer1KTokens * float64(reply.Usage.TotalTokens) / 1000
	if c.observer != nil {
		c.observer.TokensCounted(desc.Provider, reply.Model, reply.Usage, cost)
	}
	logger.Info("reply served",
		"attempt", attempt,
		"provider", desc.Provider,
		"model", reply.Model,
		"total_tokens", reply.Usage.TotalTokens,
		"cost_usd", cost,
		"latency_ms", elapsed.Milliseconds())

	return &ChatResponse{
		RequestID: requestID,
		Reply:     reply.Text,
		Provider:  desc.Provider,
		Model:     reply.Model,
		Usage:     reply.Usage,
		CostUSD:   cost,
		LatencyMs: elapsed.Milliseconds(),
		Attempts:  attempt,
	}, nil
}

func (c *Coordinator) emitUsage(resp *ChatResponse, req *RouteRequest) {
	if c.emitter == nil {
		return
	}
	c.emitter.Emit(usage.NewRecord(
		resp.Provider, resp.Model,
		resp.Usage.PromptTokens, resp.Usage.CompletionTokens,
		resp.CostUSD, req.UserID, req.SessionID,
	))
}

// Close shuts down every adapter.
func (c *Coordinator) Close() error {
	var errs []error
	for name, adapter := range c.adapters {
		if err := adapter.Close(); err != nil {
			errs = append(errs, err)
			c.logger.Warn("closing adapter", "provider", name, "error", err)
		}
	}
	return errors.Join(errs...)
}

// errorType buckets an adapter error for metrics labels.
func errorType(err error) string {
	switch {
	case errors.Is(err, providers.ErrAuth):
		return "auth"
	case errors.Is(err, providers.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, providers.ErrTimeout):
		return "timeout"
	case errors.Is(err, providers.ErrModelNotFound):
		return "model_not_found"
	case errors.Is(err, providers.ErrParse):
		return "parse_error"
	case errors.Is(err, providers.ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, providers.ErrChainExhausted):
		return "chain_exhausted"
	default:
		return "provider_error"
	}
}
