// Package metrics exposes the router's Prometheus instrumentation. A
// Collector owns every metric and implements routing.Observer so the
// coordinator stays free of prometheus imports beyond the interface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/catalog"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/health"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/providers"
)

// Collector registers and updates all router metrics on one registry.
type Collector struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	tokens         *prometheus.CounterVec
	cost           *prometheus.CounterVec
	failovers      prometheus.Counter
	providerErrors *prometheus.CounterVec
	providerHealth *prometheus.GaugeVec
	usageDrops     prometheus.Counter
}

// NewCollector builds and registers the metric set under the namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Adapter invocations by provider, model and outcome.",
		}, []string{"provider", "model", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Adapter invocation latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"provider", "model"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Tokens consumed by provider, model and direction.",
		}, []string{"provider", "model", "direction"}),
		cost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cost_usd_total",
			Help:      "Estimated spend in USD by provider and model.",
		}, []string{"provider", "model"}),
		failovers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failovers_total",
			Help:      "Cross-provider failover retries.",
		}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Adapter failures by provider and error class.",
		}, []string{"provider", "error_type"}),
		providerHealth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "provider_health",
			Help:      "Circuit state per model: 1 healthy, 0.5 degraded, 0 down.",
		}, []string{"provider", "model"}),
		usageDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "usage_records_dropped_total",
			Help:      "Usage records lost to sink failures.",
		}),
	}
	registry.MustRegister(
		c.requests, c.duration, c.tokens, c.cost,
		c.failovers, c.providerErrors, c.providerHealth, c.usageDrops,
	)
	return c
}

// RequestCompleted implements routing.Observer.
func (c *Collector) RequestCompleted(provider, model, status string, elapsed time.Duration) {
	c.requests.WithLabelValues(provider, model, status).Inc()
	c.duration.WithLabelValues(provider, model).Observe(elapsed.Seconds())
}

// FailoverOccurred implements routing.Observer.
func (c *Collector) FailoverOccurred() { c.failovers.Inc() }

// ProviderErrored implements routing.Observer.
func (c *Collector) ProviderErrored(provider, errType string) {
	c.providerErrors.WithLabelValues(provider, errType).Inc()
}

// TokensCounted implements routing.Observer.
func (c *Collector) TokensCounted(provider, model string, usage providers.TokenUsage, costUSD float64) {
	c.tokens.WithLabelValues(provider, model, "prompt").Add(float64(usage.PromptTokens))
	c.tokens.WithLabelValues(provider, model, "completion").Add(float64(usage.CompletionTokens))
	c.cost.WithLabelValues(provider, model).Add(costUSD)
}

// UsageDropped counts one discarded usage record.
func (c *Collector) UsageDropped() { c.usageDrops.Inc() }

// PublishHealth mirrors a breaker snapshot into the health gauge. Wired as
// the health sweeper's publish callback.
func (c *Collector) PublishHealth(snapshot map[catalog.Key]health.State) {
	for key, state := range snapshot {
		var v float64
		switch state.Status {
		case health.StatusHealthy:
			v = 1
		case health.StatusDegraded:
			v = 0.5
		}
		c.providerHealth.WithLabelValues(key.Provider, key.Model).Set(v)
	}
}

// Handler serves the registry in Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry exposes the underlying registry for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }
