package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/catalog"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/health"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/providers"
)

func TestRequestCounting(t *testing.T) {
	c := NewCollector("test")
	c.RequestCompleted("openai", "gpt-4o", "success", 250*time.Millisecond)
	c.RequestCompleted("openai", "gpt-4o", "error", time.Second)

	if got := testutil.ToFloat64(c.requests.WithLabelValues("openai", "gpt-4o", "success")); got != 1 {
		t.Errorf("expected 1 success, got %f", got)
	}
	if got := testutil.ToFloat64(c.requests.WithLabelValues("openai", "gpt-4o", "error")); got != 1 {
		t.Errorf("expected 1 error, got %f", got)
	}
}

func TestTokenAndCostCounting(t *testing.T) {
	c := NewCollector("test")
	c.TokensCounted("anthropic", "claude-3-5-haiku-20241022",
		providers.TokenUsage{PromptTokens: 100, CompletionTokens: 40, TotalTokens: 140}, 0.25)
	c.TokensCounted("anthropic", "claude-3-5-haiku-20241022",
		providers.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, 0.05)

	if got := testutil.ToFloat64(c.tokens.WithLabelValues("anthropic", "claude-3-5-haiku-20241022", "prompt")); got != 110 {
		t.Errorf("expected 110 prompt tokens, got %f", got)
	}
	if got := testutil.ToFloat64(c.cost.WithLabelValues("anthropic", "claude-3-5-haiku-20241022")); got < 0.29 || got > 0.31 {
		t.Errorf("expected cost near 0.30, got %f", got)
	}
}

func TestPublishHealth(t *testing.T) {
	c := NewCollector("test")
	c.PublishHealth(map[catalog.Key]health.State{
		{Provider: "openai", Model: "gpt-4o"}:      {Status: health.StatusHealthy},
		{Provider: "openai", Model: "gpt-4o-mini"}: {Status: health.StatusDegraded},
		{Provider: "anthropic", Model: "claude-3-5-haiku-20241022"}: {
			Status: health.StatusDown,
		},
	})
	if got := testutil.ToFloat64(c.providerHealth.WithLabelValues("openai", "gpt-4o")); got != 1 {
		t.Errorf("expected healthy gauge 1, got %f", got)
	}
	if got := testutil.ToFloat64(c.providerHealth.WithLabelValues("openai", "gpt-4o-mini")); got != 0.5 {
		t.Errorf("expected degraded gauge 0.5, got %f", got)
	}
	if got := testutil.ToFloat64(c.providerHealth.WithLabelValues("anthropic", "claude-3-5-haiku-20241022")); got != 0 {
		t.Errorf("expected down gauge 0, got %f", got)
	}
}

func TestHandlerServesExposition(t *testing.T) {
	c := NewCollector("test")
	c.FailoverOccurred()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "test_failovers_total") {
		t.Errorf("exposition missing failover counter:\n%s", body)
	}
}
