package routing

import (
	"errors"
	"testing"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/catalog"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/health"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Descriptor{
		{Provider: "openai", Model: "gpt-4o", CostPer1KTokens: 0.0050, AvgLatencyMs: 1200},
		{Provider: "openai", Model: "gpt-4o-mini", CostPer1KTokens: 0.0006, AvgLatencyMs: 600},
		{Provider: "anthropic", Model: "claude-3-5-sonnet-20241022", CostPer1KTokens: 0.0090, AvgLatencyMs: 1500},
		{Provider: "anthropic", Model: "claude-3-5-haiku-20241022", CostPer1KTokens: 0.0024, AvgLatencyMs: 500},
	}, map[string]int{
		"claude-3-5-sonnet-20241022": 10,
		"gpt-4o":                     8,
		"claude-3-5-haiku-20241022":  5,
		"gpt-4o-mini":                4,
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func newTestSelector(t *testing.T) (*Selector, *health.Tracker) {
	t.Helper()
	tracker := health.NewTracker()
	return NewSelector(testCatalog(t), tracker, nil), tracker
}

func mustSelect(t *testing.T, s *Selector, req *RouteRequest, p Priority, exclude map[catalog.Key]struct{}) catalog.Descriptor {
	t.Helper()
	d, err := s.Select(req, p, exclude)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	return d
}

func TestSelectByCost(t *testing.T) {
	s, _ := newTestSelector(t)
	d := mustSelect(t, s, &RouteRequest{}, PriorityCost, nil)
	if d.Model != "gpt-4o-mini" {
		t.Errorf("expected cheapest model, got %s", d.Model)
	}
}

func TestSelectBySpeed(t *testing.T) {
	s, _ := newTestSelector(t)
	d := mustSelect(t, s, &RouteRequest{}, PrioritySpeed, nil)
	if d.Model != "claude-3-5-haiku-20241022" {
		t.Errorf("expected fastest model, got %s", d.Model)
	}
}

func TestSelectByQuality(t *testing.T) {
	s, _ := newTestSelector(t)
	d := mustSelect(t, s, &RouteRequest{}, PriorityQuality, nil)
	if d.Model != "claude-3-5-sonnet-20241022" {
		t.Errorf("expected highest-ranked model, got %s", d.Model)
	}
}

func TestSelectSkipsDown(t *testing.T) {
	s, tracker := newTestSelector(t)
	cheap := catalog.Key{Provider: "openai", Model: "gpt-4o-mini"}
	for i := 0; i < 3; i++ {
		tracker.RecordFailure(cheap)
	}
	d := mustSelect(t, s, &RouteRequest{}, PriorityCost, nil)
	if d.Model != "claude-3-5-haiku-20241022" {
		t.Errorf("expected next-cheapest after down exclusion, got %s", d.Model)
	}
}

func TestSelectHealthyBeforeDegraded(t *testing.T) {
	s, tracker := newTestSelector(t)
	// One failure degrades but does not exclude the cheapest model.
	tracker.RecordFailure(catalog.Key{Provider: "openai", Model: "gpt-4o-mini"})
	d := mustSelect(t, s, &RouteRequest{}, PriorityCost, nil)
	if d.Model != "claude-3-5-haiku-20241022" {
		t.Errorf("expected cheapest healthy model, got %s", d.Model)
	}
}

func TestSelectLatencyCap(t *testing.T) {
	s, _ := newTestSelector(t)
	d := mustSelect(t, s, &RouteRequest{MaxLatencyMs: 700}, PriorityCost, nil)
	if d.Model != "gpt-4o-mini" {
		t.Errorf("expected cheapest under cap, got %s", d.Model)
	}
}

func TestSelectCostCap(t *testing.T) {
	s, _ := newTestSelector(t)
	d := mustSelect(t, s, &RouteRequest{MaxCostPer1KTokens: 0.003}, PrioritySpeed, nil)
	if d.Model != "claude-3-5-haiku-20241022" {
		t.Errorf("expected fastest under cap, got %s", d.Model)
	}
}

func TestSelectRelaxesUnsatisfiableCaps(t *testing.T) {
	s, _ := newTestSelector(t)
	// Nothing is this fast, so the cap must be dropped instead of failing.
	d := mustSelect(t, s, &RouteRequest{MaxLatencyMs: 10}, PriorityCost, nil)
	if d.Model != "gpt-4o-mini" {
		t.Errorf("expected cap relaxation to cheapest, got %s", d.Model)
	}
}

func TestSelectExplicitModelPreferred(t *testing.T) {
	s, _ := newTestSelector(t)
	d := mustSelect(t, s, &RouteRequest{Model: "gpt-4o"}, PriorityCost, nil)
	if d.Model != "gpt-4o" {
		t.Errorf("expected explicitly requested model, got %s", d.Model)
	}
}

func TestSelectExplicitModelRelaxedWhenDown(t *testing.T) {
	s, tracker := newTestSelector(t)
	key := catalog.Key{Provider: "openai", Model: "gpt-4o"}
	for i := 0; i < 3; i++ {
		tracker.RecordFailure(key)
	}
	d := mustSelect(t, s, &RouteRequest{Model: "gpt-4o"}, PriorityCost, nil)
	if d.Model == "gpt-4o" {
		t.Error("expected down explicit model to be skipped")
	}
	if d.Model != "gpt-4o-mini" {
		t.Errorf("expected cheapest fallback, got %s", d.Model)
	}
}

func TestSelectAllDownFails(t *testing.T) {
	s, tracker := newTestSelector(t)
	for _, d := range testCatalog(t).List() {
		for i := 0; i < 3; i++ {
			tracker.RecordFailure(d.Key())
		}
	}
	_, err := s.Select(&RouteRequest{}, PriorityCost, nil)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable, got %v", err)
	}
}

func TestSelectHonorsExclusions(t *testing.T) {
	s, _ := newTestSelector(t)
	exclude := map[catalog.Key]struct{}{
		{Provider: "openai", Model: "gpt-4o-mini"}: {},
		{Provider: "anthropic", Model: "claude-3-5-haiku-20241022"}: {},
	}
	d := mustSelect(t, s, &RouteRequest{}, PriorityCost, exclude)
	if d.Model != "gpt-4o" {
		t.Errorf("expected cheapest non-excluded, got %s", d.Model)
	}
}

func TestQualityTieBreaksByCatalogOrder(t *testing.T) {
	cat, err := catalog.New([]catalog.Descriptor{
		{Provider: "openai", Model: "a", CostPer1KTokens: 0.002, AvgLatencyMs: 100},
		{Provider: "openai", Model: "b", CostPer1KTokens: 0.001, AvgLatencyMs: 50},
	}, nil) // both unranked
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	s := NewSelector(cat, health.NewTracker(), nil)
	d := mustSelect(t, s, &RouteRequest{}, PriorityQuality, nil)
	if d.Model != "a" {
		t.Errorf("expected catalog-order tiebreak to pick first entry, got %s", d.Model)
	}
}
