package routing

import (
	"log/slog"
	"sort"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/catalog"
	"github.com/cruso003/language-ai-tutor-sub000/pkg/health"
)

// Selector picks the best candidate for a request given current health
// state. It holds no mutable state of its own.
type Selector struct {
	catalog *catalog.Catalog
	tracker *health.Tracker
	logger  *slog.Logger
}

// NewSelector builds a selector over the given catalog and tracker.
func NewSelector(cat *catalog.Catalog, tracker *health.Tracker, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{catalog: cat, tracker: tracker, logger: logger}
}

// candidate pairs a descriptor with the health status observed for this
// selection, so sorting sees one consistent snapshot.
type candidate struct {
	desc   catalog.Descriptor
	status health.Status
	// pos is the catalog position, the final tie-breaker.
	pos int
}

// Select returns the best descriptor for the request, skipping any key in
// exclude. Down descriptors never qualify. The latency and cost caps are
// soft: when they empty the pool the selection falls back to the uncapped
// set instead of failing.
func (s *Selector) Select(req *RouteRequest, priority Priority, exclude map[catalog.Key]struct{}) (catalog.Descriptor, error) {
	var pool []candidate
	for i, d := range s.catalog.List() {
		k := d.Key()
		if _, skip := exclude[k]; skip {
			continue
		}
		status := s.tracker.Status(k)
		if status == health.StatusDown {
			continue
		}
		pool = append(pool, candidate{desc: d, status: status, pos: i})
	}
	if len(pool) == 0 {
		return catalog.Descriptor{}, &ProviderUnavailableError{Priority: priority, Excluded: len(exclude)}
	}

	// An explicit model narrows the pool like the caps do: preferred when
	// present, relaxed when the named model is not selectable.
	if req.Model != "" {
		if narrowed := filterPool(pool, func(c candidate) bool { return c.desc.Model == req.Model }); len(narrowed) > 0 {
			pool = narrowed
		} else {
			s.logger.Warn("requested model not selectable, relaxing", "model", req.Model)
		}
	}

	capped := pool
	if req.MaxLatencyMs > 0 {
		capped = filterPool(capped, func(c candidate) bool { return c.desc.AvgLatencyMs <= req.MaxLatencyMs })
	}
	if req.MaxCostPer1KTokens > 0 {
		capped = filterPool(capped, func(c candidate) bool { return c.desc.CostPer1KTokens <= req.MaxCostPer1KTokens })
	}
	if len(capped) == 0 {
		s.logger.Warn("latency/cost caps excluded every candidate, relaxing",
			"max_latency_ms", req.MaxLatencyMs, "max_cost_per_1k", req.MaxCostPer1KTokens)
	} else {
		pool = capped
	}

	s.sortPool(pool, priority)

	chosen := pool[0]
	s.logger.Debug("candidate selected",
		"key", chosen.desc.Key().String(),
		"priority", string(priority),
		"status", string(chosen.status),
		"pool_size", len(pool))
	return chosen.desc, nil
}

func filterPool(pool []candidate, keep func(candidate) bool) []candidate {
	var out []candidate
	for _, c := range pool {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// sortPool orders by the priority key with catalog-order ties, then stably
// moves Healthy candidates ahead of Degraded ones.
func (s *Selector) sortPool(pool []candidate, priority Priority) {
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		switch priority {
		case PrioritySpeed:
			if a.desc.AvgLatencyMs != b.desc.AvgLatencyMs {
				return a.desc.AvgLatencyMs < b.desc.AvgLatencyMs
			}
		case PriorityQuality:
			ra := s.catalog.QualityRank(a.desc.Model)
			rb := s.catalog.QualityRank(b.desc.Model)
			if ra != rb {
				return ra > rb
			}
		default: // PriorityCost
			if a.desc.CostPer1KTokens != b.desc.CostPer1KTokens {
				return a.desc.CostPer1KTokens < b.desc.CostPer1KTokens
			}
		}
		return a.pos < b.pos
	})
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].status == health.StatusHealthy && pool[j].status != health.StatusHealthy
	})
}
