package server

import (
	"github.com/cruso003/language-ai-tutor-sub000/pkg/health"
)

// BreakerReporter adapts a health tracker to the health endpoint.
type BreakerReporter struct {
	Tracker *health.Tracker
}

// SnapshotJSON implements HealthReporter, keyed by "provider/model".
func (r *BreakerReporter) SnapshotJSON() map[string]any {
	out := make(map[string]any)
	for key, state := range r.Tracker.Snapshot() {
		out[key.String()] = state
	}
	return out
}
