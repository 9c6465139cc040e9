package routing

import (
	"fmt"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/providers"
)

// Task names the tutoring workload a request belongs to. Tasks do not change
// selection today but travel through logs and usage records.
type Task string

const (
	TaskConversation Task = "conversation"
	TaskGrammar      Task = "grammar"
	TaskTranslation  Task = "translation"
	TaskAssessment   Task = "assessment"
)

// Priority is the caller's optimization goal for one routing decision.
type Priority string

const (
	// PriorityCost picks the cheapest candidate.
	PriorityCost Priority = "cost"
	// PrioritySpeed picks the lowest-latency candidate.
	PrioritySpeed Priority = "speed"
	// PriorityQuality picks the highest-ranked candidate.
	PriorityQuality Priority = "quality"
)

// ParsePriority validates a priority string, defaulting empty to cost.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case "":
		return PriorityCost, nil
	case PriorityCost, PrioritySpeed, PriorityQuality:
		return Priority(s), nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// RouteRequest is one routed chat call.
type RouteRequest struct {
	Task         Task
	Priority     Priority
	SystemPrompt string
	UserMessage  string

	// Model, when set, asks for one specific model and disables the
	// soft selection filters for it.
	Model string

	// MaxLatencyMs and MaxCostPer1KTokens are soft caps: they narrow the
	// candidate set but are relaxed rather than failing the request when
	// nothing fits.
	MaxLatencyMs       int
	MaxCostPer1KTokens float64

	UserID    string
	SessionID string
}

// ChatResponse is the routed reply returned to the caller.
type ChatResponse struct {
	RequestID string               `json:"request_id"`
	Reply     string               `json:"reply"`
	Provider  string               `json:"provider"`
	Model     string               `json:"model"`
	Usage     providers.TokenUsage `json:"usage"`
	CostUSD   float64              `json:"cost_usd"`
	LatencyMs int64                `json:"latency_ms"`
	Attempts  int                  `json:"attempts"`
}
