package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one billable completion.
type Record struct {
	ID               string    `json:"id"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	CostUSD          float64   `json:"cost_usd"`
	UserID           string    `json:"user_id,omitempty"`
	SessionID        string    `json:"session_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewRecord stamps identity and creation time onto a record.
func NewRecord(provider, model string, promptTokens, completionTokens int, costUSD float64, userID, sessionID string) *Record {
	return &Record{
		ID:               uuid.NewString(),
		Provider:         provider,
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		CostUSD:          costUSD,
		UserID:           userID,
		SessionID:        sessionID,
		CreatedAt:        time.Now().UTC(),
	}
}

// Sink persists usage records somewhere external to the request path.
type Sink interface {
	Write(ctx context.Context, rec *Record) error
	Close() error
}
