package providers

// Message roles used when composing chat prompts.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenUsage reports the token accounting for one completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ReplyRequest asks an adapter to generate one tutoring reply. Model names
// the catalog model the router selected; adapters that run fallback chains
// may serve the reply from a different model and must report which one.
type ReplyRequest struct {
	Model        string
	SystemPrompt string
	UserMessage  string
	MaxTokens    int
	Temperature  float64
}

// Reply is a successful completion.
type Reply struct {
	Text  string
	Model string
	Usage TokenUsage
}
