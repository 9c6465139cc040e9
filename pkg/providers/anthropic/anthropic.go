// Package anthropic implements the Anthropic chat adapter. It is a primary
// adapter: each invocation targets exactly one model and any failure is
// surfaced as that invocation's error, leaving failover to the routing layer.
package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/providers"
)

const (
	// ProviderName is the catalog identifier for this adapter.
	ProviderName = "anthropic"

	defaultBaseURL = "https://api.anthropic.com"
	// DefaultModel is used when the request names no model.
	DefaultModel = "claude-3-5-sonnet-20241022"

	apiVersion       = "2023-06-01"
	defaultMaxTokens = 1024
)

// Config configures the adapter.
type Config struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
}

// Provider is the Anthropic ChatProvider.
type Provider struct {
	cfg    Config
	client *providers.Client
	logger *slog.Logger
}

// New builds the adapter. The API key is required.
func New(cfg Config, logger *slog.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:    cfg,
		client: providers.NewClient(ProviderName, cfg.Timeout),
		logger: logger.With("provider", ProviderName),
	}, nil
}

// Name implements providers.ChatProvider.
func (p *Provider) Name() string { return ProviderName }

// Close implements providers.ChatProvider.
func (p *Provider) Close() error { return p.client.Close() }

type messagesRequest struct {
	Model     string              `json:"model"`
	MaxTokens int                 `json:"max_tokens"`
	System    string              `json:"system,omitempty"`
	Messages  []providers.Message `json:"messages"`
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// GenerateReply makes one call to the Messages API.
func (p *Provider) GenerateReply(ctx context.Context, req *providers.ReplyRequest) (*providers.Reply, error) {
	model := req.Model
	if model == "" {
		model = p.cfg.DefaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body := messagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    req.SystemPrompt,
		Messages:  []providers.Message{{Role: providers.RoleUser, Content: req.UserMessage}},
	}
	headers := map[string]string{
		"x-api-key":         p.cfg.APIKey,
		"anthropic-version": apiVersion,
	}

	var resp messagesResponse
	url := p.cfg.BaseURL + "/v1/messages"
	if err := p.client.PostJSON(ctx, url, model, headers, body, &resp); err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, &providers.EmptyResponseError{Provider: ProviderName, Model: model}
	}

	served := resp.Model
	if served == "" {
		served = model
	}
	return &providers.Reply{
		Text:  text.String(),
		Model: served,
		Usage: providers.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}
