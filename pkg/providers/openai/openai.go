// Package openai implements the OpenAI chat adapter. One GenerateReply call
// walks an ordered chain of model candidates so that a single logical
// invocation can survive a retired or momentarily blank model without the
// router noticing.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/providers"
)

const (
	// ProviderName is the catalog identifier for this adapter.
	ProviderName = "openai"

	defaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is tried when the request names no model.
	DefaultModel = "gpt-4o-mini"
)

// defaultFallbacks are appended to every chain, best first.
var defaultFallbacks = []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "gpt-3.5-turbo"}

// Config configures the adapter.
type Config struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Fallbacks    []string
	Timeout      time.Duration
}

// Provider is the OpenAI ChatProvider.
type Provider struct {
	cfg    Config
	client *providers.Client
	logger *slog.Logger
}

// New builds the adapter. The API key is required.
func New(cfg Config, logger *slog.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}
	if len(cfg.Fallbacks) == 0 {
		cfg.Fallbacks = defaultFallbacks
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

// GenerateReply tries each candidate model in order. A missing model or a
// blank completion advances the chain; any other failure aborts immediately
// so auth and rate-limit errors surface instead of being masked by fallbacks.
func (p *Provider) GenerateReply(ctx context.Context, req *providers.ReplyRequest) (*providers.Reply, error) {
	candidates := p.candidates(req.Model)

	var attempts []providers.ChainAttempt
	for i, model := range candidates {
		reply, err := p.complete(ctx, model, req)
		if err == nil {
			if i > 0 {
				p.logger.Info("chain fell back", "requested", candidates[0], "served_by", model)
			}
			return reply, nil
		}

		attempts = append(attempts, providers.ChainAttempt{Model: model, Err: err})
		if errors.Is(err, providers.ErrModelNotFound) || errors.Is(err, providers.ErrEmptyResponse) {
			p.logger.Warn("chain advancing past model", "model", model, "error", err)
			continue
		}
		return nil, err
	}
	return nil, &providers.ChainExhaustedError{Provider: ProviderName, Attempts: attempts}
}

// candidates builds the ordered, de-duplicated chain for one request:
// the explicit model first, then the configured default, then the fallbacks.
func (p *Provider) candidates(explicit string) []string {
	ordered := make([]string, 0, 2+len(p.cfg.Fallbacks))
	if explicit != "" {
		ordered = append(ordered, explicit)
	}
	ordered = append(ordered, p.cfg.DefaultModel)
	ordered = append(ordered, p.cfg.Fallbacks...)

	seen := make(map[string]struct{}, len(ordered))
	out := ordered[:0]
	for _, m := range ordered {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

type chatRequest struct {
	Model       string              `json:"model"`
	Messages    []providers.Message `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message providers.Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (p *Provider) complete(ctx context.Context, model string, req *providers.ReplyRequest) (*providers.Reply, error) {
	body := chatRequest{
		Model:       model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.SystemPrompt != "" {
		body.Messages = append(body.Messages, providers.Message{Role: providers.RoleSystem, Content: req.SystemPrompt})
	}
	body.Messages = append(body.Messages, providers.Message{Role: providers.RoleUser, Content: req.UserMessage})

	headers := map[string]string{"Authorization": "Bearer " + p.cfg.APIKey}

	var resp chatResponse
	url := p.cfg.BaseURL + "/chat/completions"
	if err := p.client.PostJSON(ctx, url, model, headers, body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, &providers.EmptyResponseError{Provider: ProviderName, Model: model}
	}

	served := resp.Model
	if served == "" {
		served = model
	}
	return &providers.Reply{
		Text:  resp.Choices[0].Message.Content,
		Model: served,
		Usage: providers.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
