package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/providers"
)

// chatHandler serves scripted responses keyed by model name.
type chatHandler struct {
	t        *testing.T
	respond  map[string]func(w http.ResponseWriter)
	requests []string
}

func (h *chatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Model string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.t.Fatalf("decoding request: %v", err)
	}
	h.requests = append(h.requests, body.Model)
	fn, ok := h.respond[body.Model]
	if !ok {
		h.t.Fatalf("unexpected model %q", body.Model)
	}
	fn(w)
}

func serveText(model, text string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		resp := map[string]any{
			"model": model,
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": text}},
			},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 34, "total_tokens": 46},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func serveStatus(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func newTestProvider(t *testing.T, h *chatHandler, fallbacks []string) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := New(Config{
		APIKey:       "test-key",
		BaseURL:      srv.URL,
		DefaultModel: "gpt-4o-mini",
		Fallbacks:    fallbacks,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestGenerateReplyFirstCandidate(t *testing.T) {
	h := &chatHandler{t: t, respond: map[string]func(http.ResponseWriter){
		"gpt-4o": serveText("gpt-4o", "Bonjour!"),
	}}
	p := newTestProvider(t, h, []string{"gpt-3.5-turbo"})

	reply, err := p.GenerateReply(context.Background(), &providers.ReplyRequest{
		Model: "gpt-4o", SystemPrompt: "You are a French tutor.", UserMessage: "Say hello",
	})
	if err != nil {
		t.Fatalf("GenerateReply: %v", err)
	}
	if reply.Text != "Bonjour!" {
		t.Errorf("expected reply text, got %q", reply.Text)
	}
	if reply.Model != "gpt-4o" {
		t.Errorf("expected served model gpt-4o, got %s", reply.Model)
	}
	if reply.Usage.TotalTokens != 46 {
		t.Errorf("expected usage 46, got %d", reply.Usage.TotalTokens)
	}
	if len(h.requests) != 1 {
		t.Errorf("expected 1 request, got %d", len(h.requests))
	}
}

func TestChainAdvancesOnEmptyResponse(t *testing.T) {
	h := &chatHandler{t: t, respond: map[string]func(http.ResponseWriter){
		"gpt-4o":      serveText("gpt-4o", "   "),
		"gpt-4o-mini": serveText("gpt-4o-mini", "Hola"),
	}}
	p := newTestProvider(t, h, nil)

	reply, err := p.GenerateReply(context.Background(), &providers.ReplyRequest{Model: "gpt-4o", UserMessage: "hi"})
	if err != nil {
		t.Fatalf("GenerateReply: %v", err)
	}
	if reply.Model != "gpt-4o-mini" {
		t.Errorf("expected fallback model to serve, got %s", reply.Model)
	}
	if reply.Text != "Hola" {
		t.Errorf("expected fallback text, got %q", reply.Text)
	}
}

func TestChainAdvancesOnModelNotFound(t *testing.T) {
	h := &chatHandler{t: t, respond: map[string]func(http.ResponseWriter){
		"gpt-5-preview": serveStatus(http.StatusNotFound, `{"error":{"message":"unknown model","code":"model_not_found"}}`),
		"gpt-4o-mini":   serveText("gpt-4o-mini", "ok"),
	}}
	p := newTestProvider(t, h, nil)

	reply, err := p.GenerateReply(context.Background(), &providers.ReplyRequest{Model: "gpt-5-preview", UserMessage: "hi"})
	if err != nil {
		t.Fatalf("GenerateReply: %v", err)
	}
	if reply.Model != "gpt-4o-mini" {
		t.Errorf("expected default model to serve, got %s", reply.Model)
	}
}

func TestExplicitModelOtherErrorAborts(t *testing.T) {
	h := &chatHandler{t: t, respond: map[string]func(http.ResponseWriter){
		"gpt-4o": serveStatus(http.StatusUnauthorized, `{"error":{"message":"bad key"}}`),
	}}
	p := newTestProvider(t, h, nil)

	_, err := p.GenerateReply(context.Background(), &providers.ReplyRequest{Model: "gpt-4o", UserMessage: "hi"})
	if !errors.Is(err, providers.ErrAuth) {
		t.Fatalf("expected auth error to surface, got %v", err)
	}
	if len(h.requests) != 1 {
		t.Errorf("expected no fallback after explicit-model failure, got %d requests", len(h.requests))
	}
}

func TestDefaultModelOtherErrorAborts(t *testing.T) {
	h := &chatHandler{t: t, respond: map[string]func(http.ResponseWriter){
		"gpt-4o-mini": serveStatus(http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`),
	}}
	p := newTestProvider(t, h, []string{"gpt-4o"})

	_, err := p.GenerateReply(context.Background(), &providers.ReplyRequest{UserMessage: "hi"})
	if !errors.Is(err, providers.ErrRateLimited) {
		t.Fatalf("expected rate-limit error to surface, got %v", err)
	}
	if len(h.requests) != 1 {
		t.Errorf("expected abort without fallback, got %d requests", len(h.requests))
	}
}

func TestChainExhaustion(t *testing.T) {
	empty := serveText("", "")
	h := &chatHandler{t: t, respond: map[string]func(http.ResponseWriter){
		"gpt-4o-mini": empty,
		"gpt-4o":      empty,
	}}
	p := newTestProvider(t, h, []string{"gpt-4o"})

	_, err := p.GenerateReply(context.Background(), &providers.ReplyRequest{UserMessage: "hi"})
	if !errors.Is(err, providers.ErrChainExhausted) {
		t.Fatalf("expected chain exhaustion, got %v", err)
	}
	var ce *providers.ChainExhaustedError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ChainExhaustedError, got %T", err)
	}
	if len(ce.Attempts) != 2 {
		t.Errorf("expected 2 recorded attempts, got %d", len(ce.Attempts))
	}
	if !errors.Is(err, providers.ErrEmptyResponse) {
		t.Error("expected last cause to unwrap from aggregate")
	}
}

func TestCandidatesDeduplicated(t *testing.T) {
	p, err := New(Config{
		APIKey:       "k",
		DefaultModel: "gpt-4o-mini",
		Fallbacks:    []string{"gpt-4o", "gpt-4o-mini", "gpt-3.5-turbo"},
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	got := p.candidates("gpt-4o")
	want := []string{"gpt-4o", "gpt-4o-mini", "gpt-3.5-turbo"}
	if len(got) != len(want) {
		t.Fatalf("expected %d candidates, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
