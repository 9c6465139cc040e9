// Package providers holds scriptable adapter fakes shared by routing and
// server tests.
package providers

import (
	"context"
	"sync"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/providers"
)

// MockProvider is a scriptable ChatProvider. Responses are consulted per
// model first, then the catch-all Default.
type MockProvider struct {
	ProviderName string

	mu      sync.Mutex
	replies map[string]func(*providers.ReplyRequest) (*providers.Reply, error)
	// Default handles models with no scripted reply.
	Default func(*providers.ReplyRequest) (*providers.Reply, error)
	calls   []string
	closed  bool
}

// NewMockProvider builds a mock with the given provider name.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProviderName: name,
		replies:      make(map[string]func(*providers.ReplyRequest) (*providers.Reply, error)),
	}
}

// Script sets the handler for one model.
func (m *MockProvider) Script(model string, fn func(*providers.ReplyRequest) (*providers.Reply, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[model] = fn
}

// ScriptReply makes model always succeed with the given text and usage.
func (m *MockProvider) ScriptReply(model, text string, usage providers.TokenUsage) {
	m.Script(model, func(*providers.ReplyRequest) (*providers.Reply, error) {
		return &providers.Reply{Text: text, Model: model, Usage: usage}, nil
	})
}

// ScriptError makes model always fail with err.
func (m *MockProvider) ScriptError(model string, err error) {
	m.Script(model, func(*providers.ReplyRequest) (*providers.Reply, error) {
		return nil, err
	})
}

// Calls returns the models invoked, in order.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Closed reports whether Close was called.
func (m *MockProvider) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Name implements providers.ChatProvider.
func (m *MockProvider) Name() string { return m.ProviderName }

// GenerateReply implements providers.ChatProvider.
func (m *MockProvider) GenerateReply(_ context.Context, req *providers.ReplyRequest) (*providers.Reply, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req.Model)
	fn, ok := m.replies[req.Model]
	if !ok {
		fn = m.Default
	}
	m.mu.Unlock()
	if fn == nil {
		return &providers.Reply{Text: "mock reply", Model: req.Model}, nil
	}
	return fn(req)
}

// Close implements providers.ChatProvider.
func (m *MockProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
