package providers

import (
	"errors"
	"strings"
	"testing"
)

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"auth", &AuthError{Provider: "openai"}, ErrAuth},
		{"rate limit", &RateLimitError{Provider: "openai", RetryAfter: 30}, ErrRateLimited},
		{"model not found", &ModelNotFoundError{Provider: "openai", Model: "gpt-9"}, ErrModelNotFound},
		{"empty response", &EmptyResponseError{Provider: "openai", Model: "gpt-4o"}, ErrEmptyResponse},
		{"timeout", &TimeoutError{Provider: "anthropic", Err: errors.New("deadline")}, ErrTimeout},
		{"chain exhausted", &ChainExhaustedError{Provider: "openai"}, ErrChainExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%T, sentinel) = false", tt.err)
			}
		})
	}
}

func TestSentinelsDoNotCrossMatch(t *testing.T) {
	err := &AuthError{Provider: "openai"}
	if errors.Is(err, ErrRateLimited) {
		t.Error("auth error matched rate-limit sentinel")
	}
}

func TestProviderErrorFormatting(t *testing.T) {
	err := &ProviderError{Provider: "openai", Model: "gpt-4o", StatusCode: 500, Message: "upstream exploded"}
	got := err.Error()
	for _, want := range []string{"openai", "gpt-4o", "500", "upstream exploded"} {
		if !strings.Contains(got, want) {
			t.Errorf("error string %q missing %q", got, want)
		}
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ProviderError{Provider: "openai", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestChainExhaustedUnwrapsLastAttempt(t *testing.T) {
	last := &EmptyResponseError{Provider: "openai", Model: "gpt-3.5-turbo"}
	err := &ChainExhaustedError{
		Provider: "openai",
		Attempts: []ChainAttempt{
			{Model: "gpt-4o", Err: &ModelNotFoundError{Provider: "openai", Model: "gpt-4o"}},
			{Model: "gpt-3.5-turbo", Err: last},
		},
	}
	if !errors.Is(err, ErrEmptyResponse) {
		t.Error("expected last attempt's cause to unwrap")
	}
	got := err.Error()
	if !strings.Contains(got, "gpt-4o") || !strings.Contains(got, "gpt-3.5-turbo") {
		t.Errorf("error string %q missing attempted models", got)
	}
}

func TestRateLimitErrorMentionsRetryAfter(t *testing.T) {
	err := &RateLimitError{Provider: "openai", RetryAfter: 42}
	if !strings.Contains(err.Error(), "42") {
		t.Errorf("expected retry hint in %q", err.Error())
	}
}
