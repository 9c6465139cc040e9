package providers

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classifying adapter failures with errors.Is.
var (
	// ErrAuth marks an invalid or missing API key.
	ErrAuth = errors.New("provider authentication failed")

	// ErrRateLimited marks a vendor 429.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrModelNotFound marks a model the vendor does not serve.
	ErrModelNotFound = errors.New("model not found")

	// ErrEmptyResponse marks a completion with no usable text.
	ErrEmptyResponse = errors.New("empty response from provider")

	// ErrTimeout marks a request that exceeded its deadline.
	ErrTimeout = errors.New("provider request timed out")

	// ErrParse marks an unintelligible vendor response body.
	ErrParse = errors.New("unparseable provider response")

	// ErrChainExhausted marks an adapter whose whole model chain failed.
	ErrChainExhausted = errors.New("all models in provider chain failed")
)

// ProviderError is the general adapter failure carrying vendor context.
type ProviderError struct {
	Provider   string
	Model      string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "provider %s", e.Provider)
	if e.Model != "" {
		fmt.Fprintf(&b, " model %s", e.Model)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// AuthError reports a rejected or missing credential.
type AuthError struct {
	Provider string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("provider %s: authentication failed", e.Provider)
}

func (e *AuthError) Is(target error) bool { return target == ErrAuth }

// RateLimitError reports a 429 together with any Retry-After hint.
type RateLimitError struct {
	Provider   string
	RetryAfter int // seconds, 0 when the vendor gave no hint
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider %s: rate limited, retry after %ds", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("provider %s: rate limited", e.Provider)
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// ModelNotFoundError reports a model the vendor rejected as unknown.
type ModelNotFoundError struct {
	Provider string
	Model    string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("provider %s: model %q not found", e.Provider, e.Model)
}

func (e *ModelNotFoundError) Is(target error) bool { return target == ErrModelNotFound }

// EmptyResponseError reports a completion that came back blank.
type EmptyResponseError struct {
	Provider string
	Model    string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("provider %s: model %s returned an empty response", e.Provider, e.Model)
}

func (e *EmptyResponseError) Is(target error) bool { return target == ErrEmptyResponse }

// ParseError reports a 2xx response whose body could not be decoded.
type ParseError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %s model %s: unparseable response: %v", e.Provider, e.Model, e.Err)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// TimeoutError reports a deadline exceeded while waiting on the vendor.
type TimeoutError struct {
	Provider string
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %s: request timed out: %v", e.Provider, e.Err)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

func (e *TimeoutError) Unwrap() error { return e.Err }

// ChainExhaustedError reports that every candidate in an adapter's fallback
// chain failed, keeping the individual failures for diagnostics.
type ChainExhaustedError struct {
	Provider string
	Attempts []ChainAttempt
}

// ChainAttempt records one failed model in the chain.
type ChainAttempt struct {
	Model string
	Err   error
}

func (e *ChainExhaustedError) Error() string {
	models := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		models[i] = a.Model
	}
	return fmt.Sprintf("provider %s: all models failed (%s)", e.Provider, strings.Join(models, ", "))
}

func (e *ChainExhaustedError) Is(target error) bool { return target == ErrChainExhausted }

// Unwrap exposes the last attempt's cause.
func (e *ChainExhaustedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}
