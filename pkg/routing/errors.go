package routing

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying routing failures with errors.Is.
var (
	// ErrProviderUnavailable means no selectable candidate existed.
	ErrProviderUnavailable = errors.New("no provider available")

	// ErrAttemptsExhausted means every attempt within the budget failed.
	ErrAttemptsExhausted = errors.New("failover attempts exhausted")

	// ErrMisconfiguration means no adapter has usable credentials.
	ErrMisconfiguration = errors.New("router misconfigured")
)

// ProviderUnavailableError reports an empty candidate set at selection time.
type ProviderUnavailableError struct {
	Priority Priority
	Excluded int
}

func (e *ProviderUnavailableError) Error() string {
	if e.Excluded > 0 {
		return fmt.Sprintf("no provider available for priority %s (%d already attempted or unusable)", e.Priority, e.Excluded)
	}
	return fmt.Sprintf("no provider available for priority %s", e.Priority)
}

func (e *ProviderUnavailableError) Is(target error) bool { return target == ErrProviderUnavailable }

// AttemptsExhaustedError reports a failover loop that burned its whole
// budget. It carries the attempt count and the last underlying cause so the
// caller can log a complete picture without reaching into router internals.
type AttemptsExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *AttemptsExhaustedError) Error() string {
	return fmt.Sprintf("all %d routing attempts failed: %v", e.Attempts, e.LastErr)
}

func (e *AttemptsExhaustedError) Is(target error) bool { return target == ErrAttemptsExhausted }

func (e *AttemptsExhaustedError) Unwrap() error { return e.LastErr }

// MisconfigurationError reports missing credentials for every provider.
type MisconfigurationError struct {
	Detail string
}

func (e *MisconfigurationError) Error() string {
	return fmt.Sprintf("router misconfigured: %s", e.Detail)
}

func (e *MisconfigurationError) Is(target error) bool { return target == ErrMisconfiguration }
