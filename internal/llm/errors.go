package llm

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned before any network call when a provider
// that needs an API key has none
var ErrMissingCredential = errors.New("missing API credential")

// ErrCompletionFailed matches every CompletionError via errors.Is
var ErrCompletionFailed = errors.New("completion failed")

// CompletionError wraps a provider failure
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Is reports ErrCompletionFailed as a match
func (e *CompletionError) Is(target error) bool {
	return target == ErrCompletionFailed
}

func completionErr(provider string, err error) error {
	return &CompletionError{Provider: provider, Err: err}
}

func missingKey(provider string) error {
	return fmt.Errorf("%s API key is required: %w", provider, ErrMissingCredential)
}
