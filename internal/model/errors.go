package model

import (
	"fmt"
	"strings"
)

// ConfigurationError reports missing credentials. It is fatal for a batch and
// is raised before any network call is made.
type ConfigurationError struct {
	MissingKeys []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required credentials: %s (set them in the environment or a .env file)",
		strings.Join(e.MissingKeys, ", "))
}

// ExtractionKind identifies why extraction failed
type ExtractionKind string

const (
	ExtractionNoText     ExtractionKind = "no_text"    // Document has no text layer
	ExtractionParse      ExtractionKind = "parse"      // Claim response was not valid JSON
	ExtractionCompletion ExtractionKind = "completion" // Claim extraction call failed
)

// ExtractionError is fatal for a batch: without claims nothing can be verified
type ExtractionError struct {
	Kind ExtractionKind
	Err  error
}

func (e *ExtractionError) Error() string {
	switch e.Kind {
	case ExtractionNoText:
		return fmt.Sprintf("document text extraction failed: %v", e.Err)
	case ExtractionParse:
		return fmt.Sprintf("failed to parse claim extraction response as JSON: %v", e.Err)
	default:
		return fmt.Sprintf("claim extraction failed: %v", e.Err)
	}
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
