// Package search implements the web search gateway used to gather evidence
// for a claim.
package search

import (
	"context"
	"errors"
	"fmt"
)

// Source is one search hit
type Source struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Result is the ordered list of hits for one query plus the provider's
// optional synthesized answer
type Result struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer,omitempty"`
	Sources []Source `json:"results"`
}

// Searcher runs a web search
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) (*Result, error)
}

var (
	// ErrSearchFailed matches every SearchError via errors.Is
	ErrSearchFailed = errors.New("search failed")

	// ErrEmptyQuery is wrapped by SearchError when the query is blank
	ErrEmptyQuery = errors.New("empty search query")

	// ErrMissingCredential is returned before any network call when no API key is set
	ErrMissingCredential = errors.New("missing search API credential")
)

// Error kinds
const (
	KindInvalidQuery = "invalid_query"
	KindTransport    = "transport"
	KindProvider     = "provider"
	KindDecode       = "decode"
)

// SearchError wraps a failed search
type SearchError struct {
	Kind  string
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %s for %q: %v", e.Kind, e.Query, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// Is reports ErrSearchFailed as a match
func (e *SearchError) Is(target error) bool {
	return target == ErrSearchFailed
}
