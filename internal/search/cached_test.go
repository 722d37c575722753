package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/verifact/internal/cache"
)

type fakeSearcher struct {
	calls  int
	err    error
	result *Result
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) (*Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	r.Query = query
	return &r, nil
}

func TestCachedSearcher_DeduplicatesQueries(t *testing.T) {
	inner := &fakeSearcher{result: &Result{
		Answer:  "yes",
		Sources: []Source{{URL: "https://x.example", Title: "X", Content: "c"}},
	}}
	s := NewCachedSearcher(inner, cache.NewMemoryCache(time.Minute, time.Minute), 0)

	first, err := s.Search(context.Background(), "Query", 5)
	require.NoError(t, err)
	second, err := s.Search(context.Background(), " query ", 5)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first.Sources, second.Sources)
	assert.Equal(t, "yes", second.Answer)

	// A different result count is a different entry
	_, err = s.Search(context.Background(), "query", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedSearcher_DoesNotCacheErrors(t *testing.T) {
	inner := &fakeSearcher{err: &SearchError{Kind: KindTransport, Err: errors.New("boom")}}
	s := NewCachedSearcher(inner, cache.NewMemoryCache(time.Minute, time.Minute), 0)

	_, err := s.Search(context.Background(), "q", 5)
	require.ErrorIs(t, err, ErrSearchFailed)
	_, err = s.Search(context.Background(), "q", 5)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}
