package search

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/verifact/internal/cache"
	"github.com/ppiankov/verifact/internal/metrics"
)

// CachedSearcher answers repeated queries from an in-process cache.
// Errors are never cached.
type CachedSearcher struct {
	next  Searcher
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedSearcher decorates next with c
func NewCachedSearcher(next Searcher, c cache.Cache, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{next: next, cache: c, ttl: ttl}
}

// Search returns a cached result when one exists for (query, maxResults)
func (s *CachedSearcher) Search(ctx context.Context, query string, maxResults int) (*Result, error) {
	key := cache.Key("search", strings.ToLower(strings.TrimSpace(query)), strconv.Itoa(maxResults))

	if data, ok := s.cache.Get(key); ok {
		var cached Result
		if err := json.Unmarshal(data, &cached); err == nil {
			metrics.SearchCacheHits.Inc()
			return &cached, nil
		}
		_ = s.cache.Delete(key)
	}

	result, err := s.next.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		_ = s.cache.Set(key, data, s.ttl)
	}
	return result, nil
}
