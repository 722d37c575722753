package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/verifact/internal/metrics"
	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/util"
)

const (
	ProviderTavily = "tavily"

	// LimiterKey is the rate limiter key every Tavily call waits on
	LimiterKey = "search:" + ProviderTavily

	// DefaultTavilyURL is the public Tavily API
	DefaultTavilyURL = "https://api.tavily.com"
)

// Waiter blocks until a call for key may proceed
type Waiter interface {
	Wait(ctx context.Context, key string) error
}

// TavilyClient searches through the Tavily API
type TavilyClient struct {
	apiKey     string
	baseURL    string
	depth      string
	httpClient *http.Client
	limiter    Waiter
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Answer  string   `json:"answer"`
	Results []Source `json:"results"`
}

// NewTavilyClient creates a Tavily client from search config. limiter may be nil.
func NewTavilyClient(config model.SearchConfig, limiter Waiter) (*TavilyClient, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, fmt.Errorf("tavily: %w", ErrMissingCredential)
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultTavilyURL
	}
	depth := config.Depth
	if depth == "" {
		depth = "advanced"
	}

	return &TavilyClient{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		depth:      depth,
		httpClient: util.NewHTTPClient(config.Timeout, 30*time.Second, config.HTTPProxy, config.HTTPSProxy),
		limiter:    limiter,
	}, nil
}

// Search posts one query to Tavily. Failures are never retried.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &SearchError{Kind: KindInvalidQuery, Err: ErrEmptyQuery}
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, LimiterKey); err != nil {
			return nil, &SearchError{Kind: KindTransport, Query: query, Err: err}
		}
	}

	start := time.Now()
	defer func() {
		metrics.GatewayRequestDuration.WithLabelValues("search", ProviderTavily).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(tavilyRequest{
		APIKey:        c.apiKey,
		Query:         query,
		SearchDepth:   c.depth,
		MaxResults:    maxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, &SearchError{Kind: KindDecode, Query: query, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, &SearchError{Kind: KindTransport, Query: query, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SearchError{Kind: KindTransport, Query: query, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, &SearchError{Kind: KindTransport, Query: query, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &SearchError{
			Kind:  KindProvider,
			Query: query,
			Err:   fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 200)),
		}
	}

	var tr tavilyResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return nil, &SearchError{Kind: KindDecode, Query: query, Err: fmt.Errorf("unmarshal response: %w", err)}
	}

	sources := tr.Results
	if sources == nil {
		sources = []Source{}
	}
	if len(sources) > maxResults {
		sources = sources[:maxResults]
	}

	return &Result{Query: query, Answer: tr.Answer, Sources: sources}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
