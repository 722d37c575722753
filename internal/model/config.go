package model

import "time"

// Config is the complete runtime configuration. It is built once at startup
// and handed to the components that need it.
type Config struct {
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Search       SearchConfig      `yaml:"search" mapstructure:"search"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
	Log          LogConfig         `yaml:"log" mapstructure:"log"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
	Authority    AuthorityConfig   `yaml:"authority" mapstructure:"authority"`
}

// LLMConfig configures the judgment provider
type LLMConfig struct {
	Provider              string  `yaml:"provider" mapstructure:"provider" validate:"oneof=openrouter openai anthropic claude ollama"`
	Model                 string  `yaml:"model" mapstructure:"model"`
	APIKey                string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL               string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout               int     `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"` // seconds
	Temperature           float64 `yaml:"temperature" mapstructure:"temperature" validate:"gte=0,lte=2"`
	ExtractionMaxTokens   int     `yaml:"extraction_max_tokens" mapstructure:"extraction_max_tokens" validate:"gte=0"`
	VerificationMaxTokens int     `yaml:"verification_max_tokens" mapstructure:"verification_max_tokens" validate:"gte=0"`
	HTTPProxy             string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy            string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// SearchConfig configures the web search provider
type SearchConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider" validate:"oneof=tavily"`
	APIKey     string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Depth      string `yaml:"depth" mapstructure:"depth" validate:"oneof=basic advanced"`
	MaxResults int    `yaml:"max_results" mapstructure:"max_results" validate:"min=1,max=20"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// ConcurrencyConfig bounds parallel claim verification
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers" validate:"min=1,max=64"` // 1 = strictly sequential
}

// RateLimitConfig limits calls per provider. The search and judgment
// fields override the shared rate for one gateway; 0 inherits it.
type RateLimitConfig struct {
	RequestsPerSecond         float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gte=0"` // 0 = unlimited
	BurstSize                 int     `yaml:"burst_size" mapstructure:"burst_size" validate:"gte=0"`
	SearchRequestsPerSecond   float64 `yaml:"search_requests_per_second" mapstructure:"search_requests_per_second" validate:"gte=0"`
	SearchBurst               int     `yaml:"search_burst" mapstructure:"search_burst" validate:"gte=0"`
	JudgmentRequestsPerSecond float64 `yaml:"judgment_requests_per_second" mapstructure:"judgment_requests_per_second" validate:"gte=0"`
	JudgmentBurst             int     `yaml:"judgment_burst" mapstructure:"judgment_burst" validate:"gte=0"`
}

// CacheConfig controls the in-process search cache. Nothing is written to disk.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
	MaxSources    int  `yaml:"max_sources" mapstructure:"max_sources" validate:"gte=0"` // Source links shown per verdict
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=console json"`
}

// ServerConfig configures the HTTP mode
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes" validate:"gt=0"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// AuthorityConfig drives source authority classification
type AuthorityConfig struct {
	PrimaryDomains   []string          `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string          `yaml:"secondary_domains" mapstructure:"secondary_domains"`
	DomainMap        map[string]string `yaml:"domain_map,omitempty" mapstructure:"domain_map"`
	PathPatterns     []PathPattern     `yaml:"path_patterns,omitempty" mapstructure:"path_patterns"`
}

// PathPattern assigns a tier to URLs whose path matches Pattern
type PathPattern struct {
	Pattern string `yaml:"pattern" mapstructure:"pattern"`
	Tier    string `yaml:"tier" mapstructure:"tier"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:              "openrouter",
			Model:                 "google/gemma-2-9b-it",
			Timeout:               60,
			Temperature:           0.1,
			ExtractionMaxTokens:   4000,
			VerificationMaxTokens: 1000,
		},
		Search: SearchConfig{
			Provider:   "tavily",
			BaseURL:    "https://api.tavily.com",
			Depth:      "advanced",
			MaxResults: 5,
			Timeout:    30,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Minute,
		},
		Output: OutputConfig{
			IncludeFooter: true,
			MaxSources:    3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 10 << 20,
			RequestTimeout: 10 * time.Minute,
		},
		Authority: AuthorityConfig{
			PrimaryDomains: []string{
				"sec.gov", "europa.eu", "who.int", "worldbank.org", "imf.org",
				"oecd.org", "census.gov", "bls.gov", "doi.org", "nature.com",
				"science.org", "nih.gov", "arxiv.org",
			},
			SecondaryDomains: []string{
				"wikipedia.org", "reuters.com", "apnews.com", "bbc.co.uk", "bbc.com",
				"ft.com", "bloomberg.com", "wsj.com", "nytimes.com", "theguardian.com",
				"economist.com", "statista.com",
			},
		},
	}
}

// AuthorityTier represents the classification of source authority
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0 // Not yet classified
	TierPrimary   AuthorityTier = 1 // Regulators, statistics offices, journals
	TierSecondary AuthorityTier = 2 // Encyclopedias, wire services, major press
	TierTertiary  AuthorityTier = 3 // Blogs, marketing pages, everything else
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}
