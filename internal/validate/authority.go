// Package validate grades the sources a verdict cites by how authoritative
// their publisher is.
package validate

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/verifact/internal/model"
)

// AuthorityClassifier classifies cited URLs into authority tiers
type AuthorityClassifier struct {
	domainMap    map[string]model.AuthorityTier
	primary      []string // Longest first so the most specific suffix wins
	secondary    []string
	pathPatterns []compiledPattern
}

type compiledPattern struct {
	pattern *regexp.Regexp
	tier    model.AuthorityTier
}

// CitedSource is a verdict source annotated with its tier
type CitedSource struct {
	URL  string              `json:"url"`
	Host string              `json:"host"`
	Tier model.AuthorityTier `json:"tier"`
}

// NewAuthorityClassifier creates a classifier. A nil config uses the defaults.
// Path patterns that do not compile are ignored.
func NewAuthorityClassifier(config *model.AuthorityConfig) *AuthorityClassifier {
	if config == nil {
		config = &model.DefaultConfig().Authority
	}

	a := &AuthorityClassifier{
		domainMap: make(map[string]model.AuthorityTier, len(config.DomainMap)),
		primary:   normalizeDomains(config.PrimaryDomains),
		secondary: normalizeDomains(config.SecondaryDomains),
	}

	for host, tier := range config.DomainMap {
		a.domainMap[normalizeHost(host)] = parseTierString(tier)
	}

	for _, pp := range config.PathPatterns {
		re, err := regexp.Compile(pp.Pattern)
		if err != nil {
			continue
		}
		a.pathPatterns = append(a.pathPatterns, compiledPattern{pattern: re, tier: parseTierString(pp.Tier)})
	}

	return a
}

// Classify classifies a URL into an authority tier. Unparseable URLs are tertiary.
func (a *AuthorityClassifier) Classify(rawURL string) model.AuthorityTier {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return model.TierTertiary
	}

	host := normalizeHost(parsed.Hostname())

	if tier, ok := a.domainMap[host]; ok {
		return tier
	}
	if matchesAny(host, a.primary) {
		return model.TierPrimary
	}
	if matchesAny(host, a.secondary) {
		return model.TierSecondary
	}

	for _, cp := range a.pathPatterns {
		if cp.pattern.MatchString(parsed.Path) {
			return cp.tier
		}
	}

	// Government and academic hosts
	for _, suffix := range []string{".gov", ".edu", ".gov.uk", ".ac.uk", ".europa.eu", ".int"} {
		if strings.HasSuffix(host, suffix) {
			return model.TierPrimary
		}
	}

	return model.TierTertiary
}

// Annotate classifies up to limit sources, preserving their order.
// A non-positive limit keeps every source.
func (a *AuthorityClassifier) Annotate(sources []string, limit int) []CitedSource {
	if limit <= 0 || limit > len(sources) {
		limit = len(sources)
	}

	out := make([]CitedSource, 0, limit)
	for _, src := range sources[:limit] {
		cs := CitedSource{URL: src, Tier: a.Classify(src)}
		if u, err := url.Parse(strings.TrimSpace(src)); err == nil {
			cs.Host = normalizeHost(u.Hostname())
		}
		out = append(out, cs)
	}
	return out
}

// BestTier returns the strongest tier among sources, or TierUnknown when
// there are none
func (a *AuthorityClassifier) BestTier(sources []string) model.AuthorityTier {
	best := model.TierUnknown
	for _, src := range sources {
		tier := a.Classify(src)
		if best == model.TierUnknown || tier < best {
			best = tier
		}
	}
	return best
}

func matchesAny(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(host), "."))
	return strings.TrimPrefix(host, "www.")
}

func normalizeDomains(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		if d = normalizeHost(d); d != "" {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// parseTierString converts a tier string to AuthorityTier
func parseTierString(tier string) model.AuthorityTier {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case "primary", "1":
		return model.TierPrimary
	case "secondary", "2":
		return model.TierSecondary
	default:
		return model.TierTertiary
	}
}
