package verify

import (
	"fmt"
	"strings"

	"github.com/ppiankov/verifact/internal/search"
)

// MaxEvidenceSources caps the sources rendered into the evidence block
const MaxEvidenceSources = 5

// BuildEvidence flattens a search result into the text block shown to the
// judge: the provider answer first, then up to limit sources in provider order.
func BuildEvidence(result *search.Result, limit int) string {
	if result == nil {
		return ""
	}
	if limit <= 0 || limit > MaxEvidenceSources {
		limit = MaxEvidenceSources
	}

	blocks := make([]string, 0, limit+1)
	if answer := strings.TrimSpace(result.Answer); answer != "" {
		blocks = append(blocks, "AI Summary: "+answer)
	}

	for i, src := range result.Sources {
		if i >= limit {
			break
		}
		blocks = append(blocks, fmt.Sprintf("Source: %s\nTitle: %s\nContent: %s\n",
			orDefault(src.URL, "Unknown"),
			orDefault(src.Title, "No title"),
			orDefault(src.Content, "No content"),
		))
	}

	return strings.Join(blocks, "\n\n")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
