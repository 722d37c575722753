package model

// Claim is a single verifiable factual assertion extracted from a document.
// The JSON names follow the extraction response contract.
type Claim struct {
	Text        string   `json:"claim"`                        // Verbatim assertion
	Category    Category `json:"category"`                     // One of the fixed categories
	Context     string   `json:"context,omitempty"`            // What the claim relates to
	SearchQuery string   `json:"verification_query,omitempty"` // Query used to verify the claim
}

// Category classifies the kind of fact a claim asserts
type Category string

const (
	CategoryStatistics     Category = "Statistics"
	CategoryDateTimeline   Category = "Date/Timeline"
	CategoryFinancial      Category = "Financial"
	CategoryTechnical      Category = "Technical"
	CategoryOrganizational Category = "Organizational"
	CategoryScientific     Category = "Scientific"
	CategoryUnknown        Category = "Unknown"
)

// Categories lists the categories the extractor asks for, in prompt order
func Categories() []Category {
	return []Category{
		CategoryStatistics,
		CategoryDateTimeline,
		CategoryFinancial,
		CategoryTechnical,
		CategoryOrganizational,
		CategoryScientific,
	}
}

// Known reports whether c is one of the fixed categories
func (c Category) Known() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Query returns the string to search for when verifying the claim
func (c Claim) Query() string {
	if q := trimmed(c.SearchQuery); q != "" {
		return q
	}
	return trimmed(c.Text)
}

// CategoryOrUnknown returns the claim category, or CategoryUnknown when blank
func (c Claim) CategoryOrUnknown() Category {
	return categoryOrUnknown(c.Category)
}

// Preview returns the first n runes of the claim text followed by "..."
func (c Claim) Preview(n int) string {
	runes := []rune(c.Text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}
