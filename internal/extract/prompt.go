package extract

import (
	"strings"

	"github.com/ppiankov/verifact/internal/model"
)

const promptHeader = `You are an expert fact-checker. Analyze the following document text and extract ALL verifiable claims that can be fact-checked against real-world data.

Focus on extracting:
1. Statistics and numerical data (percentages, amounts, counts)
2. Dates and timelines (when events occurred or will occur)
3. Financial figures (prices, GDP, market values, stock prices)
4. Technical specifications and product details
5. Company/organization statements and announcements
6. Scientific or factual assertions

For EACH claim, provide:
- claim: The exact claim as stated in the document
- category: One of [`

const promptFields = `]
- context: Brief context about what the claim relates to
- verification_query: A specific search query to verify this claim

Return your response as a JSON array of claim objects.

DOCUMENT TEXT:
`

const promptFooter = `

IMPORTANT: Extract ALL factual claims, especially those involving specific numbers, dates, or named entities. Be thorough - the goal is to verify every checkable fact in the document.

Return ONLY valid JSON array, no additional text.`

// BuildPrompt embeds already-truncated document text in the extraction prompt
func BuildPrompt(documentText string) string {
	categories := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		categories = append(categories, string(c))
	}

	var b strings.Builder
	b.Grow(len(promptHeader) + len(promptFields) + len(promptFooter) + len(documentText) + 100)
	b.WriteString(promptHeader)
	b.WriteString(strings.Join(categories, ", "))
	b.WriteString(promptFields)
	b.WriteString(documentText)
	b.WriteString(promptFooter)
	return b.String()
}
