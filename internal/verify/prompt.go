package verify

import (
	"strings"

	"github.com/ppiankov/verifact/internal/model"
)

const verificationPrompt = `You are an expert fact-checker. Analyze the following claim against the search results and determine its accuracy.

CLAIM TO VERIFY:
{claim}

CLAIM CONTEXT:
{context}

SEARCH RESULTS:
{search_results}

Analyze the claim and search results, then provide your assessment in the following JSON format:
{
    "status": "Verified" | "Inaccurate" | "False" | "Unverifiable",
    "confidence": 0.0-1.0,
    "explanation": "Brief explanation of why this claim is verified/inaccurate/false",
    "correct_information": "If the claim is inaccurate or false, provide the correct information found. Otherwise, leave empty.",
    "sources": ["List of source URLs that support your conclusion"]
}

IMPORTANT GUIDELINES:
- "Verified": The claim matches current, reliable data
- "Inaccurate": The claim contains outdated or partially incorrect information (e.g., old statistics)
- "False": The claim is demonstrably wrong or no evidence supports it
- "Unverifiable": Cannot determine accuracy from available sources

Pay special attention to:
- Dates and whether information might be outdated
- Specific numbers that may have changed
- Events that may or may not have occurred

Return ONLY valid JSON, no additional text.`

// BuildPrompt embeds the claim and its evidence in the verification prompt
func BuildPrompt(claim model.Claim, evidence string) string {
	// Single pass so placeholder-like text inside the claim is left alone
	r := strings.NewReplacer(
		"{claim}", claim.Text,
		"{context}", claim.Context,
		"{search_results}", evidence,
	)
	return r.Replace(verificationPrompt)
}
