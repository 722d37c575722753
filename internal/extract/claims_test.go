package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/logging"
	"github.com/ppiankov/verifact/internal/model"
)

type fakeProvider struct {
	response string
	err      error
	requests []llm.CompletionRequest
}

func (f *fakeProvider) Name() string                      { return "fake" }
func (f *fakeProvider) IsAvailable(_ context.Context) bool { return true }
func (f *fakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Text: f.response}, nil
}

func newExtractor(t *testing.T, p llm.Provider) *ClaimExtractor {
	return NewClaimExtractor(p, model.DefaultConfig().LLM, logging.NewTestLogger(t))
}

func TestExtract_SingleClaim(t *testing.T) {
	p := &fakeProvider{response: `[{"claim": "Company X grew revenue 40% in 2023.", "category": "Financial", "context": "Company X annual results", "verification_query": "Company X revenue growth 2023"}]`}

	claims, err := newExtractor(t, p).Extract(context.Background(), "Company X grew revenue 40% in 2023.")
	require.NoError(t, err)
	require.Len(t, claims, 1)

	assert.Equal(t, "Company X grew revenue 40% in 2023.", claims[0].Text)
	assert.Equal(t, model.CategoryFinancial, claims[0].Category)
	assert.Equal(t, "Company X revenue growth 2023", claims[0].SearchQuery)

	require.Len(t, p.requests, 1)
	assert.Equal(t, 4000, p.requests[0].MaxTokens)
	assert.InDelta(t, 0.1, p.requests[0].Temperature, 1e-9)
	assert.Contains(t, p.requests[0].Prompt, "Company X grew revenue 40% in 2023.")
}

func TestExtract_ZeroTemperatureIsHonoured(t *testing.T) {
	cfg := model.DefaultConfig().LLM
	cfg.Temperature = 0
	p := &fakeProvider{response: `[]`}

	_, err := NewClaimExtractor(p, cfg, logging.NewTestLogger(t)).Extract(context.Background(), "doc")
	require.NoError(t, err)
	require.Len(t, p.requests, 1)
	assert.Zero(t, p.requests[0].Temperature)
}

func TestExtract_WrapsBareObject(t *testing.T) {
	p := &fakeProvider{response: "```json\n{\"claim\": \"Water boils at 100C at sea level.\", \"category\": \"Scientific\"}\n```"}

	claims, err := newExtractor(t, p).Extract(context.Background(), "doc")
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, model.CategoryScientific, claims[0].Category)
}

func TestExtract_EmptyArrayIsZeroClaims(t *testing.T) {
	p := &fakeProvider{response: "[]"}

	claims, err := newExtractor(t, p).Extract(context.Background(), "Nothing factual here.")
	require.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Empty(t, claims)
}

func TestExtract_InvalidJSONIsParseError(t *testing.T) {
	for _, response := range []string{"I could not find any claims.", `[{"claim": "x"`, `"just a string"`, ""} {
		p := &fakeProvider{response: response}

		claims, err := newExtractor(t, p).Extract(context.Background(), "doc")
		require.Error(t, err, response)
		assert.Nil(t, claims)

		var xe *model.ExtractionError
		require.True(t, errors.As(err, &xe), response)
		assert.Equal(t, model.ExtractionParse, xe.Kind, response)
	}
}

func TestExtract_CompletionFailure(t *testing.T) {
	p := &fakeProvider{err: &llm.CompletionError{Provider: "fake", Err: errors.New("503")}}

	_, err := newExtractor(t, p).Extract(context.Background(), "doc")
	var xe *model.ExtractionError
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, model.ExtractionCompletion, xe.Kind)
	assert.ErrorIs(t, err, llm.ErrCompletionFailed)
}

func TestExtract_MissingCredentialPassesThrough(t *testing.T) {
	p := &fakeProvider{err: llm.ErrMissingCredential}

	_, err := newExtractor(t, p).Extract(context.Background(), "doc")
	assert.ErrorIs(t, err, llm.ErrMissingCredential)
	var xe *model.ExtractionError
	assert.False(t, errors.As(err, &xe))
}

func TestExtract_BlankDocument(t *testing.T) {
	p := &fakeProvider{response: "[]"}

	_, err := newExtractor(t, p).Extract(context.Background(), "  \n\t ")
	var xe *model.ExtractionError
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, model.ExtractionNoText, xe.Kind)
	assert.Empty(t, p.requests)
}

func TestExtract_DropsEmptyClaims(t *testing.T) {
	p := &fakeProvider{response: `[{"claim": "  "}, {"claim": "Paris is the capital of France.", "category": "Geography"}]`}

	claims, err := newExtractor(t, p).Extract(context.Background(), "doc")
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, model.Category("Geography"), claims[0].Category, "unknown categories are kept verbatim")
}

func TestExtract_TruncatesLongDocuments(t *testing.T) {
	p := &fakeProvider{response: "[]"}
	doc := strings.Repeat("a", MaxDocumentChars) + "TAIL-BEYOND-BUDGET"

	_, err := newExtractor(t, p).Extract(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, p.requests, 1)

	prompt := p.requests[0].Prompt
	assert.Contains(t, prompt, TruncationMarker)
	assert.NotContains(t, prompt, "TAIL-BEYOND-BUDGET")
}

func TestTruncate(t *testing.T) {
	out, cut := Truncate("short", 10)
	assert.False(t, cut)
	assert.Equal(t, "short", out)

	// Budget counts runes, not bytes
	out, cut = Truncate("ééé", 3)
	assert.False(t, cut)
	assert.Equal(t, "ééé", out)

	out, cut = Truncate("ééééé", 3)
	assert.True(t, cut)
	assert.Equal(t, "ééé"+TruncationMarker, out)
}

func TestParseClaims_FencedMatchesUnfenced(t *testing.T) {
	raw := `[{"claim": "a", "category": "Technical"}, {"claim": "b", "category": "Statistics"}]`

	plain, err := ParseClaims(raw)
	require.NoError(t, err)

	for _, fenced := range []string{"```json\n" + raw + "\n```", "```\n" + raw + "\n```", "  ```JSON\n" + raw + "```  "} {
		got, err := ParseClaims(fenced)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("DOC")

	assert.Contains(t, prompt, "Statistics, Date/Timeline, Financial, Technical, Organizational, Scientific")
	for _, field := range []string{"claim:", "category:", "context:", "verification_query:"} {
		assert.Contains(t, prompt, field)
	}
	assert.Contains(t, prompt, "DOCUMENT TEXT:\nDOC")
}
