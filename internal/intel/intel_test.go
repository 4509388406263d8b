package intel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/icemedialab/varta/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const validDocument = `{
  "executiveSummary": {"meaning": "Chai is comfort", "whatIsWorking": "UGC reels"},
  "keywordInterpretation": {"culturalMeaning": "ritual", "emotionalAssociations": ["warmth"], "scenarios": ["morning"]},
  "demographics": [{"regionType": "Metro", "locations": "Mumbai", "ageGroup": "18-24", "language": "Hinglish", "culturalTone": "witty", "purchaseTrigger": "offers"}],
  "creativePatterns": {"topHooks": ["POV"], "visualStyles": "warm", "copyTone": "casual"},
  "audienceComparison": {"genZProfile": "a", "massProfile": "b", "dosAndDonts": [{"audience": "Gen Z", "dos": ["memes"], "donts": ["jargon"]}]},
  "brandStrategy": {"legacyApproach": "tv", "fmcgTips": "sachets", "pitfalls": "discounting"},
  "actionableAssets": {"copyFrameworks": ["PAS"], "reelHooks": ["wait for it"], "messagingAngles": ["nostalgia"]},
  "trendAlerts": {"opportunities": ["monsoon"], "saturationWarnings": ["masala"]}
}`

type fakeModels struct {
	calls  int
	model  string
	prompt string
	config *genai.GenerateContentConfig
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeModels) GenerateContent(_ context.Context, m string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = m
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(text, genai.RoleModel)}},
	}
}

type staticKey struct {
	key string
	err error
}

func (s staticKey) APIKey(context.Context) (string, error) { return s.key, s.err }

func newTestGenerator(t *testing.T, cfg GeminiConfig, fake *fakeModels) (*GeminiGenerator, *[]string) {
	t.Helper()
	g := NewGeminiGenerator(cfg)
	var keys []string
	g.newClient = func(_ context.Context, apiKey string) (modelsClient, error) {
		keys = append(keys, apiKey)
		return fake, nil
	}
	return g, &keys
}

var chai = model.Query{Keyword: "chai", Region: "All India", Platform: model.PlatformBoth}

func TestGenerate_Success(t *testing.T) {
	fake := &fakeModels{resp: textResponse(validDocument)}
	g, keys := newTestGenerator(t, GeminiConfig{APIKey: "env-key"}, fake)

	doc, err := g.Generate(context.Background(), chai)
	require.NoError(t, err)

	assert.Equal(t, "Chai is comfort", doc.ExecutiveSummary.Meaning)
	assert.Equal(t, []string{"env-key"}, *keys)
	assert.Equal(t, DefaultModel, fake.model)
	assert.Contains(t, fake.prompt, `TARGET: "chai"`)
	assert.Contains(t, fake.prompt, "Perform live deep-search")
	assert.Equal(t, "application/json", fake.config.ResponseMIMEType)
	require.NotNil(t, fake.config.ResponseSchema)
	assert.Contains(t, fake.config.ResponseSchema.Required, "executiveSummary")
	assert.Empty(t, fake.config.Tools)
}

func TestGenerate_CachesClientPerKey(t *testing.T) {
	fake := &fakeModels{resp: textResponse(validDocument)}
	g, keys := newTestGenerator(t, GeminiConfig{APIKey: "env-key"}, fake)

	for i := 0; i < 3; i++ {
		_, err := g.Generate(context.Background(), chai)
		require.NoError(t, err)
	}
	assert.Len(t, *keys, 1)
	assert.Equal(t, 3, fake.calls)
}

func TestGenerate_MalformedJSON(t *testing.T) {
	fake := &fakeModels{resp: textResponse(`{"executiveSummary": `)}
	g, _ := newTestGenerator(t, GeminiConfig{APIKey: "k"}, fake)

	_, err := g.Generate(context.Background(), chai)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestGenerate_EmptyResponse(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{}}
	g, _ := newTestGenerator(t, GeminiConfig{APIKey: "k"}, fake)

	_, err := g.Generate(context.Background(), chai)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerate_ErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"api 429", genai.APIError{Code: 429, Message: "quota", Status: "RESOURCE_EXHAUSTED"}, ErrQuotaExhausted},
		{"resource exhausted status", genai.APIError{Code: 400, Status: "RESOURCE_EXHAUSTED"}, ErrQuotaExhausted},
		{"flattened 429", errors.New("googleapi: Error 429: too many requests"), ErrQuotaExhausted},
		{"api 500", genai.APIError{Code: 500, Status: "INTERNAL"}, ErrUpstream},
		{"network", errors.New("dial tcp: connection refused"), ErrUpstream},
		{"canceled", fmt.Errorf("post: %w", context.Canceled), context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModels{err: tt.err}
			g, _ := newTestGenerator(t, GeminiConfig{APIKey: "k"}, fake)

			_, err := g.Generate(context.Background(), chai)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerate_AlternateKeyPreferred(t *testing.T) {
	fake := &fakeModels{resp: textResponse(validDocument)}
	g, keys := newTestGenerator(t, GeminiConfig{APIKey: "env-key", Override: staticKey{key: "vault-key"}}, fake)

	_, err := g.Generate(context.Background(), chai)
	require.NoError(t, err)
	assert.Equal(t, []string{"vault-key"}, *keys)
}

func TestGenerate_EmptyAlternateFallsBack(t *testing.T) {
	fake := &fakeModels{resp: textResponse(validDocument)}
	g, keys := newTestGenerator(t, GeminiConfig{APIKey: "env-key", Override: staticKey{}}, fake)

	_, err := g.Generate(context.Background(), chai)
	require.NoError(t, err)
	assert.Equal(t, []string{"env-key"}, *keys)
}

func TestGenerate_MissingKey(t *testing.T) {
	fake := &fakeModels{}
	g, _ := newTestGenerator(t, GeminiConfig{}, fake)

	_, err := g.Generate(context.Background(), chai)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Zero(t, fake.calls)
}

func TestGenerate_SearchGrounding(t *testing.T) {
	resp := textResponse("Here is the report:\n" + validDocument + "\nHope this helps.")
	resp.Candidates[0].GroundingMetadata = &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{URI: "https://a.example", Title: "A"}},
			{Web: &genai.GroundingChunkWeb{URI: "https://a.example", Title: "A again"}},
			{Web: &genai.GroundingChunkWeb{URI: "https://b.example"}},
			{},
		},
	}
	fake := &fakeModels{resp: resp}
	g, _ := newTestGenerator(t, GeminiConfig{APIKey: "k", SearchGrounding: true}, fake)

	doc, err := g.Generate(context.Background(), chai)
	require.NoError(t, err)

	require.Len(t, fake.config.Tools, 1)
	assert.NotNil(t, fake.config.Tools[0].GoogleSearch)
	assert.Nil(t, fake.config.ResponseSchema)
	assert.Equal(t, []model.Source{
		{Title: "A", URL: "https://a.example"},
		{Title: "https://b.example", URL: "https://b.example"},
	}, doc.Sources)
}

func TestParseDocument_StripsFences(t *testing.T) {
	doc, err := ParseDocument("```json\n" + validDocument + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "UGC reels", doc.ExecutiveSummary.WhatIsWorking)

	_, err = ParseDocument("   ")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = ParseDocument("not json at all")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParseDocument_RejectsNonDocuments(t *testing.T) {
	for _, text := range []string{
		"null",
		"```json\nnull\n```",
		"{}",
		"[]",
		`"just a string"`,
		`{"executiveSummary": {}, "demographics": []}`,
		`{"trendAlerts": {"opportunities": ["monsoon"]}}`,
	} {
		t.Run(text, func(t *testing.T) {
			doc, err := ParseDocument(text)
			assert.ErrorIs(t, err, ErrInvalidFormat)
			assert.Nil(t, doc)
		})
	}
}

func TestPrompts(t *testing.T) {
	p := DefaultPrompts()
	out, err := p.Render(model.Query{Keyword: "sneakers", Region: "Mumbai", Platform: model.PlatformInstagram, RawAdText: "ad copy here"})
	require.NoError(t, err)
	assert.Contains(t, out, `TARGET: "sneakers"`)
	assert.Contains(t, out, "GEOGRAPHY: Mumbai")
	assert.Contains(t, out, "CHANNELS: Instagram")
	assert.Contains(t, out, "DATA CONTEXT: ad copy here")
	assert.NotContains(t, out, "deep-search")

	_, err = ParsePrompts([]byte("system_instruction: hi\n"))
	assert.Error(t, err)

	_, err = ParsePrompts([]byte("system_instruction: hi\nreport_prompt: \"{{.Nope\"\n"))
	assert.Error(t, err)

	custom, err := ParsePrompts([]byte("system_instruction: be brief\nreport_prompt: \"kw={{.Keyword}}\"\n"))
	require.NoError(t, err)
	out, err = custom.Render(chai)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "kw=chai"))
}
