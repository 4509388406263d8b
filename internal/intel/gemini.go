package intel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/icemedialab/varta/internal/model"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-pro"

// modelsClient is the part of genai.Models the generator calls.
type modelsClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type clientFactory func(ctx context.Context, apiKey string) (modelsClient, error)

func newGenaiClient(ctx context.Context, apiKey string) (modelsClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client.Models, nil
}

type GeminiConfig struct {
	APIKey          string
	Model           string
	SearchGrounding bool
	Prompts         *Prompts
	// Override, when set, is consulted before APIKey on every call.
	Override KeySource
	Logger   *slog.Logger
}

// GeminiGenerator implements Generator on top of google.golang.org/genai.
type GeminiGenerator struct {
	cfg       GeminiConfig
	newClient clientFactory

	mu      sync.Mutex
	clients map[string]modelsClient
}

func NewGeminiGenerator(cfg GeminiConfig) *GeminiGenerator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Prompts == nil {
		cfg.Prompts = DefaultPrompts()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &GeminiGenerator{
		cfg:       cfg,
		newClient: newGenaiClient,
		clients:   make(map[string]modelsClient),
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, q model.Query) (*model.Document, error) {
	key, err := g.apiKey(ctx)
	if err != nil {
		return nil, err
	}
	client, err := g.client(ctx, key)
	if err != nil {
		return nil, err
	}

	prompt, err := g.cfg.Prompts.Render(q)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := client.GenerateContent(ctx, g.cfg.Model, contents, g.contentConfig())
	if err != nil {
		g.cfg.Logger.Warn("gemini request failed", "keyword", q.Keyword, "err", err)
		return nil, classify(err)
	}

	doc, err := ParseDocument(responseText(resp))
	if err != nil {
		return nil, err
	}
	if sources := groundingSources(resp); len(sources) > 0 {
		doc.Sources = sources
	}
	return doc, nil
}

func (g *GeminiGenerator) contentConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.cfg.Prompts.SystemInstruction, genai.RoleUser),
	}
	// The search tool cannot be combined with a response schema.
	if g.cfg.SearchGrounding {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
		return cfg
	}
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = documentSchema()
	return cfg
}

func (g *GeminiGenerator) apiKey(ctx context.Context) (string, error) {
	if g.cfg.Override != nil {
		key, err := g.cfg.Override.APIKey(ctx)
		if err != nil {
			return "", fmt.Errorf("read alternate API key: %w", err)
		}
		if key != "" {
			return key, nil
		}
	}
	if g.cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}
	return g.cfg.APIKey, nil
}

func (g *GeminiGenerator) client(ctx context.Context, key string) (modelsClient, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients[key]; ok {
		return c, nil
	}
	c, err := g.newClient(ctx, key)
	if err != nil {
		return nil, err
	}
	g.clients[key] = c
	return c, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range c.Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func groundingSources(resp *genai.GenerateContentResponse) []model.Source {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var sources []model.Source
	seen := make(map[string]bool)
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		title := chunk.Web.Title
		if title == "" {
			title = chunk.Web.URI
		}
		sources = append(sources, model.Source{Title: title, URL: chunk.Web.URI})
	}
	return sources
}
