package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
	"google.golang.org/genai"
)

// Gemini backs both collaborator roles with Vertex AI: the embedding gateway
// and the fact extractor (structured JSON output).
type Gemini interface {
	Embedder
	Extractor
}

type GeminiClient struct {
	client          *genai.Client
	generativeModel string
	embeddingModel  string
}

type GeminiOption func(*GeminiClient)

func WithGenerativeModel(m string) GeminiOption {
	return func(g *GeminiClient) {
		g.generativeModel = m
	}
}

func WithEmbeddingModel(m string) GeminiOption {
	return func(g *GeminiClient) {
		g.embeddingModel = m
	}
}

func NewGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GeminiClient{
		client:          client,
		generativeModel: "gemini-2.5-flash",
		embeddingModel:  "gemini-embedding-001",
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Embed converts text into an embedding vector.
func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.client.Models.EmbedContent(ctx, g.embeddingModel, genai.Text(text), &genai.EmbedContentConfig{})
	if err != nil {
		return nil, goerr.Wrap(model.ErrEmbeddingFailed, "embed content call failed", goerr.Value("cause", err.Error()))
	}
	if resp == nil || len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, goerr.Wrap(model.ErrEmbeddingFailed, "empty embedding response")
	}

	return resp.Embeddings[0].Values, nil
}

// Extract asks the generative model for candidate memory statements using a
// JSON response schema, so no free-text parsing is needed.
func (g *GeminiClient) Extract(ctx context.Context, input string) ([]string, error) {
	prompt, err := buildExtractPrompt(input)
	if err != nil {
		return nil, goerr.Wrap(model.ErrExtractionFailed, "failed to build prompt", goerr.Value("cause", err.Error()))
	}

	thinkingBudget := int32(0)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  &thinkingBudget,
		},
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"facts": {
					Type:        genai.TypeArray,
					Description: "Distinct standalone facts worth remembering",
					Items: &genai.Schema{
						Type: genai.TypeString,
					},
				},
			},
			Required: []string{"facts"},
		},
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, config)
	if err != nil {
		return nil, goerr.Wrap(model.ErrExtractionFailed, "generate content call failed", goerr.Value("cause", err.Error()))
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, goerr.Wrap(model.ErrExtractionFailed, "invalid response structure from gemini")
	}

	var raw string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			raw = part.Text
			break
		}
	}

	facts, err := parseFacts(raw)
	if err != nil {
		return nil, goerr.Wrap(model.ErrExtractionFailed, "unparsable extraction output", goerr.Value("cause", err.Error()))
	}

	return facts, nil
}
