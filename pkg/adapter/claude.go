package adapter

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
)

// ClaudeExtractor is an Extractor backed by the Anthropic API. It is an
// alternative to the Gemini extractor, selected by configuration.
type ClaudeExtractor struct {
	client *anthropic.Client
	model  anthropic.Model
}

type ClaudeOption func(*ClaudeExtractor)

func WithClaudeModel(m anthropic.Model) ClaudeOption {
	return func(c *ClaudeExtractor) {
		c.model = m
	}
}

// NewClaude creates a new Anthropic-backed fact extractor.
func NewClaude(apiKey string, opts ...ClaudeOption) *ClaudeExtractor {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	c := &ClaudeExtractor{
		client: &client,
		model:  anthropic.ModelClaude3_5Sonnet20241022,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Extract sends the extraction prompt and parses the JSON body out of the
// text response. Claude has no structured-output mode, so the prompt pins
// the output format and parseFacts tolerates a code fence.
func (c *ClaudeExtractor) Extract(ctx context.Context, input string) ([]string, error) {
	prompt, err := buildExtractPrompt(input)
	if err != nil {
		return nil, goerr.Wrap(model.ErrExtractionFailed, "failed to build prompt", goerr.Value("cause", err.Error()))
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, goerr.Wrap(model.ErrExtractionFailed, "anthropic api error", goerr.Value("cause", err.Error()))
	}

	var raw string
	for _, block := range resp.Content {
		if block.Type == "text" {
			raw = block.AsText().Text
			break
		}
	}
	if raw == "" {
		return nil, goerr.Wrap(model.ErrExtractionFailed, "empty response from claude")
	}

	facts, err := parseFacts(raw)
	if err != nil {
		return nil, goerr.Wrap(model.ErrExtractionFailed, "unparsable extraction output", goerr.Value("cause", err.Error()))
	}

	return facts, nil
}
