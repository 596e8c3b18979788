package adapter

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
)

// Embedder converts text into a fixed-dimension embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Extractor turns raw conversational input into discrete candidate memory
// statements. An empty result means the input contained nothing worth
// remembering.
type Extractor interface {
	Extract(ctx context.Context, input string) ([]string, error)
}

//go:embed prompt/extract.md
var extractPromptRaw string

var extractPromptTmpl = template.Must(template.New("extract").Parse(extractPromptRaw))

// buildExtractPrompt renders the shared fact extraction prompt.
func buildExtractPrompt(input string) (string, error) {
	var buf bytes.Buffer
	if err := extractPromptTmpl.Execute(&buf, map[string]any{
		"Input": input,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to execute extract prompt template")
	}
	return buf.String(), nil
}

type extractResponse struct {
	Facts []string `json:"facts"`
}

// parseFacts decodes the JSON object returned by either extractor backend.
// Some models wrap JSON in a markdown code fence, so strip it first.
func parseFacts(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var resp extractResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to parse extracted facts", goerr.Value("raw", raw))
	}

	facts := make([]string, 0, len(resp.Facts))
	for _, f := range resp.Facts {
		f = strings.TrimSpace(f)
		if f != "" {
			facts = append(facts, f)
		}
	}
	return facts, nil
}
