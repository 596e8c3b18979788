package adapter

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestParseFacts(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		facts, err := parseFacts(`{"facts": ["likes hiking", "lives in Denver"]}`)
		gt.NoError(t, err)
		gt.A(t, facts).Length(2)
		gt.Equal(t, facts[0], "likes hiking")
		gt.Equal(t, facts[1], "lives in Denver")
	})

	t.Run("fenced JSON", func(t *testing.T) {
		facts, err := parseFacts("```json\n{\"facts\": [\"lives in Boulder\"]}\n```")
		gt.NoError(t, err)
		gt.A(t, facts).Length(1)
		gt.Equal(t, facts[0], "lives in Boulder")
	})

	t.Run("empty and whitespace facts dropped", func(t *testing.T) {
		facts, err := parseFacts(`{"facts": ["", "  ", "has a dog"]}`)
		gt.NoError(t, err)
		gt.A(t, facts).Length(1)
		gt.Equal(t, facts[0], "has a dog")
	})

	t.Run("no facts", func(t *testing.T) {
		facts, err := parseFacts(`{"facts": []}`)
		gt.NoError(t, err)
		gt.A(t, facts).Length(0)
	})

	t.Run("not JSON", func(t *testing.T) {
		_, err := parseFacts("I could not find any facts")
		gt.Error(t, err)
	})
}

func TestBuildExtractPrompt(t *testing.T) {
	prompt, err := buildExtractPrompt("I like hiking and I live in Denver")
	gt.NoError(t, err)
	gt.S(t, prompt).Contains("I like hiking and I live in Denver")
	gt.S(t, prompt).Contains(`"facts"`)
}
