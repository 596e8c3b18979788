// Package mock provides deterministic collaborator fakes for tests and
// local operation without cloud credentials.
package mock

import (
	"context"
	"hash/fnv"
	"math"
	"sync/atomic"
)

// Embedder generates deterministic embeddings from a text hash. Identical
// text always yields the identical unit vector, so similarity comparisons
// behave consistently across test runs.
type Embedder struct {
	dimensions int
	calls      atomic.Int64

	// Fixed pins specific texts to specific vectors so tests can control
	// similarity between chosen inputs.
	Fixed map[string][]float32

	// FailOn makes Embed fail for specific texts.
	FailOn map[string]error
}

func NewEmbedder() *Embedder {
	return &Embedder{dimensions: 384}
}

func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls.Add(1)

	if err, ok := m.FailOn[text]; ok {
		return nil, err
	}
	if vec, ok := m.Fixed[text]; ok {
		return vec, nil
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	embedding := make([]float32, m.dimensions)
	for i := 0; i < m.dimensions; i++ {
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(embedding), nil
}

func (m *Embedder) Dimensions() int {
	return m.dimensions
}

// Calls returns how many times Embed was invoked.
func (m *Embedder) Calls() int64 {
	return m.calls.Load()
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	for i, v := range vec {
		vec[i] = v / norm
	}
	return vec
}

// Extractor returns a scripted list of facts for any input.
type Extractor struct {
	Facts []string
	Err   error
}

func NewExtractor(facts ...string) *Extractor {
	return &Extractor{Facts: facts}
}

func (m *Extractor) Extract(ctx context.Context, input string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Facts, nil
}
