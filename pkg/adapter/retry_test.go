package adapter_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/memvault/memvault/pkg/adapter"
)

type flakyEmbedder struct {
	failures int
	calls    int
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, goerr.New("transient failure")
	}
	return []float32{1, 0, 0}, nil
}

func TestRetryEmbedderRecovers(t *testing.T) {
	inner := &flakyEmbedder{failures: 2}
	embedder := adapter.WithRetryEmbedder(inner, 2, time.Millisecond)

	vec, err := embedder.Embed(context.Background(), "hello")
	gt.NoError(t, err)
	gt.A(t, vec).Length(3)
	gt.Equal(t, inner.calls, 3)
}

func TestRetryEmbedderExhausted(t *testing.T) {
	inner := &flakyEmbedder{failures: 10}
	embedder := adapter.WithRetryEmbedder(inner, 2, time.Millisecond)

	_, err := embedder.Embed(context.Background(), "hello")
	gt.Error(t, err)
	gt.Equal(t, inner.calls, 3) // initial attempt + 2 retries
}

type flakyExtractor struct {
	failures int
	calls    int
}

func (f *flakyExtractor) Extract(ctx context.Context, input string) ([]string, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, goerr.New("transient failure")
	}
	return []string{"fact"}, nil
}

func TestRetryExtractorRecovers(t *testing.T) {
	inner := &flakyExtractor{failures: 1}
	extractor := adapter.WithRetryExtractor(inner, 2, time.Millisecond)

	facts, err := extractor.Extract(context.Background(), "raw input")
	gt.NoError(t, err)
	gt.A(t, facts).Length(1)
	gt.Equal(t, inner.calls, 2)
}

func TestRetryCancelledDuringBackoff(t *testing.T) {
	inner := &flakyEmbedder{failures: 10}
	embedder := adapter.WithRetryEmbedder(inner, 5, 10*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := embedder.Embed(ctx, "hello")
	gt.Error(t, err)
	gt.True(t, time.Since(start) < time.Second)
	gt.Equal(t, inner.calls, 1)
}
