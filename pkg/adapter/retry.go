package adapter

import (
	"context"
	"time"
)

// Upstream calls to the embedding gateway and the fact extractor are
// retried with exponential backoff before the failure surfaces to the
// engine. Retry count and base delay are configuration, not constants.

const maxBackoff = 30 * time.Second

// RetryEmbedder wraps an Embedder with bounded retries.
type RetryEmbedder struct {
	inner      Embedder
	maxRetries int
	baseDelay  time.Duration
}

func WithRetryEmbedder(e Embedder, maxRetries int, baseDelay time.Duration) *RetryEmbedder {
	return &RetryEmbedder{inner: e, maxRetries: maxRetries, baseDelay: baseDelay}
}

func (r *RetryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		vec, err := r.inner.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
		if attempt == r.maxRetries {
			break
		}
		if err := backoff(ctx, r.baseDelay, attempt); err != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// RetryExtractor wraps an Extractor with bounded retries.
type RetryExtractor struct {
	inner      Extractor
	maxRetries int
	baseDelay  time.Duration
}

func WithRetryExtractor(e Extractor, maxRetries int, baseDelay time.Duration) *RetryExtractor {
	return &RetryExtractor{inner: e, maxRetries: maxRetries, baseDelay: baseDelay}
}

func (r *RetryExtractor) Extract(ctx context.Context, input string) ([]string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		facts, err := r.inner.Extract(ctx, input)
		if err == nil {
			return facts, nil
		}
		lastErr = err
		if attempt == r.maxRetries {
			break
		}
		if err := backoff(ctx, r.baseDelay, attempt); err != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func backoff(ctx context.Context, base time.Duration, attempt int) error {
	delay := base << attempt
	if delay > maxBackoff || delay <= 0 {
		delay = maxBackoff
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
