package memory

import (
	"time"

	"github.com/memvault/memvault/pkg/adapter"
	"github.com/memvault/memvault/pkg/index"
	"github.com/memvault/memvault/pkg/repository"
)

const (
	defaultSimilarityThreshold = 0.9
	defaultTopK                = 10
	defaultMaxRetries          = 2
	defaultBaseDelay           = 500 * time.Millisecond
)

// UseCase is the memory lifecycle engine. It owns all transitions of memory
// records and is the only writer of both the durable record store and the
// vector index.
type UseCase struct {
	repo      repository.Repository
	idx       index.Index
	embedder  adapter.Embedder
	extractor adapter.Extractor
	locks     *lockTable

	similarityThreshold float64
	mergeStrategy       MergeStrategy
	maxRetries          int
	baseDelay           time.Duration
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithSimilarityThreshold sets the merge-vs-create cutoff for add operations
func WithSimilarityThreshold(threshold float64) Option {
	return func(uc *UseCase) {
		uc.similarityThreshold = threshold
	}
}

// WithMergeStrategy selects how a matched candidate merges into an existing
// memory
func WithMergeStrategy(strategy MergeStrategy) Option {
	return func(uc *UseCase) {
		uc.mergeStrategy = strategy
	}
}

// WithRetry sets the bounded retry policy for upstream collaborator calls
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(uc *UseCase) {
		uc.maxRetries = maxRetries
		uc.baseDelay = baseDelay
	}
}

// New creates a new memory lifecycle engine. Calls to the embedder and
// extractor are retried with exponential backoff per the retry options.
func New(
	repo repository.Repository,
	idx index.Index,
	embedder adapter.Embedder,
	extractor adapter.Extractor,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo:      repo,
		idx:       idx,
		locks:     newLockTable(),

		similarityThreshold: defaultSimilarityThreshold,
		mergeStrategy:       MergeStrategyReplace,
		maxRetries:          defaultMaxRetries,
		baseDelay:           defaultBaseDelay,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.embedder = adapter.WithRetryEmbedder(embedder, uc.maxRetries, uc.baseDelay)
	uc.extractor = adapter.WithRetryExtractor(extractor, uc.maxRetries, uc.baseDelay)

	return uc
}
