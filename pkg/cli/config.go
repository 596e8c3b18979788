package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/adapter"
	"github.com/memvault/memvault/pkg/index"
	"github.com/memvault/memvault/pkg/repository"
	"github.com/memvault/memvault/pkg/usecase/memory"
	"github.com/memvault/memvault/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	logLevel string

	// Stores
	project   string
	database  string
	indexPath string

	// Adapters
	anthropicAPIKey string
	geminiProject   string
	geminiLocation  string
	extractor       string
	embedCacheMB    int64

	// Engine
	similarityThreshold float64
	mergeStrategy       string
	maxRetries          int64
	baseDelay           time.Duration
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("MEMVAULT_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID for Firestore (empty runs the in-process store)",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "index-path",
			Usage:       "Directory for the persistent vector index (empty keeps it in memory)",
			Sources:     cli.EnvVars("MEMVAULT_INDEX_PATH"),
			Destination: &cfg.indexPath,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key (required when --extractor=claude)",
			Sources:     cli.EnvVars("ANTHROPIC_API_KEY"),
			Destination: &cfg.anthropicAPIKey,
		},
		&cli.StringFlag{
			Name:        "extractor",
			Usage:       "Fact extraction backend (gemini or claude)",
			Value:       "gemini",
			Sources:     cli.EnvVars("MEMVAULT_EXTRACTOR"),
			Destination: &cfg.extractor,
		},
		&cli.IntFlag{
			Name:        "embed-cache-mb",
			Usage:       "In-process embedding cache size in MiB (0 disables)",
			Value:       32,
			Sources:     cli.EnvVars("MEMVAULT_EMBED_CACHE_MB"),
			Destination: &cfg.embedCacheMB,
		},
	}
}

// engineFlags returns flags tuning the lifecycle engine
func engineFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{
			Name:        "similarity-threshold",
			Usage:       "Cosine similarity at or above which a candidate merges into an existing memory",
			Value:       0.9,
			Sources:     cli.EnvVars("MEMVAULT_SIMILARITY_THRESHOLD"),
			Destination: &cfg.similarityThreshold,
		},
		&cli.StringFlag{
			Name:        "merge-strategy",
			Usage:       "How a matched candidate merges (replace or append)",
			Value:       string(memory.MergeStrategyReplace),
			Sources:     cli.EnvVars("MEMVAULT_MERGE_STRATEGY"),
			Destination: &cfg.mergeStrategy,
		},
		&cli.IntFlag{
			Name:        "max-retries",
			Usage:       "Retry count for embed/extract calls",
			Value:       2,
			Sources:     cli.EnvVars("MEMVAULT_MAX_RETRIES"),
			Destination: &cfg.maxRetries,
		},
		&cli.DurationFlag{
			Name:        "base-delay",
			Usage:       "Base delay for retry backoff",
			Value:       500 * time.Millisecond,
			Sources:     cli.EnvVars("MEMVAULT_BASE_DELAY"),
			Destination: &cfg.baseDelay,
		},
	}
}

func (cfg *config) setupLogging() {
	logging.SetDefault(logging.New(cfg.logLevel, os.Stderr))
}

// newRepository creates the durable record store. Without a project it falls
// back to the in-process store, which is useful for local runs and tests.
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project == "" {
		logging.Default().Warn("no project configured, using in-process record store")
		return repository.NewInMemory(), nil
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newIndex creates the vector index
func (cfg *config) newIndex() (index.Index, error) {
	idx, err := index.NewChromem(cfg.indexPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create vector index")
	}
	return idx, nil
}

// newEmbedder creates the Gemini embedder, wrapped in the embedding cache
// when one is configured.
func (cfg *config) newEmbedder(ctx context.Context) (adapter.Embedder, func(), error) {
	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, nil, err
	}

	if cfg.embedCacheMB <= 0 {
		return gemini, func() {}, nil
	}

	cached, err := adapter.NewCachedEmbedder(gemini, cfg.embedCacheMB<<20)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create embedding cache")
	}
	return cached, cached.Close, nil
}

func (cfg *config) newGemini(ctx context.Context) (*adapter.GeminiClient, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}
	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation)
}

func (cfg *config) newExtractor(ctx context.Context) (adapter.Extractor, error) {
	switch cfg.extractor {
	case "claude":
		if cfg.anthropicAPIKey == "" {
			return nil, goerr.New("anthropic-api-key is required for the claude extractor")
		}
		return adapter.NewClaude(cfg.anthropicAPIKey), nil
	case "gemini":
		return cfg.newGemini(ctx)
	default:
		return nil, goerr.New("unknown extractor", goerr.Value("extractor", cfg.extractor))
	}
}

// newEngine wires the full lifecycle engine. The returned closer releases
// every store and cache it opened.
func (cfg *config) newEngine(ctx context.Context) (*memory.UseCase, func(), error) {
	cfg.setupLogging()

	strategy := memory.MergeStrategy(cfg.mergeStrategy)
	if err := strategy.Validate(); err != nil {
		return nil, nil, err
	}

	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, nil, err
	}

	idx, err := cfg.newIndex()
	if err != nil {
		_ = repo.Close()
		return nil, nil, err
	}

	embedder, closeEmbedder, err := cfg.newEmbedder(ctx)
	if err != nil {
		_ = repo.Close()
		_ = idx.Close()
		return nil, nil, err
	}

	extractor, err := cfg.newExtractor(ctx)
	if err != nil {
		closeEmbedder()
		_ = repo.Close()
		_ = idx.Close()
		return nil, nil, err
	}

	uc := memory.New(repo, idx, embedder, extractor,
		memory.WithSimilarityThreshold(cfg.similarityThreshold),
		memory.WithMergeStrategy(strategy),
		memory.WithRetry(int(cfg.maxRetries), cfg.baseDelay),
	)

	closer := func() {
		closeEmbedder()
		if err := idx.Close(); err != nil {
			logging.Default().Warn("failed to close vector index", "error", err)
		}
		if err := repo.Close(); err != nil {
			logging.Default().Warn("failed to close repository", "error", err)
		}
	}

	return uc, closer, nil
}

// allFlags is the shared flag set of commands that build the full engine.
func allFlags(cfg *config) []cli.Flag {
	flags := globalFlags(cfg)
	flags = append(flags, llmFlags(cfg)...)
	flags = append(flags, engineFlags(cfg)...)
	return flags
}

// parseKV turns key=value pairs into a metadata map.
func parseKV(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, goerr.New("invalid key=value pair", goerr.Value("pair", pair))
		}
		out[k] = v
	}
	return out, nil
}
