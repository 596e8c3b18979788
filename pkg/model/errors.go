package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrMemoryNotFound is returned when the referenced memory id does not
	// exist or has been deleted. Memory ids are never reused.
	ErrMemoryNotFound = goerr.New("memory not found")

	// ErrExtractionFailed means the fact extractor could not produce
	// candidate statements. The whole add operation is rejected.
	ErrExtractionFailed = goerr.New("fact extraction failed")

	// ErrEmbeddingFailed means embedding generation failed for one
	// candidate. Other candidates of the same add proceed.
	ErrEmbeddingFailed = goerr.New("embedding generation failed")

	// ErrPartialFailure signals a cross-store inconsistency: the vector
	// index write failed and the durable store rollback failed too. The
	// stores need out-of-band reconciliation.
	ErrPartialFailure = goerr.New("partial failure across stores")

	// ErrInvalidRequest is returned for malformed requests, such as a
	// missing user_id.
	ErrInvalidRequest = goerr.New("invalid request")
)
