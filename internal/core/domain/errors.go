package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist, or is
	// owned by a different identity. The two cases are deliberately
	// indistinguishable so that existence never leaks across owners.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates a vector whose length does not
	// match the index dimension. The index rejects such vectors at
	// its boundary; the chunk store never does.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrIndexBusy indicates a rebuild is already in progress.
	// A request hitting this degrades to empty context, never fails.
	ErrIndexBusy = errors.New("index rebuild in progress")

	// ErrIndexUnavailable indicates the vector index is not configured
	// or holds no searchable entries yet.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrEncodingFailure indicates the embedding encoder failed.
	// Fatal to the request that triggered it.
	ErrEncodingFailure = errors.New("embedding encoding failed")

	// ErrGenerationFailure indicates the generation provider failed.
	// Covers rate-limit and timeout; the core never retries.
	ErrGenerationFailure = errors.New("text generation failed")

	// ErrPersistenceFailure indicates a store write failed.
	ErrPersistenceFailure = errors.New("persistence failed")

	// ErrEmbeddingUnavailable indicates the embedding provider could
	// not be created or reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM provider could not be
	// created or reached.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Provider error kinds, wrapped into ErrGenerationFailure by the
	// orchestrator but distinguishable for provider clients.

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates the provider call exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrInvalidRequest indicates the provider rejected the request
	// as malformed.
	ErrInvalidRequest = errors.New("invalid request")
)
