package driven

import (
	"context"

	"github.com/contexture-ai/contexture/internal/core/domain"
)

// VectorIndex provides nearest-neighbour search over chunk embeddings.
// Backed by a flat (brute-force L2) index: deterministic and simple at
// moderate corpus sizes, a stated scalability limit rather than an
// oversight.
type VectorIndex interface {
	// Insert adds a vector for the given chunk ID, visible to
	// subsequent searches. Returns domain.ErrDimensionMismatch if the
	// vector length does not match the index dimension.
	Insert(chunkID string, vector []float32) error

	// Search finds the k nearest neighbours to the query vector,
	// ascending by L2 distance, ties broken by insertion order.
	// Fewer than k entries returns all of them; an empty index
	// returns an empty slice, not an error.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Rebuild atomically replaces the entire index content from a
	// chunk store snapshot. Readers never observe a partial rebuild.
	// A concurrent second rebuild is rejected with domain.ErrIndexBusy.
	// Returns the number of entries indexed; wrong-dimension chunks
	// are skipped, never an error.
	Rebuild(ctx context.Context, chunks []domain.Chunk) (int, error)

	// Len returns the number of indexed entries.
	Len() int

	// Dimensions returns the configured vector dimension.
	Dimensions() int
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Distance is the L2 distance to the query (lower is closer).
	Distance float64
}
