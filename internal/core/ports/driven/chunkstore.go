package driven

import (
	"context"

	"github.com/contexture-ai/contexture/internal/core/domain"
)

// ChunkStore persists document chunks. It is the source of truth for
// the vector index, which is fully reconstructible from a store scan.
// Backed by SQLite for durable storage.
type ChunkStore interface {
	// SaveChunk stores a chunk. Chunks are immutable; saving an
	// existing ID overwrites it only during corpus maintenance.
	SaveChunk(ctx context.Context, chunk *domain.Chunk) error

	// GetChunk retrieves a chunk by ID.
	// Returns domain.ErrNotFound if absent.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// ListChunks returns all chunks in insertion order.
	// This is the full scan consumed by index rebuilds.
	ListChunks(ctx context.Context) ([]domain.Chunk, error)

	// DeleteChunksByFile removes all chunks for a source document and
	// returns how many were removed.
	// Corpus maintenance only; callers must rebuild the index after.
	DeleteChunksByFile(ctx context.Context, fileName string) (int, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)
}
