package driving

import (
	"context"

	"github.com/contexture-ai/contexture/internal/core/domain"
)

// IngestOrchestrator feeds extracted text into the chunk store and
// keeps the vector index in sync with it.
type IngestOrchestrator interface {
	// IngestChunks embeds and persists the given items, then rebuilds
	// the index. Ingestion is not transactional: a mid-batch encoding
	// failure leaves prior items persisted but unsearchable until the
	// next successful RebuildIndex. Returns the number of items
	// persisted.
	IngestChunks(ctx context.Context, items []domain.ChunkInput) (int, error)

	// IngestPages splits a document into pages (form feed separated),
	// breaks long pages into smaller pieces, and ingests each piece
	// as a chunk. Returns the number of chunks persisted.
	IngestPages(ctx context.Context, fileName, content string) (int, error)

	// RemoveFile drops all chunks ingested from the named file and
	// rebuilds the index. Returns the number of chunks removed.
	RemoveFile(ctx context.Context, fileName string) (int, error)

	// RebuildIndex reconstructs the vector index from a full chunk
	// store scan, swapped in atomically. Returns the number of
	// entries indexed.
	RebuildIndex(ctx context.Context) (int, error)
}
