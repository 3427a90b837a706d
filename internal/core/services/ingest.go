package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contexture-ai/contexture/internal/core/domain"
	"github.com/contexture-ai/contexture/internal/core/ports/driven"
	"github.com/contexture-ai/contexture/internal/core/ports/driving"
	"github.com/contexture-ai/contexture/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestOrchestrator = (*IngestService)(nil)

// embedBatchSize bounds how many texts go to the encoder per call.
const embedBatchSize = 32

// IngestService feeds extracted text into the chunk store and keeps
// the vector index in sync with it.
//
// Ingestion is deliberately not transactional: items persisted before
// a mid-batch failure stay in the store, invisible to search until the
// next successful rebuild. The store is the source of truth; the index
// is a cache over it.
type IngestService struct {
	embedder   driven.EmbeddingService
	chunkStore driven.ChunkStore
	index      driven.VectorIndex
	splitter   driven.TextSplitter
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	embedder driven.EmbeddingService,
	chunkStore driven.ChunkStore,
	index driven.VectorIndex,
) *IngestService {
	return &IngestService{
		embedder:   embedder,
		chunkStore: chunkStore,
		index:      index,
	}
}

// SetSplitter sets the splitter applied to page texts during
// IngestPages. Without one, each page becomes a single chunk.
func (s *IngestService) SetSplitter(splitter driven.TextSplitter) {
	s.splitter = splitter
}

// IngestChunks embeds and persists the given items, then rebuilds the
// index. Returns the number of items persisted, which on error is the
// count already durable in the chunk store.
func (s *IngestService) IngestChunks(ctx context.Context, items []domain.ChunkInput) (int, error) {
	logger.Section("Ingest")
	logger.Info("Ingesting %d items", len(items))

	persisted := 0
	for start := 0; start < len(items); start += embedBatchSize {
		end := min(start+embedBatchSize, len(items))
		batch := items[start:end]

		texts := make([]string, len(batch))
		for i, item := range batch {
			texts[i] = item.Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return persisted, fmt.Errorf("%w: %w", domain.ErrEncodingFailure, err)
		}
		if len(vectors) != len(batch) {
			return persisted, fmt.Errorf("%w: encoder returned %d vectors for %d texts",
				domain.ErrEncodingFailure, len(vectors), len(batch))
		}

		for i, item := range batch {
			chunk := &domain.Chunk{
				ID:         uuid.NewString(),
				FileName:   item.FileName,
				PageNumber: item.PageNumber,
				Text:       item.Text,
				Vector:     vectors[i],
				IngestedAt: time.Now().UTC(),
			}
			if err := s.chunkStore.SaveChunk(ctx, chunk); err != nil {
				return persisted, fmt.Errorf("%w: save chunk: %w",
					domain.ErrPersistenceFailure, err)
			}
			persisted++
		}
	}

	if _, err := s.RebuildIndex(ctx); err != nil {
		// Items are durable; the caller re-triggers a rebuild to make
		// them searchable.
		return persisted, err
	}
	return persisted, nil
}

// IngestPages splits a document into pages on form feed characters,
// runs each non-empty page through the splitter, and ingests the
// pieces. A document without separators is one page.
func (s *IngestService) IngestPages(ctx context.Context, fileName, content string) (int, error) {
	pages := strings.Split(content, "\f")
	items := make([]domain.ChunkInput, 0, len(pages))
	for i, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		for _, piece := range s.splitPage(page) {
			items = append(items, domain.ChunkInput{
				FileName:   fileName,
				PageNumber: i + 1,
				Text:       piece,
			})
		}
	}
	if len(items) == 0 {
		return 0, nil
	}
	return s.IngestChunks(ctx, items)
}

func (s *IngestService) splitPage(page string) []string {
	if s.splitter == nil {
		return []string{page}
	}
	return s.splitter.Split(page)
}

// RemoveFile drops all chunks ingested from the named file and
// rebuilds the index so they stop appearing in results. Returns the
// number of chunks removed.
func (s *IngestService) RemoveFile(ctx context.Context, fileName string) (int, error) {
	removed, err := s.chunkStore.DeleteChunksByFile(ctx, fileName)
	if err != nil {
		return 0, fmt.Errorf("%w: delete chunks for %s: %w", domain.ErrPersistenceFailure, fileName, err)
	}
	if removed == 0 {
		return 0, nil
	}

	logger.Info("Removed %d chunks for %s", removed, fileName)
	if _, err := s.RebuildIndex(ctx); err != nil {
		return removed, err
	}
	return removed, nil
}

// RebuildIndex reconstructs the vector index from a full chunk store
// scan. Returns the number of entries indexed.
func (s *IngestService) RebuildIndex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, domain.ErrIndexUnavailable
	}

	chunks, err := s.chunkStore.ListChunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: list chunks: %w", domain.ErrPersistenceFailure, err)
	}

	n, err := s.index.Rebuild(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}
	logger.Info("Index rebuilt: %d of %d chunks searchable", n, len(chunks))
	return n, nil
}
