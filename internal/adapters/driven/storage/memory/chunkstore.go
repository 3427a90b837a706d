// Package memory provides in-memory implementations of the storage
// ports, used in tests and for ephemeral single-run deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/contexture-ai/contexture/internal/core/domain"
	"github.com/contexture-ai/contexture/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Chunks are kept in insertion order, matching the scan order a
// rebuild observes.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
	byID   map[string]int
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		byID: make(map[string]int),
	}
}

// SaveChunk stores a chunk.
func (s *ChunkStore) SaveChunk(_ context.Context, chunk *domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *chunk
	if c.IngestedAt.IsZero() {
		c.IngestedAt = time.Now().UTC()
	}
	if i, ok := s.byID[c.ID]; ok {
		s.chunks[i] = c
		return nil
	}
	s.byID[c.ID] = len(s.chunks)
	s.chunks = append(s.chunks, c)
	return nil
}

// GetChunk retrieves a chunk by ID.
func (s *ChunkStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	chunk := s.chunks[i]
	return &chunk, nil
}

// ListChunks returns all chunks in insertion order.
func (s *ChunkStore) ListChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out, nil
}

// DeleteChunksByFile removes all chunks for a source document and
// returns how many were removed.
func (s *ChunkStore) DeleteChunksByFile(_ context.Context, fileName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.chunks)
	kept := s.chunks[:0]
	for _, c := range s.chunks {
		if c.FileName != fileName {
			kept = append(kept, c)
		}
	}
	s.chunks = kept
	s.byID = make(map[string]int, len(s.chunks))
	for i, c := range s.chunks {
		s.byID[c.ID] = i
	}
	return before - len(s.chunks), nil
}

// Count returns the number of stored chunks.
func (s *ChunkStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}
