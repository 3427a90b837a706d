// Package flat provides a brute-force L2 vector index.
//
// The index holds an immutable snapshot behind an atomic pointer.
// Searches are lock-free reads against whichever snapshot was current
// when they started; rebuilds construct a replacement off to the side
// and publish it with a single pointer swap, so a reader sees a fully
// old or fully new index, never a mix.
package flat

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/contexture-ai/contexture/internal/core/domain"
	"github.com/contexture-ai/contexture/internal/core/ports/driven"
	"github.com/contexture-ai/contexture/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// snapshot is an immutable view of the index content.
// ids and vectors are parallel slices in insertion order.
type snapshot struct {
	ids     []string
	vectors [][]float32
}

// Index is a flat (exhaustive) L2 similarity index.
// Search cost is O(n*D); chosen deliberately over approximate
// structures for determinism at moderate corpus sizes.
type Index struct {
	dims int

	// rebuildMu serialises rebuilds. A second concurrent rebuild is
	// rejected with domain.ErrIndexBusy rather than queued.
	rebuildMu sync.Mutex

	// writeMu guards snapshot publication for Insert and the final
	// rebuild swap. Searches never take it.
	writeMu sync.Mutex

	snap atomic.Pointer[snapshot]
}

// New creates an empty index for vectors of the given dimension.
func New(dims int) *Index {
	idx := &Index{dims: dims}
	idx.snap.Store(&snapshot{})
	return idx
}

// Dimensions returns the configured vector dimension.
func (idx *Index) Dimensions() int {
	return idx.dims
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int {
	return len(idx.snap.Load().ids)
}

// Insert adds a vector for the given chunk ID.
// Returns domain.ErrDimensionMismatch if the vector length does not
// match the index dimension.
func (idx *Index) Insert(chunkID string, vector []float32) error {
	if len(vector) != idx.dims {
		return domain.ErrDimensionMismatch
	}

	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	old := idx.snap.Load()
	next := &snapshot{
		ids:     make([]string, 0, len(old.ids)+1),
		vectors: make([][]float32, 0, len(old.vectors)+1),
	}
	next.ids = append(append(next.ids, old.ids...), chunkID)
	next.vectors = append(append(next.vectors, old.vectors...), vector)
	idx.snap.Store(next)
	return nil
}

// Search finds the k nearest neighbours to the query vector, ascending
// by L2 distance, ties broken by insertion order. Fewer than k entries
// returns all of them; an empty index returns an empty slice.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != idx.dims {
		return nil, domain.ErrDimensionMismatch
	}

	snap := idx.snap.Load()
	hits := make([]driven.VectorHit, 0, len(snap.ids))
	if k <= 0 || len(snap.ids) == 0 {
		return hits, nil
	}

	for i, vec := range snap.vectors {
		hits = append(hits, driven.VectorHit{
			ChunkID:  snap.ids[i],
			Distance: l2Distance(query, vec),
		})
	}

	// Stable sort keeps insertion order for equal distances.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Rebuild atomically replaces the entire index content from a chunk
// store snapshot. Chunks whose vector length does not match the index
// dimension are skipped and logged, never indexed. A concurrent second
// rebuild is rejected with domain.ErrIndexBusy; in-flight searches
// complete against the old snapshot.
func (idx *Index) Rebuild(ctx context.Context, chunks []domain.Chunk) (int, error) {
	if !idx.rebuildMu.TryLock() {
		return 0, domain.ErrIndexBusy
	}
	defer idx.rebuildMu.Unlock()

	next := &snapshot{
		ids:     make([]string, 0, len(chunks)),
		vectors: make([][]float32, 0, len(chunks)),
	}

	skipped := 0
	for i := range chunks {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		chunk := &chunks[i]
		if len(chunk.Vector) != idx.dims {
			skipped++
			logger.Warn("Rebuild: skipping chunk %s: vector dimension %d, want %d",
				chunk.ID, len(chunk.Vector), idx.dims)
			continue
		}
		next.ids = append(next.ids, chunk.ID)
		next.vectors = append(next.vectors, chunk.Vector)
	}

	idx.writeMu.Lock()
	idx.snap.Store(next)
	idx.writeMu.Unlock()

	if skipped > 0 {
		logger.Warn("Rebuild: %d chunks excluded (dimension mismatch)", skipped)
	}
	logger.Info("Rebuild: index swapped in with %d entries", len(next.ids))
	return len(next.ids), nil
}

// l2Distance computes the Euclidean distance between two vectors of
// equal length.
func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
