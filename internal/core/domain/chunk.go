package domain

import "time"

// Chunk represents an ingested unit of document text with its
// embedding vector and provenance. Chunks are immutable after
// creation; corpus maintenance deletes them, nothing edits them.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// FileName identifies the source document the chunk came from.
	FileName string

	// PageNumber is the page within the source document.
	PageNumber int

	// Text is the chunk content.
	Text string

	// Vector is the embedding for Text. Chunks whose vector length
	// does not match the configured dimension stay in the store but
	// are excluded from the search index at rebuild time.
	Vector []float32

	// IngestedAt is when the chunk was persisted.
	IngestedAt time.Time
}

// ChunkInput is a raw ingestion item supplied by an extraction
// collaborator, before embedding.
type ChunkInput struct {
	// FileName identifies the source document.
	FileName string

	// PageNumber is the page within the source document.
	PageNumber int

	// Text is the extracted text to embed and persist.
	Text string
}

// RetrievedChunk is a similarity search result: a chunk reference
// together with its L2 distance from the query vector.
type RetrievedChunk struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Text is the matched chunk content, hydrated from the store.
	Text string

	// Distance is the L2 distance to the query (lower is closer).
	Distance float64
}
