// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChunkStore: Chunk persistence, source of truth for the index
//   - SessionStore: Owner-scoped conversation persistence
//   - VectorIndex: Similarity search over embeddings (flat L2)
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - LLMService: Generation provider
//   - ConfigStore: Application configuration
//
// # Degradation
//
// The orchestrator tolerates an unavailable or rebuilding VectorIndex
// by answering with empty retrieval context. Everything else is fatal
// to the request that touches it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
