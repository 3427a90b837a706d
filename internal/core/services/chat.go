package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contexture-ai/contexture/internal/core/domain"
	"github.com/contexture-ai/contexture/internal/core/ports/driven"
	"github.com/contexture-ai/contexture/internal/core/ports/driving"
	"github.com/contexture-ai/contexture/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Default chat configuration values.
const (
	// DefaultTopK is how many chunks a query retrieves for context.
	DefaultTopK = 5

	// DefaultGenerateTimeout bounds the single provider round trip.
	DefaultGenerateTimeout = 60 * time.Second
)

// defaultSystemPrompt is the fallback when no PromptStore is configured.
const defaultSystemPrompt = "You are a helpful and concise assistant."

// defaultContextPrompt wraps retrieved context and the raw query into
// the final user turn.
const defaultContextPrompt = "Context:\n%s\n\nQuestion: %s"

// ChatConfig holds tunables for the chat service.
type ChatConfig struct {
	// TopK is how many chunks to retrieve per query (default 5).
	TopK int

	// GenerateTimeout bounds the provider call (default 60s).
	GenerateTimeout time.Duration

	// Temperature is passed to the generation provider.
	Temperature float64
}

// ChatService answers user queries with retrieval-augmented generation
// and manages owner-scoped sessions.
//
// Each Ask runs a strictly sequential pipeline: embed the query, search
// the index, load history, assemble the prompt, call the provider,
// persist the turn. Index trouble degrades the request to empty
// context; everything else is fatal to the request.
type ChatService struct {
	embedder    driven.EmbeddingService
	index       driven.VectorIndex
	chunkStore  driven.ChunkStore
	sessions    driven.SessionStore
	llm         driven.LLMService
	promptStore driven.PromptStore
	cfg         ChatConfig
}

// NewChatService creates a new chat service. The vector index may be
// nil; requests then run with empty retrieval context.
func NewChatService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	chunkStore driven.ChunkStore,
	sessions driven.SessionStore,
	llm driven.LLMService,
	cfg ChatConfig,
) *ChatService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = DefaultGenerateTimeout
	}
	return &ChatService{
		embedder:   embedder,
		index:      index,
		chunkStore: chunkStore,
		sessions:   sessions,
		llm:        llm,
		cfg:        cfg,
	}
}

// SetPromptStore sets the prompt store for customisable prompts.
// If not set, the service uses hardcoded defaults.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ask runs one full retrieval-augmented turn and returns the answer.
func (s *ChatService) Ask(ctx context.Context, sessionID, owner, query string) (string, error) {
	logger.Section("Ask")
	logger.Debug("Session: %s, query: %q", sessionID, query)

	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	// 1. EmbedQuery. Fatal on failure.
	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrEncodingFailure, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(queryVector))

	// 2. SearchIndex. Degrades to empty context, never fatal.
	retrieved := s.retrieveContext(ctx, queryVector)

	// 3. LoadHistory. NotFound aborts before any provider call.
	history, err := s.sessions.GetHistory(ctx, sessionID, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("%w: load history: %w", domain.ErrPersistenceFailure, err)
	}
	logger.Debug("History: %d messages", len(history))

	// 4. AssemblePrompt.
	messages := s.assemblePrompt(history, retrieved, query)

	// 5. Generate. One synchronous call under the configured timeout;
	// caller cancellation aborts and skips persistence.
	genCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerateTimeout)
	defer cancel()

	answer, err := s.llm.Chat(genCtx, messages, driven.ChatOptions{
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}
	logger.Debug("Generated %d bytes", len(answer))

	// 6. PersistTurn: user query first, then the assistant answer.
	// A failure here surfaces as an internal error even though the
	// answer was computed; the turn may be lost but is never silently
	// dropped.
	if err := s.sessions.AppendMessage(ctx, sessionID, owner, domain.RoleUser, query); err != nil {
		return "", fmt.Errorf("%w: persist user turn: %w", domain.ErrPersistenceFailure, err)
	}
	if err := s.sessions.AppendMessage(ctx, sessionID, owner, domain.RoleAssistant, answer); err != nil {
		return "", fmt.Errorf("%w: persist assistant turn: %w", domain.ErrPersistenceFailure, err)
	}

	// 7. Respond.
	return answer, nil
}

// retrieveContext queries the index for the top-k chunks and hydrates
// their texts from the chunk store. Any index trouble (unconfigured,
// rebuilding, dimension drift) degrades to empty context.
func (s *ChatService) retrieveContext(ctx context.Context, queryVector []float32) []domain.RetrievedChunk {
	if s.index == nil {
		logger.Debug("Vector index not configured, proceeding with empty context")
		return nil
	}

	hits, err := s.index.Search(ctx, queryVector, s.cfg.TopK)
	if err != nil {
		logger.Warn("Index search degraded to empty context: %v", err)
		return nil
	}

	retrieved := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.chunkStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Deleted since the last rebuild, skip it.
				continue
			}
			logger.Warn("Hydrating chunk %s failed: %v", hit.ChunkID, err)
			continue
		}
		retrieved = append(retrieved, domain.RetrievedChunk{
			ChunkID:  hit.ChunkID,
			Text:     chunk.Text,
			Distance: hit.Distance,
		})
	}
	logger.Debug("Retrieved %d context chunks", len(retrieved))
	return retrieved
}

// assemblePrompt builds the ordered message list: system instruction,
// history in original role order, then a final user turn holding the
// retrieved chunk texts in rank order plus the raw query.
func (s *ChatService) assemblePrompt(
	history []domain.Message,
	retrieved []domain.RetrievedChunk,
	query string,
) []driven.ChatMessage {
	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    domain.RoleSystem,
		Content: s.loadPrompt(driven.PromptChatSystem, defaultSystemPrompt),
	})

	for _, msg := range history {
		messages = append(messages, driven.ChatMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	final := query
	if len(retrieved) > 0 {
		texts := make([]string, len(retrieved))
		for i, rc := range retrieved {
			texts[i] = rc.Text
		}
		template := s.loadPrompt(driven.PromptContext, defaultContextPrompt)
		final = fmt.Sprintf(template, strings.Join(texts, "\n"), query)
	}
	messages = append(messages, driven.ChatMessage{
		Role:    domain.RoleUser,
		Content: final,
	})

	return messages
}

// loadPrompt loads a prompt from the store, falling back to the default
// if unavailable.
func (s *ChatService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// CreateSession creates an empty session for owner and returns its id.
func (s *ChatService) CreateSession(ctx context.Context, owner string) (string, error) {
	id, err := s.sessions.CreateSession(ctx, owner)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	logger.Info("Created session %s for %s", id, owner)
	return id, nil
}

// GetHistory returns the ordered message log for (sessionID, owner).
func (s *ChatService) GetHistory(ctx context.Context, sessionID, owner string) ([]domain.Message, error) {
	return s.sessions.GetHistory(ctx, sessionID, owner)
}

// ListSessions returns the session ids belonging to owner.
func (s *ChatService) ListSessions(ctx context.Context, owner string) ([]string, error) {
	return s.sessions.ListSessions(ctx, owner)
}

// RenameSession sets the session display name.
func (s *ChatService) RenameSession(ctx context.Context, sessionID, owner, name string) error {
	return s.sessions.RenameSession(ctx, sessionID, owner, name)
}

// DeleteSession removes the session and its messages.
func (s *ChatService) DeleteSession(ctx context.Context, sessionID, owner string) error {
	return s.sessions.DeleteSession(ctx, sessionID, owner)
}
