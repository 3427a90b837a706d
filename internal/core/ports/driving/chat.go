package driving

import (
	"context"

	"github.com/contexture-ai/contexture/internal/core/domain"
)

// ChatService answers user queries by combining retrieved context with
// conversation history, and manages owner-scoped sessions.
//
// Callers hand it a verified owner identity; the service trusts it
// unconditionally.
type ChatService interface {
	// Ask runs one full retrieval-augmented turn: embed the query,
	// search the index, load history, assemble the prompt, call the
	// provider, persist the new turn, and return the answer.
	Ask(ctx context.Context, sessionID, owner, query string) (string, error)

	// CreateSession creates an empty session for owner and returns its id.
	CreateSession(ctx context.Context, owner string) (string, error)

	// GetHistory returns the ordered message log for (sessionID, owner).
	GetHistory(ctx context.Context, sessionID, owner string) ([]domain.Message, error)

	// ListSessions returns the session ids belonging to owner.
	ListSessions(ctx context.Context, owner string) ([]string, error)

	// RenameSession sets the session display name.
	RenameSession(ctx context.Context, sessionID, owner, name string) error

	// DeleteSession removes the session and its messages.
	DeleteSession(ctx context.Context, sessionID, owner string) error
}
