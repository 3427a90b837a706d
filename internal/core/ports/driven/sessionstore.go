package driven

import (
	"context"

	"github.com/contexture-ai/contexture/internal/core/domain"
)

// SessionStore persists owner-scoped conversation logs.
//
// Every operation except CreateSession and ListSessions is qualified
// by the (sessionID, owner) pair. An owner mismatch returns
// domain.ErrNotFound, indistinguishable from a missing session.
type SessionStore interface {
	// CreateSession generates a fresh unique id and inserts an
	// empty-message session for owner.
	CreateSession(ctx context.Context, owner string) (string, error)

	// AppendMessage appends one message to an existing session and
	// bumps UpdatedAt. Fails with domain.ErrNotFound if no session
	// matches (sessionID, owner); it never creates on write.
	AppendMessage(ctx context.Context, sessionID, owner, role, content string) error

	// GetHistory returns the ordered message log for the session.
	GetHistory(ctx context.Context, sessionID, owner string) ([]domain.Message, error)

	// GetSession returns the full session record.
	GetSession(ctx context.Context, sessionID, owner string) (*domain.Session, error)

	// ListSessions returns the session ids belonging to owner.
	ListSessions(ctx context.Context, owner string) ([]string, error)

	// RenameSession sets the session display name.
	RenameSession(ctx context.Context, sessionID, owner, name string) error

	// DeleteSession removes the session and its messages.
	DeleteSession(ctx context.Context, sessionID, owner string) error
}
