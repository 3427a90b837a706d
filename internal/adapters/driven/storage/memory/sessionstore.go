package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/contexture-ai/contexture/internal/core/domain"
	"github.com/contexture-ai/contexture/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// Each operation is a single atomic, owner-qualified read or upsert
// under the store lock. There is no session-level locking: two
// concurrent appends to the same session may interleave.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
	}
}

// CreateSession inserts an empty session for owner and returns its id.
func (s *SessionStore) CreateSession(_ context.Context, owner string) (string, error) {
	if owner == "" {
		return "", domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	id := uuid.NewString()
	s.sessions[id] = &domain.Session{
		ID:        id,
		Owner:     owner,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id, nil
}

// AppendMessage appends one message to an existing session.
// Fails with domain.ErrNotFound if no session matches (sessionID, owner).
func (s *SessionStore) AppendMessage(_ context.Context, sessionID, owner, role, content string) error {
	if !domain.ValidRole(role) {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.lookup(sessionID, owner)
	if sess == nil {
		return domain.ErrNotFound
	}

	ts := time.Now().UTC()
	// Keep timestamps non-decreasing within the session even if the
	// clock steps backwards between appends.
	if n := len(sess.Messages); n > 0 && ts.Before(sess.Messages[n-1].Timestamp) {
		ts = sess.Messages[n-1].Timestamp
	}

	sess.Messages = append(sess.Messages, domain.Message{
		Role:      role,
		Content:   content,
		Timestamp: ts,
	})
	sess.UpdatedAt = ts
	return nil
}

// GetHistory returns the ordered message log for (sessionID, owner).
func (s *SessionStore) GetHistory(_ context.Context, sessionID, owner string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := s.lookup(sessionID, owner)
	if sess == nil {
		return nil, domain.ErrNotFound
	}
	out := make([]domain.Message, len(sess.Messages))
	copy(out, sess.Messages)
	return out, nil
}

// GetSession returns a copy of the full session record.
func (s *SessionStore) GetSession(_ context.Context, sessionID, owner string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := s.lookup(sessionID, owner)
	if sess == nil {
		return nil, domain.ErrNotFound
	}
	out := *sess
	out.Messages = make([]domain.Message, len(sess.Messages))
	copy(out.Messages, sess.Messages)
	return &out, nil
}

// ListSessions returns the session ids belonging to owner.
func (s *SessionStore) ListSessions(_ context.Context, owner string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0)
	for id, sess := range s.sessions {
		if sess.Owner == owner {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// RenameSession sets the session display name.
func (s *SessionStore) RenameSession(_ context.Context, sessionID, owner, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.lookup(sessionID, owner)
	if sess == nil {
		return domain.ErrNotFound
	}
	sess.Name = name
	sess.UpdatedAt = time.Now().UTC()
	if sess.UpdatedAt.Before(sess.CreatedAt) {
		sess.UpdatedAt = sess.CreatedAt
	}
	return nil
}

// DeleteSession removes the session and its messages.
func (s *SessionStore) DeleteSession(_ context.Context, sessionID, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lookup(sessionID, owner) == nil {
		return domain.ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// lookup resolves (sessionID, owner), returning nil on any mismatch.
// Callers must hold the lock.
func (s *SessionStore) lookup(sessionID, owner string) *domain.Session {
	sess, ok := s.sessions[sessionID]
	if !ok || sess.Owner != owner {
		return nil
	}
	return sess
}
