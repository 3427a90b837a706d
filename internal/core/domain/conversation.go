package domain

import "time"

// Message roles. The core only ever appends user and assistant turns;
// the system instruction is assembled per request, never persisted.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single role-tagged turn in a conversation.
// Within a session, timestamps are non-decreasing in append order;
// ties are permitted for the user/assistant pair of one turn.
type Message struct {
	// Role is RoleUser or RoleAssistant for persisted turns.
	Role string

	// Content is the message text.
	Content string

	// Timestamp is when the message was appended.
	Timestamp time.Time
}

// Session is an owner-scoped, ordered conversation log.
// A session is addressable only by the (ID, Owner) pair; a session
// owned by a different identity is indistinguishable from a
// nonexistent one.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// Owner is the verified identity the session belongs to.
	// The core trusts this string unconditionally.
	Owner string

	// Name is an optional display name, set via rename.
	Name string

	// Messages is the append-only ordered conversation log.
	Messages []Message

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// UpdatedAt is bumped on every append or rename.
	// Invariant: UpdatedAt >= CreatedAt.
	UpdatedAt time.Time
}

// ValidRole reports whether role may be appended to a session.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
