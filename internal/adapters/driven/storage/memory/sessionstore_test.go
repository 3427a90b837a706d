package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contexture-ai/contexture/internal/core/domain"
)

func TestSessionStore_CreateSession(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	id, err := store.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	sess, err := store.GetSession(ctx, id, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sess.Owner)
	assert.Empty(t, sess.Messages)
	assert.False(t, sess.CreatedAt.IsZero())
	assert.False(t, sess.UpdatedAt.Before(sess.CreatedAt))
}

func TestSessionStore_CreateSession_EmptyOwner(t *testing.T) {
	store := NewSessionStore()

	_, err := store.CreateSession(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionStore_AppendMessage_RoundTrip(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	id, err := store.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)

	require.NoError(t, store.AppendMessage(ctx, id, "a@x.com", domain.RoleUser, "hi"))
	require.NoError(t, store.AppendMessage(ctx, id, "a@x.com", domain.RoleAssistant, "hello"))

	history, err := store.GetHistory(ctx, id, "a@x.com")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Equal(t, "hello", history[1].Content)
	assert.False(t, history[1].Timestamp.Before(history[0].Timestamp))
}

func TestSessionStore_AppendMessage_MissingSession(t *testing.T) {
	store := NewSessionStore()

	err := store.AppendMessage(context.Background(), "missing", "a@x.com", domain.RoleUser, "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_AppendMessage_InvalidRole(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	id, err := store.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)

	err = store.AppendMessage(ctx, id, "a@x.com", "system", "sneaky")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionStore_OwnerIsolation(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	id, err := store.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)

	// Every owner-qualified operation with the wrong owner behaves as
	// if the session does not exist.
	_, err = store.GetHistory(ctx, id, "b@y.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.AppendMessage(ctx, id, "b@y.com", domain.RoleUser, "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.RenameSession(ctx, id, "b@y.com", "stolen")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.DeleteSession(ctx, id, "b@y.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The rightful owner still sees it.
	_, err = store.GetHistory(ctx, id, "a@x.com")
	assert.NoError(t, err)
}

func TestSessionStore_ListSessions(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	id1, err := store.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)
	id2, err := store.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)
	_, err = store.CreateSession(ctx, "b@y.com")
	require.NoError(t, err)

	ids, err := store.ListSessions(ctx, "a@x.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{id1, id2}, ids)

	ids, err = store.ListSessions(ctx, "nobody@z.com")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSessionStore_RenameSession(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	id, err := store.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)

	require.NoError(t, store.RenameSession(ctx, id, "a@x.com", "project notes"))

	sess, err := store.GetSession(ctx, id, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "project notes", sess.Name)
}

func TestSessionStore_DeleteSession(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	id, err := store.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)

	require.NoError(t, store.DeleteSession(ctx, id, "a@x.com"))

	_, err = store.GetHistory(ctx, id, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.DeleteSession(ctx, id, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_GetSession_ReturnsCopy(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	id, err := store.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)
	require.NoError(t, store.AppendMessage(ctx, id, "a@x.com", domain.RoleUser, "hi"))

	sess, err := store.GetSession(ctx, id, "a@x.com")
	require.NoError(t, err)
	sess.Messages[0].Content = "mutated"

	fresh, err := store.GetSession(ctx, id, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hi", fresh.Messages[0].Content)
}
