package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contexture-ai/contexture/internal/core/ports/driven"
)

func TestPromptStore_LoadReturnsDefaults(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	system, err := store.Load(driven.PromptChatSystem)
	require.NoError(t, err)
	assert.Equal(t, defaultPrompts[driven.PromptChatSystem], system)

	contextTmpl, err := store.Load(driven.PromptContext)
	require.NoError(t, err)
	assert.Contains(t, contextTmpl, "%s")
}

func TestPromptStore_FirstLoadCreatesFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptChatSystem)
	require.NoError(t, err)

	for name := range defaultPrompts {
		_, statErr := os.Stat(filepath.Join(dir, name+".txt"))
		assert.NoError(t, statErr, "expected prompt file for %s", name)
	}
	_, statErr := os.Stat(filepath.Join(dir, "README.md"))
	assert.NoError(t, statErr)
}

func TestPromptStore_UserEditWinsAfterReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Trigger lazy init and prime the cache.
	_, err = store.Load(driven.PromptChatSystem)
	require.NoError(t, err)

	custom := "You answer only in haiku."
	path := filepath.Join(dir, driven.PromptChatSystem+".txt")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0600))

	// Cached value until reload.
	cached, err := store.Load(driven.PromptChatSystem)
	require.NoError(t, err)
	assert.Equal(t, defaultPrompts[driven.PromptChatSystem], cached)

	store.Reload()

	fresh, err := store.Load(driven.PromptChatSystem)
	require.NoError(t, err)
	assert.Equal(t, custom, fresh)
}

func TestPromptStore_UnknownPromptReturnsError(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")
	require.Error(t, err)
}
