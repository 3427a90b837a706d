package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and captures combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "ask")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskCmd_CreatesSessionAndAnswers(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "ask", "what is a cat")
	require.NoError(t, err)
	assert.Contains(t, out, "Session: ")
	assert.Contains(t, out, "canned answer")
}

func TestAskCmd_UnknownSessionFails(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "ask", "--session", "nope", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSessionsCmd_ListEmpty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions.")
}

func TestSessionsCmd_NewThenListAndDelete(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "sessions", "new")
	require.NoError(t, err)
	id := out[:len(out)-1] // trim newline

	out, err = execute(t, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)

	out, err = execute(t, "sessions", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	out, err = execute(t, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions.")
}

func TestSessionsCmd_RenameUnknownFails(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "sessions", "rename", "ghost", "new name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestHistoryCmd_ShowsMessagesAfterAsk(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "sessions", "new")
	require.NoError(t, err)
	id := out[:len(out)-1]

	_, err = execute(t, "ask", "--session", id, "what is a cat")
	require.NoError(t, err)

	out, err = execute(t, "history", id)
	require.NoError(t, err)
	assert.Contains(t, out, "[USER] what is a cat")
	assert.Contains(t, out, "[ASSISTANT] canned answer")
}

func TestReindexCmd_ReportsCount(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "reindex")
	require.NoError(t, err)
	assert.Contains(t, out, "0 chunks searchable")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "contexture version")
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, true, coerceValue("true"))
	assert.Equal(t, int64(8), coerceValue("8"))
	assert.Equal(t, 0.7, coerceValue("0.7"))
	assert.Equal(t, "openai", coerceValue("openai"))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefgh-stuvwxyz"))
}
