package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contexture-ai/contexture/internal/core/domain"
)

// recordingIngester captures orchestrator calls for assertions.
type recordingIngester struct {
	mu       sync.Mutex
	ingested map[string]string
	removed  []string
}

func newRecordingIngester() *recordingIngester {
	return &recordingIngester{ingested: make(map[string]string)}
}

func (r *recordingIngester) IngestChunks(_ context.Context, items []domain.ChunkInput) (int, error) {
	return len(items), nil
}

func (r *recordingIngester) IngestPages(_ context.Context, fileName, content string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingested[fileName] = content
	return 1, nil
}

func (r *recordingIngester) RemoveFile(_ context.Context, fileName string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, fileName)
	return 0, nil
}

func (r *recordingIngester) RebuildIndex(context.Context) (int, error) {
	return 0, nil
}

func (r *recordingIngester) ingestedContent(fileName string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.ingested[fileName]
	return content, ok
}

func (r *recordingIngester) removedFiles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.removed...)
}

func startWatcher(t *testing.T, ingester *recordingIngester, dir string) {
	t.Helper()

	w, err := New(ingester, Config{
		Dir:      dir,
		Debounce: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		_ = w.Run(ctx)
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_IngestsDroppedFile(t *testing.T) {
	dir := t.TempDir()
	ingester := newRecordingIngester()
	startWatcher(t, ingester, dir)

	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0600))

	assert.Eventually(t, func() bool {
		content, ok := ingester.ingestedContent("notes.txt")
		return ok && content == "hello world"
	}, 3*time.Second, 25*time.Millisecond)
}

func TestWatcher_StripsMarkdownBeforeIngest(t *testing.T) {
	dir := t.TempDir()
	ingester := newRecordingIngester()
	startWatcher(t, ingester, dir)

	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Heading\n\n**bold** text"), 0600))

	assert.Eventually(t, func() bool {
		content, ok := ingester.ingestedContent("notes.md")
		return ok && content == "Heading\n\nbold text"
	}, 3*time.Second, 25*time.Millisecond)
}

func TestWatcher_IgnoresUnwatchedExtensions(t *testing.T) {
	dir := t.TempDir()
	ingester := newRecordingIngester()
	startWatcher(t, ingester, dir)

	path := filepath.Join(dir, "binary.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0600))

	time.Sleep(300 * time.Millisecond)
	_, ok := ingester.ingestedContent("binary.pdf")
	assert.False(t, ok)
}

func TestWatcher_RemovedFileTriggersEviction(t *testing.T) {
	dir := t.TempDir()
	ingester := newRecordingIngester()
	startWatcher(t, ingester, dir)

	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0600))

	assert.Eventually(t, func() bool {
		_, ok := ingester.ingestedContent("doc.md")
		return ok
	}, 3*time.Second, 25*time.Millisecond)

	require.NoError(t, os.Remove(path))

	assert.Eventually(t, func() bool {
		for _, name := range ingester.removedFiles() {
			if name == "doc.md" {
				return true
			}
		}
		return false
	}, 3*time.Second, 25*time.Millisecond)
}

func TestNew_RequiresDir(t *testing.T) {
	_, err := New(newRecordingIngester(), Config{})
	require.Error(t, err)
}
