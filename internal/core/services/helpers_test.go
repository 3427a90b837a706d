package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/contexture-ai/contexture/internal/core/ports/driven"
)

// stubEmbedder returns canned vectors keyed by text. Unknown texts get
// a zero vector; texts equal to boomText fail the call.
type stubEmbedder struct {
	dims     int
	vectors  map[string][]float32
	boomText string
}

var errBoom = errors.New("boom")

func newStubEmbedder(dims int) *stubEmbedder {
	return &stubEmbedder{dims: dims, vectors: make(map[string][]float32)}
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.boomText != "" && text == e.boomText {
		return nil, errBoom
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return make([]float32, e.dims), nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int { return e.dims }
func (e *stubEmbedder) ModelName() string { return "stub" }
func (e *stubEmbedder) Ping(context.Context) error { return nil }
func (e *stubEmbedder) Close() error { return nil }

// stubLLM records the last prompt it received and returns a canned
// answer, or the configured error.
type stubLLM struct {
	answer   string
	err      error
	calls    int
	lastMsgs []driven.ChatMessage
}

func (l *stubLLM) Chat(ctx context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	l.calls++
	l.lastMsgs = messages
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if l.err != nil {
		return "", l.err
	}
	return l.answer, nil
}

func (l *stubLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return l.Chat(ctx, []driven.ChatMessage{{Role: "user", Content: prompt}}, driven.ChatOptions{})
}

func (l *stubLLM) ModelName() string { return "stub" }
func (l *stubLLM) Ping(context.Context) error { return nil }
func (l *stubLLM) Close() error { return nil }

// failingSessions wraps a driven.SessionStore and fails AppendMessage
// after allowAppends successful calls.
type failingSessions struct {
	driven.SessionStore
	allowAppends int
	appends      int
}

func (f *failingSessions) AppendMessage(ctx context.Context, sessionID, owner, role, content string) error {
	if f.appends >= f.allowAppends {
		return fmt.Errorf("disk full")
	}
	f.appends++
	return f.SessionStore.AppendMessage(ctx, sessionID, owner, role, content)
}
