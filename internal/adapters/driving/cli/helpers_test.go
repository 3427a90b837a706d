package cli

import (
	"context"
	"time"

	"github.com/contexture-ai/contexture/internal/adapters/driven/storage/memory"
	"github.com/contexture-ai/contexture/internal/adapters/driven/vector/flat"
	"github.com/contexture-ai/contexture/internal/core/ports/driven"
	"github.com/contexture-ai/contexture/internal/core/services"
)

// fakeEmbedder returns one of two fixed vectors based on text length.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if len(text)%2 == 1 {
		return []float32{0, 1}, nil
	}
	return []float32{1, 0}, nil
}

func (f fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, _ := f.Embed(ctx, t)
		out[i] = v
	}
	return out, nil
}

func (fakeEmbedder) Dimensions() int            { return 2 }
func (fakeEmbedder) ModelName() string          { return "fake-embed" }
func (fakeEmbedder) Ping(context.Context) error { return nil }
func (fakeEmbedder) Close() error               { return nil }

// fakeLLM answers every conversation the same way.
type fakeLLM struct{}

func (fakeLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	return "canned answer", nil
}

func (fakeLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return "canned answer", nil
}

func (fakeLLM) ModelName() string          { return "fake-llm" }
func (fakeLLM) Ping(context.Context) error { return nil }
func (fakeLLM) Close() error               { return nil }

// setupTestServices wires the command vars to in-memory implementations.
// The returned cleanup resets them so initServices rewires on real runs.
func setupTestServices() func() {
	index := flat.New(2)
	chunks := memory.NewChunkStore()
	sessions := memory.NewSessionStore()

	chatService = services.NewChatService(
		fakeEmbedder{}, index, chunks, sessions, fakeLLM{},
		services.ChatConfig{TopK: 5, GenerateTimeout: time.Second},
	)
	ingestSvc = services.NewIngestService(fakeEmbedder{}, chunks, index)
	flagOwner = "tester"
	askSession = ""
	chatSession = ""

	return func() {
		chatService = nil
		ingestSvc = nil
		configStore = nil
		flagOwner = ""
	}
}
