package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contexture-ai/contexture/internal/core/domain"
	"github.com/contexture-ai/contexture/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(LLMConfig{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		RequestsPerMin: 6000,
	})
	require.NoError(t, err)
	return svc
}

func TestChat_ReturnsAssistantReply(t *testing.T) {
	var gotReq chatCompletionRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := chatCompletionResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: "hello there"}})
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	reply, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: domain.RoleSystem, Content: "be brief"},
		{Role: domain.RoleUser, Content: "hi"},
	}, driven.ChatOptions{Temperature: 0.2})

	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, domain.RoleSystem, gotReq.Messages[0].Role)
	assert.Equal(t, "hi", gotReq.Messages[1].Content)
}

func TestChat_RateLimitedStatusMapsToDomainError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: domain.RoleUser, Content: "hi"},
	}, driven.ChatOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestChat_BadRequestStatusMapsToDomainError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: domain.RoleUser, Content: "hi"},
	}, driven.ChatOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestChat_DeadlineExpiryMapsToTimeout(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The limiter wait observes the dead context before any request is sent.
	_, err := svc.Chat(ctx, []driven.ChatMessage{
		{Role: domain.RoleUser, Content: "hi"},
	}, driven.ChatOptions{})
	require.Error(t, err)
}

func TestGenerate_SendsPromptAsSingleUserMessage(t *testing.T) {
	var gotReq chatCompletionRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := chatCompletionResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: "done"}})
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	out, err := svc.Generate(context.Background(), "summarise this", driven.GenerateOptions{MaxTokens: 50})
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, domain.RoleUser, gotReq.Messages[0].Role)
	assert.Equal(t, "summarise this", gotReq.Messages[0].Content)
	assert.Equal(t, 50, gotReq.MaxTokens)
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewLLMService(LLMConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}
