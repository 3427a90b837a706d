package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contexture-ai/contexture/internal/core/domain"
)

// stubChat satisfies the chat port with canned responses.
type stubChat struct {
	answer string
	err    error
}

func (s *stubChat) Ask(context.Context, string, string, string) (string, error) {
	return s.answer, s.err
}
func (s *stubChat) CreateSession(context.Context, string) (string, error) { return "sid", nil }
func (s *stubChat) GetHistory(context.Context, string, string) ([]domain.Message, error) {
	return nil, nil
}
func (s *stubChat) ListSessions(context.Context, string) ([]string, error)     { return nil, nil }
func (s *stubChat) RenameSession(context.Context, string, string, string) error { return nil }
func (s *stubChat) DeleteSession(context.Context, string, string) error         { return nil }

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestModel_RendersExistingHistory(t *testing.T) {
	history := []domain.Message{
		{Role: domain.RoleUser, Content: "what is a cat"},
		{Role: domain.RoleAssistant, Content: "a small mammal"},
	}
	m := sized(New(&stubChat{}, "sid", "alice", history))

	view := m.View()
	assert.Contains(t, view, "what is a cat")
	assert.Contains(t, view, "a small mammal")
}

func TestModel_AnswerAppendsAssistantTurn(t *testing.T) {
	m := sized(New(&stubChat{}, "sid", "alice", nil))
	m.messages = append(m.messages, domain.Message{Role: domain.RoleUser, Content: "hi"})

	updated, _ := m.Update(answerMsg{answer: "hello"})
	m = updated.(Model)

	require.Len(t, m.messages, 2)
	assert.Equal(t, domain.RoleAssistant, m.messages[1].Role)
	assert.Equal(t, "hello", m.messages[1].Content)
	assert.False(t, m.thinking)
}

func TestModel_ErrDropsUnpersistedUserTurn(t *testing.T) {
	m := sized(New(&stubChat{}, "sid", "alice", nil))
	m.messages = append(m.messages, domain.Message{Role: domain.RoleUser, Content: "hi"})
	m.thinking = true

	updated, _ := m.Update(errMsg{err: errors.New("provider down")})
	m = updated.(Model)

	assert.Empty(t, m.messages)
	assert.Contains(t, m.status, "provider down")
	assert.False(t, m.thinking)
}

func TestModel_EnterWithEmptyInputDoesNothing(t *testing.T) {
	m := sized(New(&stubChat{}, "sid", "alice", nil))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.Empty(t, m.messages)
	assert.False(t, m.thinking)
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := sized(New(&stubChat{}, "sid", "alice", nil))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}
