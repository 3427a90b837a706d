// Package tui provides the interactive chat interface built on Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/contexture-ai/contexture/internal/core/domain"
	"github.com/contexture-ai/contexture/internal/core/ports/driving"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// answerMsg carries a completed turn back into the update loop.
type answerMsg struct {
	answer string
}

// errMsg carries a failed turn.
type errMsg struct {
	err error
}

// Model is the Bubble Tea model for an interactive chat session.
type Model struct {
	chat      driving.ChatService
	sessionID string
	owner     string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	messages []domain.Message
	status   string
	thinking bool
	ready    bool
}

// New creates a chat model bound to an existing session. History already
// in the session is rendered immediately.
func New(chat driving.ChatService, sessionID, owner string, history []domain.Message) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		chat:      chat,
		sessionID: sessionID,
		owner:     owner,
		input:     ti,
		viewport:  viewport.New(0, 0),
		spinner:   sp,
		messages:  history,
		status:    fmt.Sprintf("Session %s. Ctrl-C to quit.", sessionID),
	}
}

// Init starts the input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and turn-completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 1 // header, spacer, input frame, status
		m.viewport.Width = msg.Width
		m.viewport.Height = max(3, msg.Height-reserved)
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.thinking {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()
			m.thinking = true
			m.status = "Thinking..."
			m.messages = append(m.messages, domain.Message{Role: domain.RoleUser, Content: question})
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, tea.Batch(m.spinner.Tick, m.askCmd(question))
		}

	case answerMsg:
		m.thinking = false
		m.status = fmt.Sprintf("Session %s. Ctrl-C to quit.", m.sessionID)
		m.messages = append(m.messages, domain.Message{Role: domain.RoleAssistant, Content: msg.answer})
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case errMsg:
		m.thinking = false
		m.status = errorStyle.Render("Error: " + msg.err.Error())
		// A failed turn is never persisted, so drop the user message
		// from the local transcript to keep it in sync with the store.
		if n := len(m.messages); n > 0 && m.messages[n-1].Role == domain.RoleUser {
			m.messages = m.messages[:n-1]
		}
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the transcript, input box, and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("Contexture Chat")
	status := statusStyle.Render(m.status)
	if m.thinking {
		status = m.spinner.View() + " " + status
	}

	return header + "\n" +
		m.viewport.View() + "\n" +
		inputBoxStyle.Render(m.input.View()) + "\n" +
		status
}

// askCmd runs one turn off the update loop so typing stays responsive.
func (m Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.chat.Ask(context.Background(), m.sessionID, m.owner, question)
		if err != nil {
			return errMsg{err: err}
		}
		return answerMsg{answer: answer}
	}
}

func (m Model) renderTranscript() string {
	if len(m.messages) == 0 {
		return statusStyle.Render("No messages yet. Ask something about your documents.")
	}

	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case domain.RoleUser:
			b.WriteString(userStyle.Render("You: "))
		case domain.RoleAssistant:
			b.WriteString(assistantStyle.Render("Assistant: "))
		default:
			b.WriteString(msg.Role + ": ")
		}
		b.WriteString(msg.Content)
	}
	return b.String()
}
