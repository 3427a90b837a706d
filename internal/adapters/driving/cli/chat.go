package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/contexture-ai/contexture/internal/adapters/driving/tui"
	"github.com/contexture-ai/contexture/internal/core/domain"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Opens a terminal chat over the indexed documents. Each turn retrieves
the closest chunks and answers with the configured LLM.

Without --session a fresh session is created; pass --session to pick up
an earlier conversation where it left off.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "session id to continue")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	owner, err := currentOwner()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sessionID := chatSession
	var history []domain.Message

	if sessionID == "" {
		sessionID, err = chatService.CreateSession(ctx, owner)
		if err != nil {
			return err
		}
	} else {
		history, err = chatService.GetHistory(ctx, sessionID, owner)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("session %s not found for %s", sessionID, owner)
			}
			return fmt.Errorf("load history: %w", err)
		}
	}

	model := tui.New(chatService, sessionID, owner, history)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat UI failed: %w", err)
	}
	return nil
}
