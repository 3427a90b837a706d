package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contexture-ai/contexture/internal/core/domain"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the indexed documents",
	Long: `Runs one retrieval-augmented turn: embeds the question, retrieves the
closest document chunks, and asks the configured LLM with that context
plus the session's prior history.

Without --session a fresh session is created and its id printed, so the
conversation can be continued later.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "session id to continue")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	owner, err := currentOwner()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sessionID := askSession
	if sessionID == "" {
		sessionID, err = chatService.CreateSession(ctx, owner)
		if err != nil {
			return err
		}
		cmd.Printf("Session: %s\n\n", sessionID)
	}

	answer, err := chatService.Ask(ctx, sessionID, owner, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("session %s not found for %s", sessionID, owner)
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer)
	return nil
}
