package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contexture-ai/contexture/internal/core/domain"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
	Long:  `List, inspect, rename, and delete chat sessions. All operations are scoped to the current owner.`,
	RunE:  runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List session ids for the current owner",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an empty session",
	Args:  cobra.NoArgs,
	RunE:  runSessionsNew,
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename [session-id] [name]",
	Short: "Set a session's display name",
	Args:  cobra.ExactArgs(2),
	RunE:  runSessionsRename,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a session and its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Print a session's message log",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsNewCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(historyCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	owner, err := currentOwner()
	if err != nil {
		return err
	}

	ids, err := chatService.ListSessions(cmd.Context(), owner)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(ids) == 0 {
		cmd.Println("No sessions.")
		return nil
	}
	for _, id := range ids {
		cmd.Println(id)
	}
	return nil
}

func runSessionsNew(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	owner, err := currentOwner()
	if err != nil {
		return err
	}

	id, err := chatService.CreateSession(cmd.Context(), owner)
	if err != nil {
		return err
	}
	cmd.Println(id)
	return nil
}

func runSessionsRename(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	owner, err := currentOwner()
	if err != nil {
		return err
	}

	if err := chatService.RenameSession(cmd.Context(), args[0], owner, args[1]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("session %s not found for %s", args[0], owner)
		}
		return fmt.Errorf("rename session: %w", err)
	}
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	owner, err := currentOwner()
	if err != nil {
		return err
	}

	if err := chatService.DeleteSession(cmd.Context(), args[0], owner); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("session %s not found for %s", args[0], owner)
		}
		return fmt.Errorf("delete session: %w", err)
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	owner, err := currentOwner()
	if err != nil {
		return err
	}

	messages, err := chatService.GetHistory(cmd.Context(), args[0], owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("session %s not found for %s", args[0], owner)
		}
		return fmt.Errorf("get history: %w", err)
	}

	if len(messages) == 0 {
		cmd.Println("No messages.")
		return nil
	}

	for _, msg := range messages {
		cmd.Printf("[%s] %s\n", strings.ToUpper(msg.Role), msg.Content)
	}
	return nil
}
