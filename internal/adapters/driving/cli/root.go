// Package cli provides the command-line interface for contexture.
// Commands are wired to core services in Execute before any command runs.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/contexture-ai/contexture/internal/adapters/driven/ai"
	"github.com/contexture-ai/contexture/internal/adapters/driven/config/file"
	"github.com/contexture-ai/contexture/internal/adapters/driven/storage/sqlite"
	"github.com/contexture-ai/contexture/internal/adapters/driven/vector/flat"
	"github.com/contexture-ai/contexture/internal/core/domain"
	"github.com/contexture-ai/contexture/internal/core/ports/driven"
	"github.com/contexture-ai/contexture/internal/core/services"
	"github.com/contexture-ai/contexture/internal/logger"
	"github.com/contexture-ai/contexture/internal/postprocessors/chunker"
)

// version is set at build time via ldflags.
var version = "dev"

// Services shared by commands. Populated in initServices.
var (
	configStore  *file.ConfigStore
	store        *sqlite.Store
	chatService  *services.ChatService
	ingestSvc    *services.IngestService
	embeddingSvc driven.EmbeddingService
	llmSvc       driven.LLMService
)

// Persistent flags.
var (
	flagVerbose   bool
	flagConfigDir string
	flagOwner     string
)

var rootCmd = &cobra.Command{
	Use:   "contexture",
	Short: "Retrieval-augmented conversation over your documents",
	Long: `Contexture ingests documents into a local vector index and answers
questions about them in persistent, owner-scoped chat sessions.

Drop text into the index with 'contexture ingest', then converse with
'contexture ask' or the interactive 'contexture chat'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		// version and help need no wiring
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeServices()
	},
}

// Execute runs the CLI. Returns an exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "config directory (default ~/.contexture)")
	rootCmd.PersistentFlags().StringVar(&flagOwner, "owner", "", "identity that owns sessions (default from config, then $USER)")
}

// initServices builds the full service graph from configuration.
// Commands that don't need AI providers still get the stores.
// A no-op when services are already wired (tests inject their own).
func initServices(cmd *cobra.Command) error {
	if chatService != nil {
		return nil
	}

	var err error

	configStore, err = file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settings := configStore.AppSettings()

	store, err = sqlite.NewStore(configStore.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	index := flat.New(settings.Retrieval.Dimensions)
	promptStore, err := file.NewPromptStore(configStore.GetString("storage.prompt_dir"))
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}

	// Provider-backed services. Commands that only touch local state
	// (sessions, history) work without them.
	needsAI := commandNeedsAI(cmd.Name())
	if needsAI {
		embeddingSvc, err = ai.CreateAndValidateEmbeddingService(&settings.Embedding)
		if err != nil {
			return err
		}
		if embeddingSvc == nil {
			return fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
		}

		llmSvc, err = ai.CreateAndValidateLLMService(&settings.LLM)
		if err != nil {
			return err
		}
	}

	chatService = services.NewChatService(
		embeddingSvc,
		index,
		store.ChunkStore(),
		store.SessionStore(),
		llmSvc,
		services.ChatConfig{
			TopK:            settings.Retrieval.TopK,
			GenerateTimeout: time.Duration(settings.Chat.GenerateTimeoutSecs) * time.Second,
			Temperature:     settings.Chat.Temperature,
		},
	)
	chatService.SetPromptStore(promptStore)

	ingestSvc = services.NewIngestService(embeddingSvc, store.ChunkStore(), index)

	var splitOpts []chunker.Option
	if size := configStore.GetInt("ingest.chunk_size"); size > 0 {
		splitOpts = append(splitOpts, chunker.WithChunkSize(size))
	}
	if _, ok := configStore.Get("ingest.chunk_overlap"); ok {
		splitOpts = append(splitOpts, chunker.WithOverlap(configStore.GetInt("ingest.chunk_overlap")))
	}
	ingestSvc.SetSplitter(chunker.New(splitOpts...))

	// Make previously ingested chunks searchable in this process.
	if needsAI {
		if _, err := ingestSvc.RebuildIndex(cmd.Context()); err != nil {
			logger.Warn("Index rebuild failed: %v", err)
		}
	}

	return nil
}

// commandNeedsAI reports whether the named command requires embedding
// and LLM providers.
func commandNeedsAI(name string) bool {
	switch name {
	case "ask", "chat", "ingest", "reindex", "watch":
		return true
	default:
		return false
	}
}

func closeServices() {
	if embeddingSvc != nil {
		embeddingSvc.Close()
	}
	if llmSvc != nil {
		llmSvc.Close()
	}
	if store != nil {
		store.Close()
	}
}

// currentOwner resolves the identity that scopes sessions.
func currentOwner() (string, error) {
	if flagOwner != "" {
		return flagOwner, nil
	}
	if configStore != nil {
		if owner := configStore.GetString("owner"); owner != "" {
			return owner, nil
		}
	}
	if user := os.Getenv("USER"); user != "" {
		return user, nil
	}
	return "", fmt.Errorf("cannot determine owner: set --owner or the 'owner' config key")
}
