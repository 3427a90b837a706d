package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/contexture-ai/contexture/internal/adapters/driving/watch"
	"github.com/contexture-ai/contexture/internal/normalisers"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the index",
	Long: `Reads the given files, strips markdown formatting where applicable,
splits pages (separated by form feed characters) into overlapping
chunks, embeds them, and makes them searchable.

Re-ingesting a file replaces its previous chunks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var removeCmd = &cobra.Command{
	Use:   "remove [file-name...]",
	Short: "Remove previously ingested files from the index",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRemove,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the vector index from stored chunks",
	Long: `Reconstructs the in-memory vector index from a full scan of the chunk
store. Chunks whose stored vectors don't match the configured dimensions
are skipped.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a drop directory and ingest files as they appear",
	Long: `Monitors a directory and ingests .txt and .md files dropped into it.
Removed files are evicted from the index. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "", "directory to watch (default from 'watch.dir' config key)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(watchCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestSvc == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()
	reg := normalisers.New()
	total := 0
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		fileName := filepath.Base(path)
		text, err := reg.Normalise(fileName, content)
		if err != nil {
			return fmt.Errorf("normalise %s: %w", fileName, err)
		}

		if _, err := ingestSvc.RemoveFile(ctx, fileName); err != nil {
			return err
		}

		n, err := ingestSvc.IngestPages(ctx, fileName, text)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", fileName, err)
		}
		cmd.Printf("  %s: %d chunks\n", fileName, n)
		total += n
	}

	cmd.Printf("Ingested %d chunks from %d files.\n", total, len(args))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	if ingestSvc == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()
	for _, fileName := range args {
		n, err := ingestSvc.RemoveFile(ctx, fileName)
		if err != nil {
			return err
		}
		cmd.Printf("  %s: %d chunks removed\n", fileName, n)
	}
	return nil
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if ingestSvc == nil {
		return errors.New("ingest service not configured")
	}

	n, err := ingestSvc.RebuildIndex(cmd.Context())
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	cmd.Printf("Index rebuilt: %d chunks searchable.\n", n)
	return nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if ingestSvc == nil {
		return errors.New("ingest service not configured")
	}

	dir := watchDir
	if dir == "" && configStore != nil {
		dir = configStore.GetString("watch.dir")
	}
	if dir == "" {
		return errors.New("no directory to watch: pass --dir or set the 'watch.dir' config key")
	}

	w, err := watch.New(ingestSvc, watch.Config{Dir: dir})
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)
	if err := w.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
