package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cbyc/lexora/internal/core/domain"
)

var reindexRebuild bool

var reindexCmd = &cobra.Command{
	Use:       "reindex [notes|bookmarks]",
	Short:     "Index new notes and bookmarks",
	ValidArgs: []string{string(domain.SourceKindNotes), string(domain.SourceKindBookmarks)},
	Long: `Loads every note and bookmark added since the last successful sync and
indexes it. With a kind argument only that source runs.

--rebuild drops the whole index and forgets every cursor first, so all
content is re-ingested.`,
	Args: cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	RunE: runReindex,
}

func init() {
	reindexCmd.Flags().BoolVar(&reindexRebuild, "rebuild", false, "drop the index and reset all cursors first")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}
	if reindexService == nil {
		return errNoReindex
	}
	ctx := cmd.Context()

	if reindexRebuild {
		if err := pipeline.ResetIndex(ctx); err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}
		for _, kind := range domain.AllSourceKinds() {
			if err := reindexService.ResetCursor(ctx, kind); err != nil {
				return fmt.Errorf("rebuild failed: %w", err)
			}
		}
		cmd.Println("Index cleared.")
	}

	if len(args) == 1 {
		kind := domain.SourceKind(args[0])
		n, err := reindexService.ReindexSource(ctx, kind)
		if err != nil {
			return fmt.Errorf("reindex %s failed: %w", kind, err)
		}
		cmd.Printf("Indexed %d %s.\n", n, kind)
		return nil
	}

	result, err := reindexService.Reindex(ctx)
	if result != nil {
		cmd.Printf("Indexed %d notes and %d bookmarks.\n", result.NotesIndexed, result.BookmarksIndexed)
	}
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
}
