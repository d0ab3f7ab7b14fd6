package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cbyc/lexora/internal/connectors/notes"
	"github.com/cbyc/lexora/internal/core/domain"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Index notes as they change",
	Long: `Syncs the notes directory once, then watches it and re-syncs shortly
after files are created or modified. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", notes.DefaultDebounce, "quiet period before a sync runs")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}
	if reindexService == nil {
		return errNoReindex
	}

	sync := func(ctx context.Context) error {
		n, err := reindexService.ReindexSource(ctx, domain.SourceKindNotes)
		if err != nil {
			return err
		}
		if n > 0 {
			cmd.Printf("Indexed %d notes.\n", n)
		}
		return nil
	}

	if err := sync(cmd.Context()); err != nil {
		return fmt.Errorf("initial notes sync: %w", err)
	}

	w, err := notes.NewWatcher(appConfig.Notes.Dir, watchDebounce, sync)
	if err != nil {
		return err
	}
	cmd.PrintErrf("Watching %s for changes...\n", appConfig.Notes.Dir)
	return w.Run(cmd.Context())
}
