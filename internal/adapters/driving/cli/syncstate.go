package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cbyc/lexora/internal/core/domain"
)

var (
	syncStateOutput   string
	syncStateResetAll bool
)

var syncStateCmd = &cobra.Command{
	Use:   "sync-state",
	Short: "Inspect or reset sync cursors",
	Long: `Each source kind keeps a cursor: the timestamp of the newest item already
indexed. Only items newer than the cursor are loaded on the next reindex.`,
}

var syncStateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored cursors",
	Args:  cobra.NoArgs,
	RunE:  runSyncStateShow,
}

var syncStateResetCmd = &cobra.Command{
	Use:       "reset [notes|bookmarks]",
	Short:     "Forget a cursor so the next reindex processes everything",
	ValidArgs: []string{string(domain.SourceKindNotes), string(domain.SourceKindBookmarks)},
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	RunE:      runSyncStateReset,
}

func init() {
	syncStateShowCmd.Flags().StringVarP(&syncStateOutput, "output", "o", OutputAuto, "output format: table, json or yaml")
	syncStateResetCmd.Flags().BoolVar(&syncStateResetAll, "all", false, "reset every source kind")
	syncStateCmd.AddCommand(syncStateShowCmd, syncStateResetCmd)
	rootCmd.AddCommand(syncStateCmd)
}

func runSyncStateShow(cmd *cobra.Command, _ []string) error {
	format, err := resolveOutput(syncStateOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := ensureServices(cmd); err != nil {
		return err
	}
	if reindexService == nil {
		return errNoReindex
	}

	states, err := reindexService.Cursors(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading sync state: %w", err)
	}
	if states == nil {
		states = []domain.SyncState{}
	}

	w := cmd.OutOrStdout()
	switch format {
	case OutputJSON:
		return writeJSON(w, states)
	case OutputYAML:
		return writeYAML(w, states)
	}

	if len(states) == 0 {
		cmd.Println("No sources have synced yet.")
		return nil
	}

	rows := make([][]string, 0, len(states))
	for _, s := range states {
		rows = append(rows, []string{
			s.Kind.String(),
			fmt.Sprintf("%d", s.LastSyncTimestamp),
			s.UpdatedAt.Local().Format(time.DateTime),
		})
	}
	return writeTable(w, []string{"KIND", "CURSOR", "UPDATED"}, rows)
}

func runSyncStateReset(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !syncStateResetAll {
		return fmt.Errorf("specify a source kind or --all: %w", domain.ErrInvalidInput)
	}
	if err := ensureServices(cmd); err != nil {
		return err
	}
	if reindexService == nil {
		return errNoReindex
	}

	kinds := domain.AllSourceKinds()
	if len(args) == 1 {
		kinds = []domain.SourceKind{domain.SourceKind(args[0])}
	}

	for _, kind := range kinds {
		if err := reindexService.ResetCursor(cmd.Context(), kind); err != nil {
			return err
		}
		cmd.Printf("Reset %s cursor.\n", kind)
	}
	return nil
}
