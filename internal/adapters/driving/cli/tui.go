package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cbyc/lexora/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface for searching and asking.

Controls:
  Enter    - Search / Ask
  Tab      - Switch between search and ask
  Ctrl+R   - Reindex notes and bookmarks
  ↑/k, ↓/j - Navigate results
  n        - New query
  ?        - Help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{Pipeline: pipeline, Reindex: reindexService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
