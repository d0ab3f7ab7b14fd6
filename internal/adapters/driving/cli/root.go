// Package cli provides the cobra command tree for lexora.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cbyc/lexora/internal/app"
	"github.com/cbyc/lexora/internal/config"
	"github.com/cbyc/lexora/internal/core/ports/driving"
	"github.com/cbyc/lexora/internal/logger"
)

// version is overridden at build time via ldflags or SetVersion.
var version = "dev"

var (
	configPath string
	verbose    bool

	// appConfig is loaded in PersistentPreRunE unless a test set it.
	appConfig *config.Config

	// Driving ports used by the commands. Tests assign mocks directly.
	pipeline       driving.Pipeline
	reindexService driving.ReindexService
	feedService    driving.FeedService

	application *app.App
)

var errNoReindex = errors.New("reindex service not configured")

var rootCmd = &cobra.Command{
	Use:   "lexora",
	Short: "Retrieve and ask questions over your notes and bookmarks",
	Long: `lexora indexes a directory of plain-text notes and the pages behind your
Firefox bookmarks into a vector store, then answers similarity searches and
questions grounded in what it retrieved.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./lexora.toml or ~/.lexora/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	if appConfig == nil {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		appConfig = cfg
	}

	if verbose {
		logger.SetVerbose(true)
		return nil
	}
	return logger.SetLevel(appConfig.LogLevel)
}

// ensureServices wires the application unless the ports were injected.
func ensureServices(cmd *cobra.Command) error {
	if pipeline != nil {
		return nil
	}

	a, err := app.New(cmd.Context(), appConfig, version)
	if err != nil {
		return fmt.Errorf("starting lexora: %w", err)
	}
	application = a
	pipeline = a.Pipeline
	reindexService = a.Reindex
	feedService = a.Feeds
	return nil
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. Command output goes to stdout; cobra's
// Print helpers would otherwise write to stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// Close releases the services opened by a command.
func Close() error {
	if application == nil {
		return nil
	}
	err := application.Close()
	application = nil
	return err
}
