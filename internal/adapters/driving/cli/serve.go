package cli

import (
	"github.com/spf13/cobra"

	"github.com/cbyc/lexora/internal/adapters/driving/rest"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the query, ask and reindex endpoints over HTTP.

Endpoints:
  GET  /healthz
  POST /api/v1/query      {"query": "...", "top_k": 5, "score_threshold": 0.2}
  POST /api/v1/ask        {"question": "..."}
  POST /api/v1/reindex    [?kind=notes|bookmarks]
  GET  /api/v1/sync-state
  GET  /api/v1/rss        [?range=last_week | ?from=...&to=...]
  PUT  /api/v1/rss        {"name": "...", "url": "..."}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.host:server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	ensureFeeds()
	server, err := rest.NewServer(&rest.Ports{Pipeline: pipeline, Reindex: reindexService, Feeds: feedService})
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = appConfig.Server.Addr()
	}
	cmd.PrintErrf("lexora API listening on http://%s\n", addr)

	return server.Run(cmd.Context(), addr)
}
