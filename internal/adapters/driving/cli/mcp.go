package cli

import (
	"github.com/spf13/cobra"

	"github.com/cbyc/lexora/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search and
ask over your indexed notes and bookmarks.

By default the server speaks JSON-RPC over stdio. Use --http to serve the
streamable HTTP transport instead, e.g. for the MCP Inspector.

Examples:
  lexora mcp
  lexora mcp --http 127.0.0.1:8090

Assistant configuration:
  {
    "mcpServers": {
      "lexora": {
        "command": "/path/to/lexora",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve over HTTP at this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	ensureFeeds()
	server, err := mcp.NewServer(&mcp.Ports{Pipeline: pipeline, Reindex: reindexService, Feeds: feedService})
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		cmd.PrintErrf("MCP server listening on http://%s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}
	return server.Run(cmd.Context())
}
