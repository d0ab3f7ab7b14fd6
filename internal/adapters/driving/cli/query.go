package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cbyc/lexora/internal/core/domain"
)

var (
	queryTopK      int
	queryThreshold float64
	queryOutput    string
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Search indexed notes and bookmarks",
	Long: `Embeds the query and returns the most similar chunks, best match first.

Without --top-k or --threshold the configured search defaults apply.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "maximum number of chunks (default from config)")
	queryCmd.Flags().Float64Var(&queryThreshold, "threshold", 0, "minimum cosine similarity")
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", OutputAuto, "output format: table, json or yaml")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	format, err := resolveOutput(queryOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := ensureServices(cmd); err != nil {
		return err
	}

	query := strings.Join(args, " ")

	var chunks []domain.Chunk
	if cmd.Flags().Changed("top-k") || cmd.Flags().Changed("threshold") {
		opts := appConfig.Search.Options()
		if cmd.Flags().Changed("top-k") {
			opts.TopK = queryTopK
		}
		if cmd.Flags().Changed("threshold") {
			opts.ScoreThreshold = queryThreshold
		}
		chunks, err = pipeline.Search(cmd.Context(), query, opts)
	} else {
		chunks, err = pipeline.SearchDocumentStore(cmd.Context(), query)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if chunks == nil {
		chunks = []domain.Chunk{}
	}

	w := cmd.OutOrStdout()
	switch format {
	case OutputJSON:
		return writeJSON(w, chunks)
	case OutputYAML:
		return writeYAML(w, chunks)
	}

	if len(chunks) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	rows := make([][]string, 0, len(chunks))
	for i, c := range chunks {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.3f", c.Score),
			fmt.Sprintf("%s #%d", c.Source, c.ChunkIndex),
			preview(c.Text, previewRunes),
		})
	}
	return writeTable(w, []string{"#", "SCORE", "SOURCE", "TEXT"}, rows)
}
