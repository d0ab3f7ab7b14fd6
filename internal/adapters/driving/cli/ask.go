package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askOutput string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from indexed content",
	Long: `Retrieves the chunks most similar to the question and asks the configured
LLM to answer using only that context. Prints NOT_FOUND when the context
does not contain the answer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askOutput, "output", "o", OutputAuto, "output format: table, json or yaml")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	format, err := resolveOutput(askOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := ensureServices(cmd); err != nil {
		return err
	}

	resp, err := pipeline.Ask(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}
	if resp.Sources == nil {
		resp.Sources = []string{}
	}

	switch format {
	case OutputJSON:
		return writeJSON(cmd.OutOrStdout(), resp)
	case OutputYAML:
		return writeYAML(cmd.OutOrStdout(), resp)
	}

	cmd.Println(resp.Text)
	if len(resp.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range resp.Sources {
			cmd.Printf("  - %s\n", src)
		}
	}
	return nil
}
