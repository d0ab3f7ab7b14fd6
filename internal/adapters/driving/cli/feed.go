package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cbyc/lexora/internal/app"
	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driving"
)

var (
	feedOutput string
	feedRange  string
	feedFrom   string
	feedTo     string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Follow RSS and Atom feeds",
	Long: `Subscriptions are kept in feed.data_file. Posts are fetched live from every
subscribed feed when listed; they are not indexed.`,
}

var feedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscribed feeds",
	Args:  cobra.NoArgs,
	RunE:  runFeedList,
}

var feedAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Subscribe to a feed after checking that it parses",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeedAdd,
}

var feedPostsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Show recent posts of every subscribed feed, newest first",
	Long: `Ranges: ` + strings.Join(domain.RangePresets(), ", ") + `.
--from and --to take RFC 3339 timestamps and override --range.`,
	Args: cobra.NoArgs,
	RunE: runFeedPosts,
}

func init() {
	feedListCmd.Flags().StringVarP(&feedOutput, "output", "o", OutputAuto, "output format: table, json or yaml")
	feedPostsCmd.Flags().StringVarP(&feedOutput, "output", "o", OutputAuto, "output format: table, json or yaml")
	feedPostsCmd.Flags().StringVar(&feedRange, "range", "", "preset range (default feed.default_range)")
	feedPostsCmd.Flags().StringVar(&feedFrom, "from", "", "earliest publication time (RFC 3339)")
	feedPostsCmd.Flags().StringVar(&feedTo, "to", "", "latest publication time (RFC 3339)")
	feedCmd.AddCommand(feedListCmd, feedAddCmd, feedPostsCmd)
	rootCmd.AddCommand(feedCmd)
}

// ensureFeeds builds the feed service on its own; listing feeds needs no
// embedding service or vector store.
func ensureFeeds() {
	if feedService == nil {
		feedService = app.NewFeedService(appConfig)
	}
}

func runFeedList(cmd *cobra.Command, _ []string) error {
	format, err := resolveOutput(feedOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	ensureFeeds()

	feeds, err := feedService.Feeds(cmd.Context())
	if err != nil {
		return err
	}
	if feeds == nil {
		feeds = []domain.Feed{}
	}

	w := cmd.OutOrStdout()
	switch format {
	case OutputJSON:
		return writeJSON(w, feeds)
	case OutputYAML:
		return writeYAML(w, feeds)
	}

	if len(feeds) == 0 {
		cmd.Println("No feeds subscribed. Add one with: lexora feed add <name> <url>")
		return nil
	}
	rows := make([][]string, 0, len(feeds))
	for _, f := range feeds {
		rows = append(rows, []string{f.Name, f.URL})
	}
	return writeTable(w, []string{"NAME", "URL"}, rows)
}

func runFeedAdd(cmd *cobra.Command, args []string) error {
	ensureFeeds()

	feed, err := feedService.AddFeed(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("add feed failed: %w", err)
	}
	cmd.Printf("Subscribed to %s (%s).\n", feed.Name, feed.URL)
	return nil
}

func runFeedPosts(cmd *cobra.Command, _ []string) error {
	format, err := resolveOutput(feedOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	ensureFeeds()

	res, err := feedService.Posts(cmd.Context(), driving.PostsQuery{Range: feedRange, From: feedFrom, To: feedTo})
	if err != nil {
		return fmt.Errorf("list posts failed: %w", err)
	}
	for _, fe := range res.Errors {
		cmd.PrintErrf("warning: %v\n", fe)
	}

	posts := res.Posts
	if posts == nil {
		posts = []domain.Post{}
	}

	w := cmd.OutOrStdout()
	switch format {
	case OutputJSON:
		err = writeJSON(w, posts)
	case OutputYAML:
		err = writeYAML(w, posts)
	default:
		err = writePostsTable(cmd, posts)
	}
	if err != nil {
		return err
	}

	if res.AllFailed() {
		return fmt.Errorf("all %d feeds failed", res.FeedCount)
	}
	return nil
}

func writePostsTable(cmd *cobra.Command, posts []domain.Post) error {
	if len(posts) == 0 {
		cmd.Println("No posts in range.")
		return nil
	}
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		published := "-"
		if !p.PublishedAt.IsZero() {
			published = p.PublishedAt.Local().Format(time.DateOnly)
		}
		rows = append(rows, []string{published, p.FeedName, preview(p.Title, previewRunes), p.URL})
	}
	return writeTable(cmd.OutOrStdout(), []string{"PUBLISHED", "FEED", "TITLE", "URL"}, rows)
}
