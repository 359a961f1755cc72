package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plonetools/tagctl/internal/cmd/output"
)

// itemsCmd lists the direct children of a container.
var itemsCmd = &cobra.Command{
	Use:     "items [path]",
	GroupID: "core",
	Short:   "List the children of a container",
	Long: `Items lists the direct children of a container path. Without a path
the repository root is listed.`,
	Example: `  tagctl items
  tagctl items news --limit 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newGateway()
		if err != nil {
			return err
		}

		children, err := client.Children(cmd.Context(), path)
		if err != nil {
			return err
		}

		total := len(children)
		if limit > 0 && len(children) > limit {
			children = children[:limit]
		}

		summaries := make([]itemSummary, 0, len(children))
		for _, child := range children {
			summaries = append(summaries, summarize(client, child))
		}

		if !globalFlags.Quiet {
			fmt.Fprintf(os.Stderr, "Showing %d of %d items\n", len(summaries), total)
		}

		formatter := output.NewFormatter(output.Format(globalFlags.Output))
		return formatter.Format(os.Stdout, summaries)
	},
}

func init() {
	rootCmd.AddCommand(itemsCmd)
	itemsCmd.Flags().Int("limit", 0, "Maximum number of items to show (0 for all)")
}
