package tags

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plonetools/tagctl/internal/cmd/output"
)

// NewItemsCommand creates the tags items subcommand.
func NewItemsCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "items <tag>",
		Short: "List the items carrying one tag",
		Long: `Items lists every content item carrying the given tag, via the
repository's subject search. The match is exact, including case.`,
		Example: `  tagctl tags items swimming
  tagctl tags items swimming --scope events -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coordinator, err := app.Coordinator()
			if err != nil {
				return err
			}
			ctx, cancel := collectContext(cmd)
			defer cancel()
			refs, err := coordinator.TagItems(ctx, scopeFlag(cmd), args[0])
			if err != nil {
				return err
			}

			flags := app.Flags()
			if !flags.Quiet {
				fmt.Fprintf(os.Stderr, "Found %d items tagged %q\n", len(refs), args[0])
			}

			formatter := output.NewFormatter(output.Format(flags.Output))
			return formatter.Format(os.Stdout, refs)
		},
	}
}
