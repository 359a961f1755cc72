package tags

import (
	"github.com/spf13/cobra"
)

// NewMergeCommand creates the tags merge subcommand.
func NewMergeCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <source>... --into <target>",
		Short: "Fold several tag spellings into one",
		Long: `Merge replaces every occurrence of the source tags with the target
tag across the scope. Each affected item is read fresh, rewritten once,
and re-read to verify the change; a failing item is reported and skipped,
never aborting the rest of the batch.

Run with --dry-run first to preview the per-item changes.`,
		Example: `  tagctl tags merge swiming swimm --into swimming --dry-run
  tagctl tags merge swiming --into swimming
  tagctl tags merge "Beach Trip" beachtrip --into beach --scope events`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _ := cmd.Flags().GetString("into")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			coordinator, err := app.Coordinator()
			if err != nil {
				return err
			}
			ctx, cancel := mutateContext(cmd)
			defer cancel()
			report, err := coordinator.Merge(ctx, scopeFlag(cmd), args, target, dryRun)
			if err != nil {
				return err
			}
			return printReport(app, report)
		},
	}

	cmd.Flags().String("into", "", "Tag the sources are folded into")
	_ = cmd.MarkFlagRequired("into")
	addDryRun(cmd)

	return cmd
}
