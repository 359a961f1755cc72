package tags

import (
	"github.com/spf13/cobra"
)

// NewRenameCommand creates the tags rename subcommand.
func NewRenameCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename one tag everywhere",
		Long: `Rename replaces a tag with a new spelling on every item carrying it.
Items already carrying the new spelling keep a single copy.`,
		Example: `  tagctl tags rename swiming swimming --dry-run
  tagctl tags rename "Beach Trip" beach-trip`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			coordinator, err := app.Coordinator()
			if err != nil {
				return err
			}
			ctx, cancel := mutateContext(cmd)
			defer cancel()
			report, err := coordinator.Rename(ctx, scopeFlag(cmd), args[0], args[1], dryRun)
			if err != nil {
				return err
			}
			return printReport(app, report)
		},
	}

	addDryRun(cmd)
	return cmd
}
