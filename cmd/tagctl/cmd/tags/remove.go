package tags

import (
	"github.com/spf13/cobra"
)

// NewRemoveCommand creates the tags remove subcommand.
func NewRemoveCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <tag>",
		Short: "Strip a tag from every item carrying it",
		Long: `Remove deletes a tag outright: every item carrying it is rewritten
without the tag and nothing replaces it. All other tags on the items are
left untouched.`,
		Example: `  tagctl tags remove obsolete --dry-run
  tagctl tags remove obsolete --scope archive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			coordinator, err := app.Coordinator()
			if err != nil {
				return err
			}
			ctx, cancel := mutateContext(cmd)
			defer cancel()
			report, err := coordinator.Remove(ctx, scopeFlag(cmd), args[0], dryRun)
			if err != nil {
				return err
			}
			return printReport(app, report)
		},
	}

	addDryRun(cmd)
	return cmd
}
