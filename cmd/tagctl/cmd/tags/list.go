package tags

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/plonetools/tagctl/internal/cmd/output"
)

// NewListCommand creates the tags list subcommand.
func NewListCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every tag in use with its frequency",
		Long: `List walks the scope and prints each distinct tag with its number of
occurrences, most frequent first. Tags are reported exactly as stored;
case variants appear as separate rows.`,
		Example: `  tagctl tags list
  tagctl tags list --scope events -o json
  tagctl tags list --debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")

			coordinator, err := app.Coordinator()
			if err != nil {
				return err
			}
			ctx, cancel := collectContext(cmd)
			defer cancel()
			counts, err := coordinator.ListTags(ctx, scopeFlag(cmd), debug)
			if err != nil {
				return err
			}

			flags := app.Flags()
			if !flags.Quiet {
				fmt.Fprintf(os.Stderr, "Found %d tags\n", len(counts))
			}

			formatter := output.NewFormatter(output.Format(flags.Output))
			switch output.Format(flags.Output) {
			case output.FormatTable, "":
				data := output.Data{Headers: []string{"Tag", "Count"}}
				for _, row := range counts {
					data.Rows = append(data.Rows, []string{row.Tag, strconv.Itoa(row.Count)})
				}
				return formatter.Format(os.Stdout, data)
			default:
				return formatter.Format(os.Stdout, counts)
			}
		},
	}

	cmd.Flags().Bool("debug", false,
		"Log which response field each item's tags were read from")

	return cmd
}
