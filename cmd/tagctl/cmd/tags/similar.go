package tags

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/plonetools/tagctl/internal/cmd/output"
	engine "github.com/plonetools/tagctl/internal/tags"
	"github.com/plonetools/tagctl/pkg/constants"
)

// NewSimilarCommand creates the tags similar subcommand.
func NewSimilarCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar [tag]",
		Short: "Find near-duplicate tag spellings",
		Long: `Similar scores tag pairs with a fuzzy token-set ratio (0-100, case
insensitive) and reports those at or above the threshold.

With a tag argument it lists the tags similar to that one; without, it
surveys every pair in the vocabulary.`,
		Example: `  tagctl tags similar swimming
  tagctl tags similar --threshold 85
  tagctl tags similar swimming --scope events`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := ""
			if len(args) == 1 {
				tag = args[0]
			}
			threshold, _ := cmd.Flags().GetInt("threshold")

			coordinator, err := app.Coordinator()
			if err != nil {
				return err
			}
			ctx, cancel := collectContext(cmd)
			defer cancel()
			similar, err := coordinator.FindSimilar(ctx, scopeFlag(cmd), tag, threshold)
			if err != nil {
				return err
			}

			flags := app.Flags()
			formatter := output.NewFormatter(output.Format(flags.Output))

			switch output.Format(flags.Output) {
			case output.FormatTable, "":
				return formatter.Format(os.Stdout, similarTableData(similar))
			default:
				return formatter.Format(os.Stdout, similar)
			}
		},
	}

	cmd.Flags().Int("threshold", constants.DefaultSimilarityThreshold,
		"Minimum similarity score, 0-100 inclusive")

	return cmd
}

func similarTableData(similar *engine.Similar) output.Data {
	if similar.Query != "" {
		data := output.Data{Headers: []string{"Tag", "Score", "Count"}}
		for _, c := range similar.Candidates {
			data.Rows = append(data.Rows, []string{
				c.Tag, strconv.Itoa(c.Score), strconv.Itoa(c.Frequency),
			})
		}
		return data
	}

	data := output.Data{Headers: []string{"Tag", "Similar To", "Score", "Count", "Similar Count"}}
	for _, p := range similar.Pairs {
		data.Rows = append(data.Rows, []string{
			p.A, p.B, strconv.Itoa(p.Score),
			strconv.Itoa(p.FrequencyA), strconv.Itoa(p.FrequencyB),
		})
	}
	return data
}
