package tags

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plonetools/tagctl/internal/advisor"
	"github.com/plonetools/tagctl/internal/cmd/output"
	"github.com/plonetools/tagctl/pkg/constants"
)

// NewSuggestCommand creates the tags suggest subcommand.
func NewSuggestCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <tag>...",
		Short: "Ask Gemini for the canonical spelling of a tag group",
		Long: `Suggest asks a Gemini model which spelling of a tag group to keep.

With a single tag the group is built from the vocabulary's similar tags
at the threshold; with several tags the given group is used as is. The
answer is advice only; follow up with tags merge to apply it.

Requires GEMINI_API_KEY (or GOOGLE_API_KEY).`,
		Example: `  tagctl tags suggest swimming
  tagctl tags suggest swiming swimm swimming --model gemini-2.0-flash`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group := args
			if len(group) == 1 {
				threshold, _ := cmd.Flags().GetInt("threshold")

				coordinator, err := app.Coordinator()
				if err != nil {
					return err
				}
				similar, err := coordinator.FindSimilar(cmd.Context(), scopeFlag(cmd), args[0], threshold)
				if err != nil {
					return err
				}
				if len(similar.Candidates) == 0 {
					return fmt.Errorf("no tags similar to %q at threshold %d; pass the group explicitly", args[0], threshold)
				}
				for _, candidate := range similar.Candidates {
					group = append(group, candidate.Tag)
				}
			}

			model, _ := cmd.Flags().GetString("model")
			adv, err := advisor.New(cmd.Context(), model)
			if err != nil {
				return err
			}
			suggestion, err := adv.Suggest(cmd.Context(), group)
			if err != nil {
				return err
			}

			flags := app.Flags()
			formatter := output.NewFormatter(output.Format(flags.Output))
			if err := formatter.Format(os.Stdout, *suggestion); err != nil {
				return err
			}

			if !flags.Quiet {
				fmt.Fprintf(os.Stderr, "Apply with: tagctl tags merge %s --into %q\n",
					quoteOthers(group, suggestion.Canonical), suggestion.Canonical)
			}
			return nil
		},
	}

	cmd.Flags().Int("threshold", constants.DefaultSimilarityThreshold,
		"Similarity threshold used to build the group from one tag")
	cmd.Flags().String("model", "", "Gemini model to ask (default "+advisor.DefaultModel+")")

	return cmd
}

// quoteOthers formats the non-canonical group members as shell arguments.
func quoteOthers(group []string, canonical string) string {
	out := ""
	for _, tag := range group {
		if tag == canonical {
			continue
		}
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%q", tag)
	}
	return out
}
