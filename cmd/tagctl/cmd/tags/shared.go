package tags

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plonetools/tagctl/internal/cmd/output"
	engine "github.com/plonetools/tagctl/internal/tags"
	"github.com/plonetools/tagctl/pkg/constants"
)

// previewRows caps the table preview of per-item outcomes; JSON and YAML
// always carry the full list.
const previewRows = 10

// collectContext bounds a read-only discovery pass.
func collectContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), constants.CollectTimeout)
}

// mutateContext bounds a full mutation batch, collection included.
func mutateContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), constants.MutateTimeout)
}

// addDryRun adds the shared dry-run flag to a mutation subcommand.
func addDryRun(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false,
		"Preview the changes without writing anything")
}

// printReport renders a reconciliation report and returns an error when any
// item failed, so the process exit code reflects partial failure.
func printReport(app AppContext, report *engine.Report) error {
	flags := app.Flags()

	if !flags.Quiet {
		line := fmt.Sprintf("%s: %d affected, %d updated, %d unchanged, %d failed",
			report.Operation, report.Affected,
			report.Count(engine.OutcomeUpdated)+report.Count(engine.OutcomeWouldUpdate),
			report.Count(engine.OutcomeUnchanged), report.Failed())
		if report.DryRun {
			line += " (dry run)"
		}
		fmt.Fprintln(os.Stderr, line)
	}

	formatter := output.NewFormatter(output.Format(flags.Output))
	switch output.Format(flags.Output) {
	case output.FormatTable, "":
		if err := formatter.Format(os.Stdout, reportTableData(report)); err != nil {
			return err
		}
	default:
		if err := formatter.Format(os.Stdout, report); err != nil {
			return err
		}
	}

	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d items failed", failed, len(report.Outcomes))
	}
	return nil
}

func reportTableData(report *engine.Report) output.Data {
	data := output.Data{Headers: []string{"Path", "Outcome", "Before", "After"}}

	for i, outcome := range report.Outcomes {
		if i == previewRows {
			remaining := len(report.Outcomes) - previewRows
			data.Rows = append(data.Rows, []string{
				fmt.Sprintf("... %d more items", remaining), "", "", "",
			})
			break
		}
		after := strings.Join(outcome.After, ", ")
		if outcome.Error != "" {
			after = outcome.Error
		}
		data.Rows = append(data.Rows, []string{
			outcome.Path,
			string(outcome.Kind),
			strings.Join(outcome.Before, ", "),
			after,
		})
	}
	return data
}
