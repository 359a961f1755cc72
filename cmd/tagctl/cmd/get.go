package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plonetools/tagctl/internal/cmd/output"
	"github.com/plonetools/tagctl/internal/gateway"
	"github.com/plonetools/tagctl/internal/tags"
)

// itemSummary is the condensed view of one content item.
type itemSummary struct {
	Path  string `json:"path"`
	Type  string `json:"type"`
	Title string `json:"title"`
	State string `json:"review_state,omitempty"`
	Tags  string `json:"tags,omitempty"`
}

// getCmd fetches a single content item.
var getCmd = &cobra.Command{
	Use:     "get <path>",
	GroupID: "core",
	Short:   "Fetch one content item",
	Long: `Get fetches a single item by repository path and prints a summary of
its identifying fields and tags. With --raw the full JSON document is
printed instead.`,
	Example: `  tagctl get news/summer-opening
  tagctl get news/summer-opening --raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newGateway()
		if err != nil {
			return err
		}

		doc, err := client.ReadItem(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			formatter := output.NewFormatter(output.FormatJSON)
			return formatter.Format(os.Stdout, doc)
		}

		formatter := output.NewFormatter(output.Format(globalFlags.Output))
		return formatter.Format(os.Stdout, summarize(client, doc))
	},
}

func summarize(client *gateway.Client, doc gateway.Document) itemSummary {
	itemTags, _ := tags.ExtractTags(doc)
	return itemSummary{
		Path:  client.PathFor(gateway.StringField(doc, "@id")),
		Type:  gateway.StringField(doc, "@type"),
		Title: gateway.StringField(doc, "title"),
		State: gateway.StringField(doc, "review_state"),
		Tags:  strings.Join(itemTags, ", "),
	}
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().Bool("raw", false, "Print the full JSON document")
}
