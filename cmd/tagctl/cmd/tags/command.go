// Package tags provides the tag vocabulary commands: listing, similarity
// queries, and the merge/rename/remove reconciliation operations.
package tags

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plonetools/tagctl/internal/cmd/globals"
	engine "github.com/plonetools/tagctl/internal/tags"
)

// AppContext defines the interface that tags commands need from the app.
// This allows for better testability and decoupling from the full app.
type AppContext interface {
	Coordinator() (*engine.Coordinator, error)
	Flags() *globals.Flags
}

// NewCommand creates the tags command with app dependencies.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags [operation]",
		GroupID: "core",
		Short:   "Discover and reconcile the tag vocabulary",
		Long: `Tags works on the repository's tag vocabulary.

Available subcommands:
  list     - every tag in use with its frequency
  similar  - near-duplicate spellings above a similarity threshold
  items    - the items carrying one tag
  merge    - fold several spellings into one tag
  rename   - rename one tag everywhere
  remove   - strip a tag from every item
  suggest  - ask Gemini for the canonical spelling of a group`,
		Example: `  tagctl tags list --scope events
  tagctl tags similar swimming
  tagctl tags merge swiming swimm --into swimming --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to help if no subcommand
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown operation: %s", args[0])
		},
	}

	cmd.PersistentFlags().String("scope", "",
		"Repository subtree to work on (empty for the whole site)")

	// Add subcommands using the app context
	cmd.AddCommand(NewListCommand(app))
	cmd.AddCommand(NewSimilarCommand(app))
	cmd.AddCommand(NewItemsCommand(app))
	cmd.AddCommand(NewMergeCommand(app))
	cmd.AddCommand(NewRenameCommand(app))
	cmd.AddCommand(NewRemoveCommand(app))
	cmd.AddCommand(NewSuggestCommand(app))

	return cmd
}

// scopeFlag reads the persistent scope flag from the hierarchy.
func scopeFlag(cmd *cobra.Command) string {
	scope, _ := cmd.Flags().GetString("scope")
	return scope
}
