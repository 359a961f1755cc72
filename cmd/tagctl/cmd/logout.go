package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plonetools/tagctl/internal/config"
)

// logoutCmd deletes the saved session.
var logoutCmd = &cobra.Command{
	Use:     "logout",
	GroupID: "session",
	Short:   "Forget the saved session token",
	Args:    cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := config.DeleteSession(); err != nil {
			return err
		}
		if !globalFlags.Quiet {
			fmt.Fprintln(os.Stderr, "Logged out")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
