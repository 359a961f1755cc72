package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plonetools/tagctl/internal/config"
	"github.com/plonetools/tagctl/pkg/errors"
)

// loginCmd authenticates against the repository and saves the session.
var loginCmd = &cobra.Command{
	Use:     "login <username>",
	GroupID: "session",
	Short:   "Authenticate and save a session token",
	Long: `Login posts credentials to the repository's @login endpoint and saves
the returned bearer token together with the base URL. Subsequent commands
use the token automatically until logout.

The password comes from --password or the TAGCTL_PASSWORD environment
variable; the flag wins when both are set.`,
	Example: `  tagctl login admin --password secret
  TAGCTL_PASSWORD=secret tagctl login admin --base https://example.org/++api++/`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			// Resolves TAGCTL_PASSWORD through viper's env binding, and a
			// password key from the config file.
			password = config.GetString("password")
		}
		if password == "" {
			return errors.NewValidationError("password", "",
				"set --password or TAGCTL_PASSWORD")
		}

		base := config.BaseURL(globalFlags.Base)
		client, err := newGateway()
		if err != nil {
			return err
		}

		token, err := client.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}

		session := &config.Session{
			Base: base,
			Auth: &config.Auth{
				Mode:     "token",
				Token:    token,
				Username: username,
			},
		}
		if err := config.SaveSession(session); err != nil {
			return err
		}

		if !globalFlags.Quiet {
			fmt.Fprintf(os.Stderr, "Logged in to %s as %s\n", base, username)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().String("password", "", "Password for the repository account")
}
