package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	Long: `Sign out by removing the stored session file.

Logout is local: the server is not contacted, and already-issued tokens
simply stop being used. Running logout while signed out is a no-op.`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	wasSignedIn := client.Authenticated()
	if err := client.SignOut(); err != nil {
		return err
	}

	if wasSignedIn {
		fmt.Println("Signed out.")
	} else {
		fmt.Fprintln(os.Stderr, "No stored session — nothing to do.")
	}
	return nil
}
