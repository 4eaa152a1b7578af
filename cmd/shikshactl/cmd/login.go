package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/shikshadesk/shikshactl/internal/api"
)

var loginUser string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in to the ShikshaDesk server and persist the session.

The stored session is reused by every other command until it expires or
"shikshactl logout" is run. Expired access tokens are refreshed silently,
so under normal use login is needed only once per device.

The password is read from the SHIKSHADESK_PASSWORD environment variable
if set, otherwise prompted interactively.

Examples:
  shikshactl login --user admin@ngo.org
  SHIKSHADESK_PASSWORD=... shikshactl login --user admin@ngo.org`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "user name (usually an email address)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	userName := loginUser
	if userName == "" {
		userName, err = promptLine("User: ")
		if err != nil {
			return err
		}
	}
	if userName == "" {
		return errors.New("a user name is required")
	}

	password := os.Getenv("SHIKSHADESK_PASSWORD")
	if password == "" {
		password, err = promptLine("Password: ")
		if err != nil {
			return err
		}
	}

	sess, err := client.SignIn(cmd.Context(), userName, password)
	if err != nil {
		var signInErr *api.SignInError
		if errors.As(err, &signInErr) {
			return errors.New(signInErr.Message)
		}
		return err
	}

	figure.NewFigure("ShikshaDesk", "cybermedium", true).Print()
	fmt.Println()
	fmt.Printf("Signed in as %s (%s)\n", sess.User.Email, sess.RoleName)
	if sess.Profile.FullName != "" {
		fmt.Printf("Welcome, %s.\n", sess.Profile.FullName)
	}
	return nil
}

// promptLine reads one line from stdin after printing the given prompt to
// stderr. The trailing newline is stripped.
func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
