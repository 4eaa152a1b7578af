package cmd

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long: `Show the user, profile, and role of the stored session.

Runs entirely offline: the session file is read and the access token is
decoded locally (without signature verification) to report its expiry.
An expired token here does not mean re-login is needed — it is refreshed
silently on the next real request.`,
	RunE: runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// whoamiOutput is the structured form for -o json / -o yaml.
type whoamiOutput struct {
	User        string `json:"user" yaml:"user"`
	FullName    string `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Role        string `json:"role" yaml:"role"`
	TokenExpiry string `json:"token_expiry,omitempty" yaml:"token_expiry,omitempty"`
	SessionFile string `json:"session_file,omitempty" yaml:"session_file,omitempty"`
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}
	sess := client.Session()

	out := whoamiOutput{
		User:        sess.User.Email,
		FullName:    sess.Profile.FullName,
		Role:        sess.RoleName,
		TokenExpiry: tokenExpiry(sess.AccessToken),
	}
	if sessionFilePath != "" {
		out.SessionFile = sessionFilePath
	}

	if handled, err := printStructured(out); handled {
		return err
	}

	fmt.Printf("User:   %s\n", out.User)
	if out.FullName != "" {
		fmt.Printf("Name:   %s\n", out.FullName)
	}
	fmt.Printf("Role:   %s\n", out.Role)
	if out.TokenExpiry != "" {
		fmt.Printf("Token:  expires %s\n", out.TokenExpiry)
	}
	return nil
}

// tokenExpiry decodes the access token without verifying its signature
// and returns the expiry as RFC 3339, or empty when the token is opaque
// or carries no exp claim. Verification belongs to the server; the CLI
// only surfaces the claim for operator convenience.
func tokenExpiry(accessToken string) string {
	token, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ""
	}
	return exp.Time.Format(time.RFC3339)
}
