// Package cmd provides the CLI commands for shikshactl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shikshadesk/shikshactl/internal/config"
)

var cfgFile string
var sessionFilePath string
var outputFormat string

var rootCmd = &cobra.Command{
	Use:   "shikshactl",
	Short: "ShikshaDesk - NGO education management CLI",
	Long: `shikshactl is the command-line client for the ShikshaDesk education
management platform. It manages students, teachers, clusters, programs,
attendance, and donors against the ShikshaDesk API.

Sessions persist across invocations: sign in once with "shikshactl login"
and subsequent commands reuse the stored tokens, refreshing them silently
when the access token expires.

Quick start:
  1. Point at your server: export SHIKSHADESK_API_BASE_URL=https://api.example.org
  2. Sign in: shikshactl login --user admin@ngo.org
  3. List students: shikshactl students list

Configuration:
  Config is loaded from shikshactl.yaml in the current directory,
  $HOME/.shikshadesk/, or /etc/shikshadesk/.

  Environment variables can override config values with the SHIKSHADESK_ prefix.
  Example: SHIKSHADESK_API_BASE_URL=https://api.example.org

Commands:
  login       Sign in and store the session
  logout      Sign out and clear the stored session
  whoami      Show the signed-in user
  students    Manage student records
  teachers    Manage teaching staff
  clusters    List and manage learning centres
  programs    List and manage programs
  attendance  Submit sheets and view monthly summaries
  donors      List and register donors
  dashboard   Show headline figures and trends
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./shikshactl.yaml)")
	rootCmd.PersistentFlags().StringVar(&sessionFilePath, "session", "", "path to session file (default: ~/.shikshadesk/session.json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, or yaml")
}

func initConfig() {
	config.InitViper(cfgFile)
}
