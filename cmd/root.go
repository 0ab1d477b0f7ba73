package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the yt-mcp application
var rootCmd = &cobra.Command{
	Use:   "yt-mcp",
	Short: "Auth0-authenticated MCP server with delegated Gmail access",
	Long: `yt-mcp is a Model Context Protocol (MCP) server that authenticates
callers with Auth0 bearer tokens and offers per-user Gmail access.

Tools:
  - greet_user: greets the caller by their Auth0 profile name
  - fetch_instructions: returns writing instruction templates
  - link_my_gmail: stores the caller's Google OAuth refresh token
  - list_my_recent_emails: lists the caller's most recent inbox messages`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "yt-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGmailTokenCmd())
	rootCmd.AddCommand(newVersionCmd())
}
