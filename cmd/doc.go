// Package cmd implements the command-line interface for yt-mcp.
//
// Commands:
//   - serve: Start the MCP server (stdio or streamable-http transport)
//   - gmail-token: Obtain a Google OAuth refresh token for the Gmail tools
//   - version: Display version information
package cmd
