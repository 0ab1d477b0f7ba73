// Package auth_tools provides the identity-facing MCP tools: greeting the
// authenticated user and serving writing instruction templates.
package auth_tools
