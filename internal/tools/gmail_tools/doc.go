// Package gmail_tools provides the MCP tools for delegated Gmail access:
// linking a user's refresh token and listing their recent inbox messages.
//
// Both tools derive the acting user from full verification of the bearer
// token, never from unverified claims, so a forged token can neither plant
// credentials under another subject nor read another user's mail.
package gmail_tools
