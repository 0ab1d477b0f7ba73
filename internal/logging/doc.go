// Package logging provides slog helpers shared across the server.
//
// It standardizes attribute keys (operation, tool, status, error) and
// offers PII-safe representations for identity subjects and bearer tokens
// so log output can be correlated without leaking credentials.
package logging
