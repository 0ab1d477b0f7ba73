// Package tokenstore persists delegated Gmail refresh tokens keyed by the
// authenticated subject. The file-backed store survives restarts; the
// in-memory store backs tests and ephemeral deployments.
//
// Tokens are opaque provider credentials and are never logged.
package tokenstore
