package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyTool      = "tool"
	KeyStatus    = "status"
	KeyError     = "error"
	KeySubject   = "subject_hash"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// New returns the process logger writing to stderr. Stdout is reserved for
// the stdio MCP transport, so log output must never go there. Debug mode
// lowers the level; tokens and subjects stay masked regardless.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the MCP tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from
// output, so Err(maybeNilErr) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeSubject returns a hashed representation of an identity subject for
// logging. Log entries stay correlatable without exposing the raw subject.
func AnonymizeSubject(subject string) string {
	if subject == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(subject))
	return "sub:" + hex.EncodeToString(hash[:8])
}

// Subject returns a slog attribute with the anonymized identity subject.
func Subject(subject string) slog.Attr {
	return slog.String(KeySubject, AnonymizeSubject(subject))
}

// SanitizeToken returns a masked version of a token for logging.
// Only a length indicator is emitted; even partial token prefixes
// (like JWT headers) can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
