package tokenstore

import "errors"

// ErrEmptyToken is returned when a caller tries to store a blank token.
var ErrEmptyToken = errors.New("refresh token must not be empty")

// ErrEmptySubject is returned when a caller passes a blank subject.
var ErrEmptySubject = errors.New("subject must not be empty")

// Store maps an authenticated subject to that user's Gmail refresh token.
// One token per subject; a Put for an existing subject replaces the token.
type Store interface {
	// Get returns the refresh token for the subject. The boolean reports
	// whether a token exists; absence is not an error.
	Get(subject string) (string, bool, error)

	// Put stores or replaces the refresh token for the subject.
	Put(subject, token string) error
}
