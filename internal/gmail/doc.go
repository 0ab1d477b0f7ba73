// Package gmail provides read-only access to a linked user's Gmail inbox.
//
// Access is delegated: each authenticated subject links their own refresh
// token, and every API call is made with that user's credentials. The
// package exposes a small facade (Service) over the Gmail API that the
// tool layer consumes, plus the token-to-client plumbing underneath.
package gmail
