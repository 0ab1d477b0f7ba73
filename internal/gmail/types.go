package gmail

// NoSubject is the placeholder used when a message carries no Subject header.
const NoSubject = "(No subject)"

// MailSummary is the metadata-only view of a single message. Bodies are
// never fetched.
type MailSummary struct {
	ID       string
	ThreadID string
	Subject  string
	From     string
	Date     string
	Snippet  string
}

// ListStatus tags the outcome of a list request so callers can distinguish
// "no account linked" from "linked but inbox empty".
type ListStatus int

const (
	// StatusOK means messages were retrieved.
	StatusOK ListStatus = iota

	// StatusEmpty means the linked account has no recent messages.
	StatusEmpty

	// StatusNotLinked means the subject has no usable Gmail credentials:
	// either nothing is stored or the stored token was rejected.
	StatusNotLinked
)

// ListResult is the outcome of listing a user's recent messages.
type ListResult struct {
	Status   ListStatus
	Messages []MailSummary
}
