package gmail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrNotLinked indicates the Gmail API rejected the delegated credentials.
// The stored refresh token is revoked or otherwise unusable; the user has
// to link again.
var ErrNotLinked = errors.New("gmail account not linked")

// Client wraps the Gmail Users service for a single linked account.
type Client struct {
	svc *gmail.UsersService
}

// NewClient creates a Gmail client acting on behalf of the user who issued
// the given refresh token. Access tokens are minted lazily by the underlying
// token source; no network traffic happens here.
func NewClient(ctx context.Context, cfg Config, refreshToken string) (*Client, error) {
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("google OAuth client credentials are not configured")
	}
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}

	if cfg.Endpoint != "" {
		return newClient(ctx, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{ReadonlyScope},
	}
	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	return newClient(ctx, option.WithTokenSource(tokenSource))
}

// newClient builds a client from raw service options. Tests use it to point
// the service at a local fake.
func newClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{svc: svc.Users}, nil
}

// ListRecent returns metadata for the user's most recent messages, newest
// first as the API returns them. Messages that fail to fetch individually
// are skipped; a rejected credential surfaces as ErrNotLinked.
func (c *Client) ListRecent(ctx context.Context, maxResults int64) ([]MailSummary, error) {
	res, err := c.svc.Messages.List("me").MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		if isAuthError(err) {
			return nil, fmt.Errorf("%w: %v", ErrNotLinked, err)
		}
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	summaries := make([]MailSummary, 0, len(res.Messages))
	for _, m := range res.Messages {
		msg, err := c.svc.Messages.Get("me", m.Id).
			Format("metadata").
			MetadataHeaders("Subject", "From", "Date").
			Context(ctx).
			Do()
		if err != nil {
			if isAuthError(err) {
				return nil, fmt.Errorf("%w: %v", ErrNotLinked, err)
			}
			// A single missing or unreadable message should not fail
			// the whole listing.
			continue
		}

		summaries = append(summaries, summarize(msg))
	}

	return summaries, nil
}

func summarize(msg *gmail.Message) MailSummary {
	summary := MailSummary{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Subject:  NoSubject,
		Snippet:  msg.Snippet,
	}

	if msg.Payload == nil {
		return summary
	}

	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "subject":
			if h.Value != "" {
				summary.Subject = h.Value
			}
		case "from":
			summary.From = h.Value
		case "date":
			summary.Date = h.Value
		}
	}

	return summary
}

// isAuthError reports whether the Gmail API rejected our credentials.
// The oauth2 transport can also fail before the request is sent when the
// refresh token itself is revoked.
func isAuthError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden
	}

	var retrieveErr *oauth2.RetrieveError
	return errors.As(err, &retrieveErr)
}
