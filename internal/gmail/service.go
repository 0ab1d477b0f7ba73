package gmail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ytlabs/yt-mcp/internal/instrumentation"
	"github.com/ytlabs/yt-mcp/internal/logging"
	"github.com/ytlabs/yt-mcp/internal/tokenstore"
)

// Service is the facade the tool layer talks to. It joins the token store
// and the Gmail API: linking stores a refresh token for a subject, listing
// redeems the stored token into an authenticated client.
type Service struct {
	cfg    Config
	store  tokenstore.Store
	logger *slog.Logger

	// newClient is swapped out in tests to avoid real Google endpoints.
	newClient func(ctx context.Context, cfg Config, refreshToken string) (*Client, error)
}

// NewService creates the Gmail facade over the given token store.
func NewService(cfg Config, store tokenstore.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:       cfg,
		store:     store,
		logger:    logger,
		newClient: NewClient,
	}
}

// IsConfigured reports whether the Google OAuth credentials are present.
func (s *Service) IsConfigured() bool {
	return s.cfg.IsConfigured()
}

// Link stores the subject's Gmail refresh token, replacing any previous one.
// The token is accepted as-is apart from whitespace trimming; it is proven
// (or not) on first use.
func (s *Service) Link(subject, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if err := s.store.Put(subject, refreshToken); err != nil {
		return err
	}

	s.logger.Info("linked gmail account",
		logging.Subject(subject))
	return nil
}

// ListRecent fetches metadata for the subject's most recent messages.
// The result is tagged: not linked, linked but empty, or messages present.
// An error is returned only for infrastructure failures; "no account
// linked" is a normal outcome.
func (s *Service) ListRecent(ctx context.Context, subject string, maxResults int64) (*ListResult, error) {
	refreshToken, ok, err := s.store.Get(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to read token store: %w", err)
	}
	if !ok {
		return &ListResult{Status: StatusNotLinked}, nil
	}

	client, err := s.newClient(ctx, s.cfg, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client: %w", err)
	}

	ctx, span := instrumentation.StartGmailSpan(ctx, instrumentation.OperationList)
	defer span.End()

	messages, err := client.ListRecent(ctx, maxResults)
	if err != nil {
		if errors.Is(err, ErrNotLinked) {
			s.logger.Warn("stored gmail token was rejected",
				logging.Subject(subject))
			instrumentation.SetSpanSuccess(span)
			return &ListResult{Status: StatusNotLinked}, nil
		}
		instrumentation.SetSpanError(span, err)
		return nil, err
	}
	instrumentation.SetSpanSuccess(span)

	if len(messages) == 0 {
		return &ListResult{Status: StatusEmpty}, nil
	}

	return &ListResult{Status: StatusOK, Messages: messages}, nil
}
