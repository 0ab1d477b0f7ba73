package gmail_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ytlabs/yt-mcp/internal/gmail"
	"github.com/ytlabs/yt-mcp/internal/instrumentation"
	"github.com/ytlabs/yt-mcp/internal/logging"
	"github.com/ytlabs/yt-mcp/internal/server"
)

const (
	// defaultMaxResults is used when max_results is not provided.
	defaultMaxResults = 10

	// maxResultsCeiling caps how many messages a single call may fetch.
	maxResultsCeiling = 20

	// snippetLimit is the maximum snippet length in the formatted output.
	snippetLimit = 120
)

const gmailNotConfiguredMsg = "Gmail is not configured. Add GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET to your .env " +
	"(see .env.example). Then use link_my_gmail with a refresh token from " +
	"https://developers.google.com/oauthplayground (scope: gmail.readonly)."

// RegisterGmailTools registers the link_my_gmail and list_my_recent_emails
// tools with the MCP server.
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	linkTool := mcp.NewTool("link_my_gmail",
		mcp.WithDescription("Link your Gmail account to this MCP server for the logged-in user. "+
			"Provide the Google OAuth refresh token (e.g. from OAuth 2.0 Playground)."),
		mcp.WithString("refresh_token",
			mcp.Required(),
			mcp.Description("Google OAuth refresh token"),
		),
	)

	s.AddTool(linkTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleLinkGmail(ctx, request, sc)
	})

	listTool := mcp.NewTool("list_my_recent_emails",
		mcp.WithDescription("List the most recent emails from the authenticated user's Gmail inbox."),
		mcp.WithNumber("max_results",
			mcp.Description(fmt.Sprintf("Number of emails to return (1-%d, default %d)", maxResultsCeiling, defaultMaxResults)),
		),
	)

	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListRecentEmails(ctx, request, sc)
	})

	return nil
}

// verifiedSubject authenticates the caller via full token verification and
// returns their stable subject. The empty string means not authenticated.
func verifiedSubject(ctx context.Context, sc *server.ServerContext) string {
	authorization := server.AuthorizationFromContext(ctx)
	if authorization == "" {
		return ""
	}

	identity, err := sc.Verifier().Verify(ctx, stripBearerPrefix(authorization))
	if err != nil {
		sc.Metrics().RecordTokenVerification(ctx, instrumentation.ResultFailure)
		return ""
	}

	sc.Metrics().RecordTokenVerification(ctx, instrumentation.ResultSuccess)
	return identity.Subject
}

// stripBearerPrefix removes a leading "Bearer " scheme from an
// Authorization header value, case-insensitively.
func stripBearerPrefix(authorization string) string {
	const prefix = "bearer "
	trimmed := strings.TrimSpace(authorization)
	if len(trimmed) > len(prefix) && strings.EqualFold(trimmed[:len(prefix)], prefix) {
		return strings.TrimSpace(trimmed[len(prefix):])
	}
	return trimmed
}

func handleLinkGmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	ctx, span := instrumentation.StartToolSpan(ctx, "link_my_gmail")
	defer span.End()

	if !sc.Gmail().IsConfigured() {
		sc.Metrics().RecordToolInvocation(ctx, "link_my_gmail", instrumentation.StatusSuccess, time.Since(start))
		instrumentation.SetSpanSuccess(span)
		return mcp.NewToolResultText("Gmail is not configured. Add GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET to your .env " +
			"(see .env.example), then use link_my_gmail with a refresh token."), nil
	}

	subject := verifiedSubject(ctx, sc)
	if subject == "" {
		sc.Metrics().RecordToolInvocation(ctx, "link_my_gmail", instrumentation.StatusSuccess, time.Since(start))
		instrumentation.SetSpanSuccess(span)
		return mcp.NewToolResultText("You must be authenticated (Auth0) to link Gmail."), nil
	}

	refreshToken, _ := request.GetArguments()["refresh_token"].(string)
	if strings.TrimSpace(refreshToken) == "" {
		sc.Metrics().RecordToolInvocation(ctx, "link_my_gmail", instrumentation.StatusError, time.Since(start))
		instrumentation.SetSpanError(span, fmt.Errorf("refresh_token is required"))
		return mcp.NewToolResultError("refresh_token is required"), nil
	}

	if err := sc.Gmail().Link(subject, refreshToken); err != nil {
		sc.Logger().Error("failed to store refresh token",
			logging.Tool("link_my_gmail"),
			logging.Subject(subject),
			logging.Err(err))
		sc.Metrics().RecordTokenStoreOperation(ctx, instrumentation.OperationStorePut, instrumentation.StatusError)
		sc.Metrics().RecordToolInvocation(ctx, "link_my_gmail", instrumentation.StatusError, time.Since(start))
		instrumentation.SetSpanError(span, err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to link Gmail: %v", err)), nil
	}

	sc.Metrics().RecordTokenStoreOperation(ctx, instrumentation.OperationStorePut, instrumentation.StatusSuccess)
	sc.Metrics().RecordToolInvocation(ctx, "link_my_gmail", instrumentation.StatusSuccess, time.Since(start))
	instrumentation.SetSpanSuccess(span)

	return mcp.NewToolResultText("Gmail linked successfully. You can now use list_my_recent_emails."), nil
}

func handleListRecentEmails(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	ctx, span := instrumentation.StartToolSpan(ctx, "list_my_recent_emails")
	defer span.End()

	if !sc.Gmail().IsConfigured() {
		sc.Metrics().RecordToolInvocation(ctx, "list_my_recent_emails", instrumentation.StatusSuccess, time.Since(start))
		instrumentation.SetSpanSuccess(span)
		return mcp.NewToolResultText(gmailNotConfiguredMsg), nil
	}

	subject := verifiedSubject(ctx, sc)
	if subject == "" {
		sc.Metrics().RecordToolInvocation(ctx, "list_my_recent_emails", instrumentation.StatusSuccess, time.Since(start))
		instrumentation.SetSpanSuccess(span)
		return mcp.NewToolResultText("You must be authenticated (Auth0) to list emails."), nil
	}

	maxResults := clampMaxResults(request.GetArguments()["max_results"])

	gmailStart := time.Now()
	result, err := sc.Gmail().ListRecent(ctx, subject, maxResults)
	if err != nil {
		sc.Logger().Error("failed to list emails",
			logging.Tool("list_my_recent_emails"),
			logging.Subject(subject),
			logging.Err(err))
		sc.Metrics().RecordGmailOperation(ctx, instrumentation.OperationList, instrumentation.StatusError, time.Since(gmailStart))
		sc.Metrics().RecordToolInvocation(ctx, "list_my_recent_emails", instrumentation.StatusError, time.Since(start))
		instrumentation.SetSpanError(span, err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list emails: %v", err)), nil
	}
	sc.Metrics().RecordGmailOperation(ctx, instrumentation.OperationList, instrumentation.StatusSuccess, time.Since(gmailStart))

	sc.Metrics().RecordToolInvocation(ctx, "list_my_recent_emails", instrumentation.StatusSuccess, time.Since(start))
	instrumentation.SetSpanSuccess(span)

	switch result.Status {
	case gmail.StatusNotLinked:
		return mcp.NewToolResultText("No Gmail account is linked yet. Use link_my_gmail with your " +
			"Google OAuth refresh token (e.g. from https://developers.google.com/oauthplayground)."), nil
	case gmail.StatusEmpty:
		return mcp.NewToolResultText("No emails found."), nil
	default:
		return mcp.NewToolResultText(formatMailSummaries(result.Messages)), nil
	}
}

// clampMaxResults converts the raw max_results argument into the allowed
// range. JSON numbers arrive as float64; anything else falls back to the
// default.
func clampMaxResults(raw any) int64 {
	maxResults := int64(defaultMaxResults)
	if f, ok := raw.(float64); ok {
		maxResults = int64(f)
	}

	if maxResults < 1 {
		return 1
	}
	if maxResults > maxResultsCeiling {
		return maxResultsCeiling
	}
	return maxResults
}

// formatMailSummaries renders messages as a numbered list, one entry per
// message with an indented snippet line.
func formatMailSummaries(messages []gmail.MailSummary) string {
	lines := make([]string, 0, len(messages))
	for i, m := range messages {
		lines = append(lines, fmt.Sprintf("%d. [%s] From: %s | %s\n   %s",
			i+1, m.Subject, m.From, m.Date, truncateSnippet(m.Snippet)))
	}
	return strings.Join(lines, "\n")
}

// truncateSnippet shortens long snippets, marking the cut with an ellipsis.
func truncateSnippet(snippet string) string {
	runes := []rune(snippet)
	if len(runes) <= snippetLimit {
		return snippet
	}
	return string(runes[:snippetLimit]) + "..."
}
