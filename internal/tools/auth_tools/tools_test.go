package auth_tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytlabs/yt-mcp/internal/auth"
	"github.com/ytlabs/yt-mcp/internal/logging"
	"github.com/ytlabs/yt-mcp/internal/server"
)

type fakeProfileFetcher struct {
	profile *auth.UserProfile
	err     error
}

func (f *fakeProfileFetcher) FetchProfile(_ context.Context, _ string) (*auth.UserProfile, error) {
	return f.profile, f.err
}

func newTestContext(t *testing.T, profiles server.ProfileFetcher) *server.ServerContext {
	t.Helper()
	return server.NewServerContext(context.Background(), nil, profiles, nil, logging.New(false))
}

func callToolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestGreetUserNotAuthenticated(t *testing.T) {
	sc := newTestContext(t, &fakeProfileFetcher{})

	result, err := handleGreetUser(context.Background(), callToolRequest(nil), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "Hello! You are not authenticated.", resultText(t, result))
}

func TestGreetUserAuthenticated(t *testing.T) {
	sc := newTestContext(t, &fakeProfileFetcher{
		profile: &auth.UserProfile{Sub: "auth0|123", Name: "Ada Lovelace"},
	})

	ctx := server.WithAuthorization(context.Background(), "Bearer abc")
	result, err := handleGreetUser(ctx, callToolRequest(nil), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "Hello, Ada Lovelace! Welcome to the MCP server.", resultText(t, result))
}

func TestGreetUserRejectedToken(t *testing.T) {
	sc := newTestContext(t, &fakeProfileFetcher{err: auth.ErrUnauthorized})

	ctx := server.WithAuthorization(context.Background(), "Bearer expired")
	result, err := handleGreetUser(ctx, callToolRequest(nil), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "Hello! You are not authenticated.", resultText(t, result))
}

func TestGreetUserUpstreamFailure(t *testing.T) {
	sc := newTestContext(t, &fakeProfileFetcher{err: auth.ErrUpstreamUnavailable})

	ctx := server.WithAuthorization(context.Background(), "Bearer abc")
	result, err := handleGreetUser(ctx, callToolRequest(nil), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestFetchInstructionsKnownPrompt(t *testing.T) {
	sc := newTestContext(t, &fakeProfileFetcher{})

	result, err := handleFetchInstructions(context.Background(),
		callToolRequest(map[string]any{"prompt_name": "write_social_post"}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "CTA")
}

func TestFetchInstructionsUnknownPrompt(t *testing.T) {
	sc := newTestContext(t, &fakeProfileFetcher{})

	result, err := handleFetchInstructions(context.Background(),
		callToolRequest(map[string]any{"prompt_name": "write_haiku"}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "Prompt 'write_haiku' not found.", resultText(t, result))
}

func TestFetchInstructionsMissingArgument(t *testing.T) {
	sc := newTestContext(t, &fakeProfileFetcher{})

	result, err := handleFetchInstructions(context.Background(), callToolRequest(nil), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
