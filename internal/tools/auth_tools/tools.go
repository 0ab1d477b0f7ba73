package auth_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ytlabs/yt-mcp/internal/auth"
	"github.com/ytlabs/yt-mcp/internal/instrumentation"
	"github.com/ytlabs/yt-mcp/internal/instructions"
	"github.com/ytlabs/yt-mcp/internal/logging"
	"github.com/ytlabs/yt-mcp/internal/server"
)

const notAuthenticatedGreeting = "Hello! You are not authenticated."

// RegisterAuthTools registers the greet_user and fetch_instructions tools
// with the MCP server.
func RegisterAuthTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	greetTool := mcp.NewTool("greet_user",
		mcp.WithDescription("Greets the authenticated user."),
	)

	s.AddTool(greetTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGreetUser(ctx, request, sc)
	})

	fetchTool := mcp.NewTool("fetch_instructions",
		mcp.WithDescription("Retrieves specialized writing instruction templates."),
		mcp.WithString("prompt_name",
			mcp.Required(),
			mcp.Description(fmt.Sprintf("Name of the instruction template. One of: %s", strings.Join(instructions.Names(), ", "))),
		),
	)

	s.AddTool(fetchTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleFetchInstructions(ctx, request, sc)
	})

	return nil
}

// handleGreetUser greets the caller by their profile name. An absent or
// rejected token is a normal outcome, answered with a generic greeting
// rather than an error.
func handleGreetUser(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	ctx, span := instrumentation.StartToolSpan(ctx, "greet_user")
	defer span.End()

	authorization := server.AuthorizationFromContext(ctx)
	if authorization == "" {
		sc.Metrics().RecordToolInvocation(ctx, "greet_user", instrumentation.StatusSuccess, time.Since(start))
		instrumentation.SetSpanSuccess(span)
		return mcp.NewToolResultText(notAuthenticatedGreeting), nil
	}

	profile, err := sc.Profiles().FetchProfile(ctx, authorization)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			sc.Metrics().RecordUserinfoRequest(ctx, instrumentation.ResultUnauthorized)
			sc.Metrics().RecordToolInvocation(ctx, "greet_user", instrumentation.StatusSuccess, time.Since(start))
			instrumentation.SetSpanSuccess(span)
			return mcp.NewToolResultText(notAuthenticatedGreeting), nil
		}

		sc.Logger().Error("userinfo fetch failed",
			logging.Tool("greet_user"),
			logging.Err(err))
		sc.Metrics().RecordUserinfoRequest(ctx, instrumentation.StatusError)
		sc.Metrics().RecordToolInvocation(ctx, "greet_user", instrumentation.StatusError, time.Since(start))
		instrumentation.SetSpanError(span, err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch user profile: %v", err)), nil
	}

	sc.Metrics().RecordUserinfoRequest(ctx, instrumentation.ResultSuccess)
	sc.Metrics().RecordToolInvocation(ctx, "greet_user", instrumentation.StatusSuccess, time.Since(start))
	instrumentation.SetSpanSuccess(span)

	return mcp.NewToolResultText(fmt.Sprintf("Hello, %s! Welcome to the MCP server.", profile.Name)), nil
}

// handleFetchInstructions returns the named instruction template. The tool
// needs no authentication: templates are static, public content.
func handleFetchInstructions(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	ctx, span := instrumentation.StartToolSpan(ctx, "fetch_instructions")
	defer span.End()

	args := request.GetArguments()
	promptName, ok := args["prompt_name"].(string)
	if !ok || promptName == "" {
		sc.Metrics().RecordToolInvocation(ctx, "fetch_instructions", instrumentation.StatusError, time.Since(start))
		instrumentation.SetSpanError(span, fmt.Errorf("prompt_name is required"))
		return mcp.NewToolResultError("prompt_name is required"), nil
	}

	text, found := instructions.Get(promptName)
	if !found {
		sc.Metrics().RecordToolInvocation(ctx, "fetch_instructions", instrumentation.StatusSuccess, time.Since(start))
		instrumentation.SetSpanSuccess(span)
		return mcp.NewToolResultText(fmt.Sprintf("Prompt '%s' not found.", promptName)), nil
	}

	sc.Metrics().RecordToolInvocation(ctx, "fetch_instructions", instrumentation.StatusSuccess, time.Since(start))
	instrumentation.SetSpanSuccess(span)

	return mcp.NewToolResultText(text), nil
}
