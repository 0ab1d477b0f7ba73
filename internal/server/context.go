package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/ytlabs/yt-mcp/internal/auth"
	"github.com/ytlabs/yt-mcp/internal/gmail"
	"github.com/ytlabs/yt-mcp/internal/instrumentation"
)

// TokenVerifier validates bearer tokens and extracts the caller's identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// ProfileFetcher retrieves user profiles from the identity provider.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, authorization string) (*auth.UserProfile, error)
}

// ServerContext holds the shared dependencies for the MCP server. Tool
// handlers receive it at registration time.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	verifier TokenVerifier
	profiles ProfileFetcher
	gmail    *gmail.Service
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context.
func NewServerContext(ctx context.Context, verifier TokenVerifier, profiles ProfileFetcher, gmailSvc *gmail.Service, logger *slog.Logger) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if logger == nil {
		logger = slog.Default()
	}

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		verifier: verifier,
		profiles: profiles,
		gmail:    gmailSvc,
		logger:   logger,
		metrics:  &instrumentation.Metrics{},
	}
}

// Context returns the server lifetime context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Verifier returns the bearer token verifier.
func (sc *ServerContext) Verifier() TokenVerifier {
	return sc.verifier
}

// Profiles returns the userinfo profile fetcher.
func (sc *ServerContext) Profiles() ProfileFetcher {
	return sc.profiles
}

// Gmail returns the Gmail facade.
func (sc *ServerContext) Gmail() *gmail.Service {
	return sc.gmail
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder. Never nil; a no-op recorder is
// used when instrumentation is disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder for tool instrumentation.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if m != nil {
		sc.metrics = m
	}
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}

// authorizationKey is the context key for the raw Authorization header.
type authorizationKey struct{}

// WithAuthorization returns a context carrying the raw Authorization header
// value of the originating HTTP request.
func WithAuthorization(ctx context.Context, header string) context.Context {
	return context.WithValue(ctx, authorizationKey{}, header)
}

// AuthorizationFromContext returns the Authorization header captured from
// the originating HTTP request, or "" for stdio transport and
// unauthenticated requests.
func AuthorizationFromContext(ctx context.Context) string {
	header, _ := ctx.Value(authorizationKey{}).(string)
	return header
}

// AuthorizationHTTPContextFunc propagates the Authorization header from the
// incoming HTTP request into the tool handler context. Wired into the
// streamable HTTP transport so tools can authenticate their caller.
func AuthorizationHTTPContextFunc(ctx context.Context, r *http.Request) context.Context {
	return WithAuthorization(ctx, r.Header.Get("Authorization"))
}
