package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ytlabs/yt-mcp/internal/instrumentation"
)

const (
	// MCPEndpointPath is the path the streamable HTTP transport serves on.
	MCPEndpointPath = "/mcp"

	defaultHTTPReadHeaderTimeout = 10 * time.Second
	defaultHTTPWriteTimeout      = 0 // streaming responses must not be cut off
	defaultHTTPIdleTimeout       = 120 * time.Second
)

// HTTPServerConfig holds configuration for the MCP HTTP transport.
type HTTPServerConfig struct {
	// Addr is the address to bind to (e.g., ":8000").
	Addr string

	// HealthChecker serves /healthz and /readyz. Optional.
	HealthChecker *HealthChecker

	// Metrics records per-request metrics. Optional.
	Metrics *instrumentation.Metrics

	// Logger for transport-level events.
	Logger *slog.Logger
}

// HTTPServer serves the MCP protocol over streamable HTTP. The Authorization
// header of every request is copied into the tool handler context; token
// validation itself happens inside the tools.
type HTTPServer struct {
	httpServer *http.Server
	addr       string
	logger     *slog.Logger
}

// NewHTTPServer assembles the streamable HTTP transport around the given
// MCP server.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer, config HTTPServerConfig) *HTTPServer {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(MCPEndpointPath),
		mcpserver.WithHTTPContextFunc(AuthorizationHTTPContextFunc),
	)

	mux := http.NewServeMux()

	var mcpHandler http.Handler = streamable
	if config.Metrics != nil {
		mcpHandler = instrumentHandler(config.Metrics, MCPEndpointPath, mcpHandler)
	}
	mux.Handle(MCPEndpointPath, mcpHandler)

	if config.HealthChecker != nil {
		config.HealthChecker.RegisterHealthEndpoints(mux)
	}

	return &HTTPServer{
		httpServer: &http.Server{
			Addr:              config.Addr,
			Handler:           mux,
			ReadHeaderTimeout: defaultHTTPReadHeaderTimeout,
			WriteTimeout:      defaultHTTPWriteTimeout,
			IdleTimeout:       defaultHTTPIdleTimeout,
		},
		addr:   config.Addr,
		logger: logger,
	}
}

// Start starts the HTTP server and blocks until it stops. If ready is
// non-nil it is closed once the listener is bound.
func (s *HTTPServer) Start(ready chan<- struct{}) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind HTTP server to %s: %w", s.addr, err)
	}

	s.logger.Info("starting MCP HTTP server", "addr", s.addr, "endpoint", MCPEndpointPath)
	if ready != nil {
		close(ready)
	}

	return s.httpServer.Serve(listener)
}

// Shutdown gracefully shuts down the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down MCP HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured bind address.
func (s *HTTPServer) Addr() string {
	return s.addr
}

// statusRecorder captures the response status code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// instrumentHandler records request count and duration for the wrapped
// handler under a fixed path label.
func instrumentHandler(metrics *instrumentation.Metrics, path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		metrics.IncrementActiveSessions(r.Context())
		defer metrics.DecrementActiveSessions(r.Context())

		next.ServeHTTP(recorder, r)

		metrics.RecordHTTPRequest(r.Context(), r.Method, path, recorder.status, time.Since(start))
	})
}
