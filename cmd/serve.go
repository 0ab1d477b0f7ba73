package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ytlabs/yt-mcp/internal/auth"
	"github.com/ytlabs/yt-mcp/internal/gmail"
	"github.com/ytlabs/yt-mcp/internal/instructions"
	"github.com/ytlabs/yt-mcp/internal/instrumentation"
	"github.com/ytlabs/yt-mcp/internal/logging"
	"github.com/ytlabs/yt-mcp/internal/server"
	"github.com/ytlabs/yt-mcp/internal/tokenstore"
	"github.com/ytlabs/yt-mcp/internal/tools/auth_tools"
	"github.com/ytlabs/yt-mcp/internal/tools/gmail_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode      bool
		transport      string
		httpAddr       string
		tokenStorePath string
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server with Auth0 bearer-token
authentication and per-user Gmail tools.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Required environment:
  AUTH0_DOMAIN         Auth0 tenant host (e.g. example.auth0.com)
  AUTH0_AUDIENCE       Expected API audience
  RESOURCE_SERVER_URL  Public URL of this server

Optional environment:
  AUTH0_ALGORITHMS        Comma-separated signing algorithms (default: RS256)
  GOOGLE_CLIENT_ID        Google OAuth client ID for Gmail tools
  GOOGLE_CLIENT_SECRET    Google OAuth client secret for Gmail tools
  GMAIL_TOKEN_STORE_PATH  Refresh token store path (default: .gmail_tokens.json)

Without Google credentials the server still runs; the Gmail tools answer
with setup guidance instead of mail data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}
			return runServe(transport, debugMode, httpAddr, tokenStorePath, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8000", "HTTP server address (for streamable-http transport)")
	cmd.Flags().StringVar(&tokenStorePath, "token-store", "", "Path to the Gmail refresh token store. Can also use GMAIL_TOKEN_STORE_PATH env var.")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(transport string, debugMode bool, httpAddr, tokenStorePath string, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.New(debugMode)

	// Load metrics config from environment if not set via flags
	if os.Getenv("METRICS_ENABLED") == "false" {
		metricsConfig.Enabled = false
	}
	if metricsConfig.Addr == "" || metricsConfig.Addr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			metricsConfig.Addr = addr
		}
	}

	// Identity provider settings are the only fatal startup condition.
	authConfig, err := auth.ConfigFromEnv()
	if err != nil {
		return err
	}

	verifier, err := auth.NewVerifier(shutdownCtx, authConfig, logger)
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}
	userinfoClient := auth.NewUserinfoClient(authConfig)

	if tokenStorePath == "" {
		tokenStorePath = tokenstore.PathFromEnv()
	}
	store := tokenstore.NewFileStore(tokenStorePath)

	gmailConfig := gmail.ConfigFromEnv()
	if !gmailConfig.IsConfigured() && transport != "stdio" {
		log.Println("Google OAuth credentials not configured; Gmail tools will answer with setup guidance")
	}
	gmailService := gmail.NewService(gmailConfig, store, logger)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if transport != "stdio" && metricsConfig.Enabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		// Wait for metrics server to be ready or fail
		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// Create server context
	serverContext := server.NewServerContext(shutdownCtx, verifier, userinfoClient, gmailService, logger)

	// Set metrics on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if transport != "stdio" {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("yt-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithInstructions(instructions.Server),
	)

	// Register all tools
	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(mcpSrv, serverContext, httpAddr, shutdownCtx, provider)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Auth",
			register: func() error {
				return auth_tools.RegisterAuthTools(mcpSrv, ctx)
			},
		},
		{
			name: "Gmail",
			register: func() error {
				return gmail_tools.RegisterGmailTools(mcpSrv, ctx)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, addr string, ctx context.Context, provider *instrumentation.Provider) error {
	healthChecker := server.NewHealthChecker(serverContext)

	config := server.HTTPServerConfig{
		Addr:          addr,
		HealthChecker: healthChecker,
		Logger:        serverContext.Logger(),
	}
	if provider != nil && provider.Enabled() {
		config.Metrics = provider.Metrics()
	}

	httpServer := server.NewHTTPServer(mcpSrv, config)

	fmt.Printf("Starting yt-mcp MCP server with streamable-http transport on %s\n", addr)
	fmt.Printf("  MCP endpoint: %s\n", server.MCPEndpointPath)
	fmt.Printf("  Health endpoints: /healthz, /readyz\n")

	ready := make(chan struct{})
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(ready); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ready:
		healthChecker.SetReady(true)
	case err := <-serverDone:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return fmt.Errorf("HTTP server startup timed out")
	}

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		fmt.Println("HTTP server stopped normally")
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}
