// Package instrumentation provides OpenTelemetry instrumentation for the
// yt-mcp server.
//
// # Metrics
//
// Server/HTTP:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - active_sessions: Gauge of active MCP sessions
//
// Authentication:
//   - token_verifications_total: Counter of bearer token verifications by result
//   - userinfo_requests_total: Counter of userinfo fetches by result
//
// Gmail:
//   - gmail_operations_total: Counter of Gmail API operations by operation and status
//   - gmail_operation_duration_seconds: Histogram of Gmail API operation durations
//   - token_store_operations_total: Counter of token store reads/writes by status
//
// MCP tools:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//
// # Configuration
//
// Environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: yt-mcp)
package instrumentation
