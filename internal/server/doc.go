// Package server holds the MCP server runtime: the shared ServerContext
// handed to every tool handler, the streamable HTTP transport with
// authorization header propagation, health check endpoints for Kubernetes
// probes, and the dedicated Prometheus metrics server.
//
// The server itself never rejects unauthenticated requests. Bearer tokens
// travel from the HTTP layer to tool handlers via the request context, and
// each tool decides how to respond to a missing or invalid token.
package server
