// Package instructions holds the static text the server hands to MCP
// clients: the server-level usage instructions and the named writing
// instruction templates served by the fetch_instructions tool.
package instructions
