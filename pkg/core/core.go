// Package core provides the core functionality of the MCP server.
package core

// Version returns the current version of the MCP server.
func Version() string {
	return "1.0.0"
}

// Name returns the name of the package.
func Name() string {
	return "mcp-framework"
}
