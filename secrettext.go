// Package secrettext assembles the secret-text MCP server: a JSON-RPC
// dispatcher exposing a single tool, get_secret_text, which returns a
// compile-time constant string.
//
// The heavy lifting lives in the subpackages:
//
//   - protocol: JSON-RPC 2.0 envelopes and error codes
//   - server: tool registry and request dispatcher
//   - transport: HTTP, stdio and WebSocket transports
//   - middleware: recovery, request IDs, logging, rate limiting, telemetry
//   - config: environment-driven configuration
package secrettext

import (
	"context"
	"encoding/json"

	"github.com/secrettextlabs/secret-text-server/server"
)

// Server identity advertised during initialization.
const (
	ServerName    = "secret-text-server"
	ServerVersion = "1.0.0"
)

// ToolName is the name of the only registered tool.
const ToolName = "get_secret_text"

// SecretText is the fixed value returned by the get_secret_text tool.
const SecretText = "Hello World! The secret text is: ANTHROPIC"

// NewServer returns a server with the secret-text tool registered.
func NewServer() *server.Server {
	srv := server.New(server.Info{
		Name:    ServerName,
		Version: ServerVersion,
	})

	srv.RegisterTool(&server.Tool{
		Name:        ToolName,
		Description: "Returns a secret text",
		InputSchema: server.ObjectSchema(),
		Handler: func(_ context.Context, _ json.RawMessage) ([]server.Content, error) {
			return []server.Content{server.TextContent(SecretText)}, nil
		},
	})

	return srv
}

// NewHandler returns a dispatcher for a freshly assembled server.
func NewHandler() *server.Handler {
	return server.NewHandler(NewServer())
}
