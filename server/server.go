// Package server provides the secret-text MCP server and its request
// dispatcher.
package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/secrettextlabs/secret-text-server/protocol"
)

// Info contains server metadata exposed to clients during initialization.
type Info struct {
	Name    string
	Version string
}

// Content is a typed unit of output returned from a tool invocation.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextContent creates a text content item.
func TextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// ToolHandler executes a tool with its raw JSON arguments.
type ToolHandler func(ctx context.Context, arguments json.RawMessage) ([]Content, error)

// Tool pairs a tool descriptor with its handler. The descriptor fields are
// immutable after registration.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     ToolHandler
}

// ObjectSchema returns an input schema for a tool taking an object with the
// given required property names. With no arguments it yields the empty schema
// {"type":"object","properties":{},"required":[]}.
func ObjectSchema(required ...string) map[string]any {
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   required,
	}
}

// Option configures a Server.
type Option func(*Server)

// Server is the secret-text MCP server. It holds the static server identity
// and the tool registry. All registration happens at startup; afterwards the
// server is read-only and safe for concurrent use.
type Server struct {
	mu sync.RWMutex

	info  Info
	tools map[string]*Tool
	order []string
}

// New creates a new server with the given info and options.
func New(info Info, opts ...Option) *Server {
	s := &Server{
		info:  info,
		tools: make(map[string]*Tool),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Info returns the server info.
func (s *Server) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// RegisterTool adds a tool to the registry. Registering a name twice replaces
// the earlier entry but keeps its position in listing order.
func (s *Server) RegisterTool(t *Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tools[t.Name]; !exists {
		s.order = append(s.order, t.Name)
	}
	s.tools[t.Name] = t
}

// Tools returns the registered tools in registration order. The slice is
// built fresh on every call; its content is invariant between registrations.
func (s *Server) Tools() []*Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Tool, 0, len(s.tools))
	for _, name := range s.order {
		result = append(result, s.tools[name])
	}
	return result
}

// GetTool retrieves a tool by name.
func (s *Server) GetTool(name string) (*Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tools[name]
	return t, ok
}

// Capabilities returns the capability advertisement for initialization.
// The server only does tools.
func (s *Server) Capabilities() map[string]any {
	return map[string]any{
		"tools": map[string]any{},
	}
}

// Manifest returns the initialize result payload: protocol version, server
// identity and the capability advertisement.
func (s *Server) Manifest() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"protocolVersion": protocol.MCPVersion,
		"serverInfo": map[string]any{
			"name":    s.info.Name,
			"version": s.info.Version,
		},
		"capabilities": s.Capabilities(),
	}
}
