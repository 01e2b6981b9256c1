// Package testutil provides an in-memory client for exercising the
// dispatcher in tests without standing up a transport.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/secrettextlabs/secret-text-server/protocol"
	"github.com/secrettextlabs/secret-text-server/server"
)

// TestClient drives a server's dispatcher directly.
type TestClient struct {
	t       testing.TB
	handler *server.Handler
	reqID   int64
	mu      sync.Mutex
}

// NewTestClient creates a test client for the given server.
func NewTestClient(t testing.TB, srv *server.Server) *TestClient {
	t.Helper()
	return &TestClient{
		t:       t,
		handler: server.NewHandler(srv),
	}
}

func (tc *TestClient) nextID() json.RawMessage {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.reqID++
	return json.RawMessage(fmt.Sprintf("%d", tc.reqID))
}

// Send sends a request with the given method and params and returns the
// response envelope.
func (tc *TestClient) Send(method string, params any) (*protocol.Response, error) {
	tc.t.Helper()

	var paramsData json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
		paramsData = data
	}

	req := &protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      tc.nextID(),
		Method:  method,
		Params:  paramsData,
	}

	return tc.handler.HandleRequest(context.Background(), req)
}

// Initialize sends an initialize request and returns the result mapping.
func (tc *TestClient) Initialize() (map[string]any, error) {
	tc.t.Helper()

	resp, err := tc.Send(protocol.MethodInitialize, nil)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", resp.Result)
	}
	return result, nil
}

// ListTools sends a tools/list request and returns the tool descriptors.
func (tc *TestClient) ListTools() ([]map[string]any, error) {
	tc.t.Helper()

	resp, err := tc.Send(protocol.MethodToolsList, nil)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", resp.Result)
	}
	tools, ok := result["tools"].([]map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected tools type %T", result["tools"])
	}
	return tools, nil
}

// CallTool invokes a tool by name and returns its content items.
func (tc *TestClient) CallTool(name string, arguments any) ([]server.Content, error) {
	tc.t.Helper()

	params := map[string]any{
		"name": name,
	}
	if arguments != nil {
		params["arguments"] = arguments
	}

	resp, err := tc.Send(protocol.MethodToolsCall, params)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", resp.Result)
	}
	content, ok := result["content"].([]server.Content)
	if !ok {
		return nil, fmt.Errorf("unexpected content type %T", result["content"])
	}
	return content, nil
}
