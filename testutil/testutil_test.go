package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/secrettextlabs/secret-text-server/protocol"
	"github.com/secrettextlabs/secret-text-server/server"
)

func newTestServer() *server.Server {
	srv := server.New(server.Info{Name: "test-server", Version: "0.1.0"})
	srv.RegisterTool(&server.Tool{
		Name:        "echo",
		Description: "Echoes back the message argument",
		InputSchema: server.ObjectSchema("message"),
		Handler: func(_ context.Context, args json.RawMessage) ([]server.Content, error) {
			var in struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, err
			}
			return []server.Content{server.TextContent(in.Message)}, nil
		},
	})
	return srv
}

func TestTestClient_Initialize(t *testing.T) {
	client := NewTestClient(t, newTestServer())

	result, err := client.Initialize()
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if got := result["protocolVersion"]; got != protocol.MCPVersion {
		t.Errorf("protocolVersion = %v, want %v", got, protocol.MCPVersion)
	}
	info, ok := result["serverInfo"].(map[string]any)
	if !ok {
		t.Fatalf("serverInfo type = %T, want map", result["serverInfo"])
	}
	if got := info["name"]; got != "test-server" {
		t.Errorf("serverInfo.name = %v, want test-server", got)
	}
}

func TestTestClient_ListTools(t *testing.T) {
	client := NewTestClient(t, newTestServer())

	tools, err := client.ListTools()
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	if len(tools) != 1 {
		t.Fatalf("len(tools) = %d, want 1", len(tools))
	}
	if got := tools[0]["name"]; got != "echo" {
		t.Errorf("tools[0].name = %v, want echo", got)
	}
}

func TestTestClient_CallTool(t *testing.T) {
	client := NewTestClient(t, newTestServer())

	content, err := client.CallTool("echo", map[string]any{"message": "hi"})
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}
	if len(content) != 1 {
		t.Fatalf("len(content) = %d, want 1", len(content))
	}
	if content[0].Text != "hi" {
		t.Errorf("content[0].Text = %q, want %q", content[0].Text, "hi")
	}
}

func TestTestClient_CallToolUnknown(t *testing.T) {
	client := NewTestClient(t, newTestServer())

	_, err := client.CallTool("nope", nil)
	if err == nil {
		t.Fatal("CallTool() error = nil, want error")
	}
	var rpcErr *protocol.Error
	if !errors.As(err, &rpcErr) {
		t.Fatalf("error type = %T, want *protocol.Error", err)
	}
	if rpcErr.Code != protocol.CodeInternalError {
		t.Errorf("error code = %d, want %d", rpcErr.Code, protocol.CodeInternalError)
	}
}

func TestTestClient_SendUnknownMethod(t *testing.T) {
	client := NewTestClient(t, newTestServer())

	resp, err := client.Send("ping", nil)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.Error == nil {
		t.Fatal("resp.Error = nil, want method-not-found error")
	}
	if resp.Error.Code != protocol.CodeMethodNotFound {
		t.Errorf("error code = %d, want %d", resp.Error.Code, protocol.CodeMethodNotFound)
	}
	if resp.Error.Message != "Method not found: ping" {
		t.Errorf("error message = %q, want %q", resp.Error.Message, "Method not found: ping")
	}
}

func TestTestClient_IDsIncrement(t *testing.T) {
	client := NewTestClient(t, newTestServer())

	first, err := client.Send(protocol.MethodToolsList, nil)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	second, err := client.Send(protocol.MethodToolsList, nil)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if string(first.ID) != "1" || string(second.ID) != "2" {
		t.Errorf("IDs = %s, %s, want 1, 2", first.ID, second.ID)
	}
}
