package secrettext_test

import (
	"context"
	"encoding/json"
	"fmt"

	secrettext "github.com/secrettextlabs/secret-text-server"
	"github.com/secrettextlabs/secret-text-server/protocol"
	"github.com/secrettextlabs/secret-text-server/server"
)

// Example demonstrates assembling the server and calling its tool
// through the dispatcher.
func Example() {
	handler := secrettext.NewHandler()

	req := &protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      json.RawMessage(`1`),
		Method:  protocol.MethodToolsCall,
		Params:  json.RawMessage(`{"name":"get_secret_text","arguments":{}}`),
	}

	resp, _ := handler.HandleRequest(context.Background(), req)
	data, _ := json.Marshal(resp)
	fmt.Println(string(data))
	// Output: {"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"Hello World! The secret text is: ANTHROPIC"}]}}
}

// ExampleNewServer demonstrates registering an additional tool on the
// assembled server.
func ExampleNewServer() {
	srv := secrettext.NewServer()

	srv.RegisterTool(&server.Tool{
		Name:        "shout",
		Description: "Returns the secret text in uppercase",
		InputSchema: server.ObjectSchema(),
		Handler: func(ctx context.Context, _ json.RawMessage) ([]server.Content, error) {
			return []server.Content{server.TextContent("HELLO WORLD!")}, nil
		},
	})

	for _, t := range srv.Tools() {
		fmt.Println(t.Name)
	}
	// Output:
	// get_secret_text
	// shout
}
