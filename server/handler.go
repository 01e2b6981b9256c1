package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/secrettextlabs/secret-text-server/protocol"
)

// HandlerFunc is the signature for request handlers.
type HandlerFunc func(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

// Handler dispatches JSON-RPC requests against a Server. It is a pure
// function of (method, params): no state survives between calls.
type Handler struct {
	srv *Server
}

// NewHandler creates a dispatcher for the given server.
func NewHandler(srv *Server) *Handler {
	return &Handler{srv: srv}
}

// HandleRequest dispatches a request and shapes the response envelope. It
// never returns an error and never panics: every fault is converted into an
// error envelope carrying the request ID when one was extractable.
func (h *Handler) HandleRequest(ctx context.Context, req *protocol.Request) (resp *protocol.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = protocol.NewErrorResponse(req.ID, protocol.NewInternalError(fmt.Sprintf("panic: %v", r)))
			err = nil
		}
	}()

	resp, dispatchErr := h.dispatch(ctx, req)
	if dispatchErr != nil {
		var rpcErr *protocol.Error
		if !errors.As(dispatchErr, &rpcErr) {
			rpcErr = protocol.NewInternalError(dispatchErr.Error())
		}
		return protocol.NewErrorResponse(req.ID, rpcErr), nil
	}
	return resp, nil
}

func (h *Handler) dispatch(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	switch req.Method {
	case protocol.MethodInitialize:
		return h.handleInitialize(req)
	case protocol.MethodToolsList:
		return h.handleToolsList(req)
	case protocol.MethodToolsCall:
		return h.handleToolsCall(ctx, req)
	case protocol.MethodInitialized:
		// Client acknowledgement, nothing to answer.
		return nil, nil
	default:
		return nil, protocol.NewMethodNotFound(req.Method)
	}
}

// handleInitialize answers with the static manifest. Params are ignored:
// the protocol version is not negotiated.
func (h *Handler) handleInitialize(req *protocol.Request) (*protocol.Response, error) {
	return protocol.NewResponse(req.ID, h.srv.Manifest()), nil
}

func (h *Handler) handleToolsList(req *protocol.Request) (*protocol.Response, error) {
	tools := h.srv.Tools()

	toolList := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		toolList = append(toolList, map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.InputSchema,
		})
	}

	return protocol.NewResponse(req.ID, map[string]any{"tools": toolList}), nil
}

func (h *Handler) handleToolsCall(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, protocol.NewInternalError("malformed params: " + err.Error())
		}
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage(`{}`)
	}

	tool, ok := h.srv.GetTool(params.Name)
	if !ok {
		return nil, protocol.NewInternalError("Unknown tool: " + params.Name)
	}

	content, err := tool.Handler(ctx, params.Arguments)
	if err != nil {
		var rpcErr *protocol.Error
		if errors.As(err, &rpcErr) {
			return nil, rpcErr
		}
		return nil, protocol.NewInternalError(err.Error())
	}

	return protocol.NewResponse(req.ID, map[string]any{"content": content}), nil
}
