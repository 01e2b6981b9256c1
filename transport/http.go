package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/secrettextlabs/secret-text-server/protocol"
)

// HTTP serves JSON-RPC over HTTP. JSON-RPC traffic always answers with HTTP
// 200; protocol-level failures travel inside the response envelope. The only
// intentional non-200 responses are the OAuth stub endpoints (404) and
// rejected requests during drain (503).
type HTTP struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	drainDelay      time.Duration
	serverName      string
	corsConfig      *CORSConfig

	mu         sync.RWMutex
	listenAddr string
	server     *http.Server

	shutdown *ShutdownManager
}

// HTTPOption configures the HTTP transport.
type HTTPOption func(*HTTP)

// WithReadTimeout sets the read timeout for HTTP requests.
func WithReadTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.readTimeout = d
	}
}

// WithWriteTimeout sets the write timeout for HTTP responses.
func WithWriteTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.writeTimeout = d
	}
}

// WithServerName sets the server name reported by the liveness endpoints.
func WithServerName(name string) HTTPOption {
	return func(h *HTTP) {
		h.serverName = name
	}
}

// NewHTTP creates a new HTTP transport listening on addr.
func NewHTTP(addr string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		addr:            addr,
		readTimeout:     30 * time.Second,
		writeTimeout:    30 * time.Second,
		shutdownTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(h)
	}

	h.shutdown = NewShutdownManager(ShutdownConfig{
		Timeout:    h.shutdownTimeout,
		DrainDelay: h.drainDelay,
	})

	return h
}

// Addr returns the configured address.
func (h *HTTP) Addr() string {
	return h.addr
}

// ListenAddr returns the actual address the server is listening on.
func (h *HTTP) ListenAddr() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.listenAddr
}

// Serve starts the HTTP server and handles requests until ctx is canceled.
func (h *HTTP) Serve(ctx context.Context, handler Handler) error {
	httpHandler := h.createHandler(handler)

	listener, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	h.mu.Lock()
	h.listenAddr = listener.Addr().String()
	h.server = &http.Server{
		Handler:      httpHandler,
		ReadTimeout:  h.readTimeout,
		WriteTimeout: h.writeTimeout,
	}
	h.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		// Stop accepting RPCs, wait for in-flight ones, then close.
		_ = h.shutdown.Shutdown(shutdownCtx)
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// createHandler builds the HTTP route table.
func (h *HTTP) createHandler(handler Handler) http.Handler {
	mux := http.NewServeMux()

	rpc := func(w http.ResponseWriter, r *http.Request) {
		h.handleRPC(w, r, handler)
	}

	// JSON-RPC endpoints
	mux.HandleFunc("POST /{$}", rpc)
	mux.HandleFunc("POST /mcp", rpc)

	// Liveness probes
	mux.HandleFunc("GET /{$}", h.handleHealth)
	mux.HandleFunc("HEAD /{$}", h.handleHealth)
	mux.HandleFunc("GET /health", h.handleHealth)

	// Credential issuance is unsupported; these answer 404 on purpose so that
	// OAuth-discovering clients fall back to unauthenticated access.
	mux.HandleFunc("GET /.well-known/oauth-authorization-server", http.NotFound)
	mux.HandleFunc("GET /.well-known/oauth-protected-resource", http.NotFound)
	mux.HandleFunc("POST /register", http.NotFound)

	if h.corsConfig != nil {
		return CORSHandler(*h.corsConfig, mux)
	}
	return mux
}

// handleRPC handles JSON-RPC requests over HTTP.
func (h *HTTP) handleRPC(w http.ResponseWriter, r *http.Request, handler Handler) {
	if !h.shutdown.TrackRequest() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.shutdown.CompleteRequest()

	w.Header().Set("Content-Type", "application/json")

	var req protocol.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp := protocol.NewErrorResponse(nil, protocol.NewParseError("Invalid JSON"))
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	resp, err := handler.HandleRequest(r.Context(), &req)
	if err != nil {
		var rpcErr *protocol.Error
		if !errors.As(err, &rpcErr) {
			rpcErr = protocol.NewInternalError(err.Error())
		}
		resp = protocol.NewErrorResponse(req.ID, rpcErr)
	}

	// Notifications produce no response body.
	if resp != nil {
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// handleHealth answers liveness probes with a static status mapping.
func (h *HTTP) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}

	status := map[string]string{"status": "ok"}
	if h.serverName != "" {
		status["server"] = h.serverName
	}
	_ = json.NewEncoder(w).Encode(status)
}
