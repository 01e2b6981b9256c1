package middleware

import (
	"context"
	"time"

	"github.com/secrettextlabs/secret-text-server/protocol"
)

// Timeout returns middleware that enforces a per-request deadline. The
// dispatcher itself never blocks, so this only matters when a tool handler
// performs work that honors context cancellation.
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, req)
		}
	}
}
