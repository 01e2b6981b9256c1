package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/secrettextlabs/secret-text-server/protocol"
)

func TestTimeout(t *testing.T) {
	t.Run("sets a deadline on the context", func(t *testing.T) {
		handler := Timeout(time.Second)(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("expected context deadline to be set")
			}
			return protocol.NewResponse(req.ID, "ok"), nil
		})

		if _, err := handler(context.Background(), &protocol.Request{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("cancels slow handlers", func(t *testing.T) {
		handler := Timeout(10 * time.Millisecond)(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
				return protocol.NewResponse(req.ID, "too late"), nil
			}
		})

		_, err := handler(context.Background(), &protocol.Request{})
		if err != context.DeadlineExceeded {
			t.Errorf("err = %v, want context.DeadlineExceeded", err)
		}
	})
}
