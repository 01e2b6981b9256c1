package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/secrettextlabs/secret-text-server/protocol"
)

func TestOTel(t *testing.T) {
	t.Run("creates span for request", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
		)
		defer tp.Shutdown(context.Background())

		m := OTel(WithTracerProvider(tp))

		handler := m(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			return protocol.NewResponse(req.ID, "ok"), nil
		})

		req := &protocol.Request{ID: json.RawMessage(`1`), Method: "tools/list"}
		if _, err := handler(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		spans := exporter.GetSpans()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}
		if spans[0].Name != "rpc.tools/list" {
			t.Errorf("span name = %q, want %q", spans[0].Name, "rpc.tools/list")
		}
	})

	t.Run("records handler errors", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
		)
		defer tp.Shutdown(context.Background())

		m := OTel(WithTracerProvider(tp))

		handler := m(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			return nil, errors.New("handler failed")
		})

		req := &protocol.Request{ID: json.RawMessage(`1`), Method: "tools/call"}
		_, _ = handler(context.Background(), req)

		spans := exporter.GetSpans()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}
		if len(spans[0].Events) == 0 {
			t.Error("expected error event on span")
		}
	})

	t.Run("marks spans for error envelopes", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
		)
		defer tp.Shutdown(context.Background())

		m := OTel(WithTracerProvider(tp))

		handler := m(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			return protocol.NewErrorResponse(req.ID, protocol.NewMethodNotFound(req.Method)), nil
		})

		req := &protocol.Request{ID: json.RawMessage(`1`), Method: "ping"}
		_, _ = handler(context.Background(), req)

		spans := exporter.GetSpans()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}
		if spans[0].Status.Description != "Method not found: ping" {
			t.Errorf("status description = %q", spans[0].Status.Description)
		}
	})

	t.Run("records request metrics", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer mp.Shutdown(context.Background())

		m := OTel(WithMeterProvider(mp))

		handler := m(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			return protocol.NewResponse(req.ID, "ok"), nil
		})

		req := &protocol.Request{ID: json.RawMessage(`1`), Method: "tools/call"}
		for i := 0; i < 3; i++ {
			if _, err := handler(context.Background(), req); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		var rm metricdata.ResourceMetrics
		if err := reader.Collect(context.Background(), &rm); err != nil {
			t.Fatalf("Collect failed: %v", err)
		}

		var total int64
		for _, sm := range rm.ScopeMetrics {
			for _, metric := range sm.Metrics {
				if metric.Name != "rpc.server.requests" {
					continue
				}
				sum, ok := metric.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatalf("rpc.server.requests data type = %T", metric.Data)
				}
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
		if total != 3 {
			t.Errorf("rpc.server.requests = %d, want 3", total)
		}
	})
}
