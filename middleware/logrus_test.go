package middleware

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/secrettextlabs/secret-text-server/protocol"
)

func TestLogrusLogger(t *testing.T) {
	log, hook := logrustest.NewNullLogger()
	logger := NewLogrusLogger(log)

	handler := Logging(logger)(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		return protocol.NewResponse(req.ID, "ok"), nil
	})

	_, err := handler(context.Background(), &protocol.Request{Method: "tools/list"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := hook.AllEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry.Level != logrus.InfoLevel {
		t.Errorf("Level = %v, want info", entry.Level)
	}
	if entry.Message != "request completed" {
		t.Errorf("Message = %q, want %q", entry.Message, "request completed")
	}
	if entry.Data["method"] != "tools/list" {
		t.Errorf("method field = %v, want tools/list", entry.Data["method"])
	}
}

func TestLogrusLogger_Levels(t *testing.T) {
	log, hook := logrustest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	logger := NewLogrusLogger(log)

	logger.Debug("d", F("k", 1))
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	entries := hook.AllEntries()
	if len(entries) != 4 {
		t.Fatalf("expected 4 log entries, got %d", len(entries))
	}
	wantLevels := []logrus.Level{logrus.DebugLevel, logrus.InfoLevel, logrus.WarnLevel, logrus.ErrorLevel}
	for i, want := range wantLevels {
		if entries[i].Level != want {
			t.Errorf("entries[%d].Level = %v, want %v", i, entries[i].Level, want)
		}
	}
	if entries[0].Data["k"] != 1 {
		t.Errorf("field k = %v, want 1", entries[0].Data["k"])
	}
}
