package layout

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerDefaultIsSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("default logger should be disabled")
	}
}

func TestSetLoggerReceivesRecords(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	e := newTestEngine(t, Options{})
	e.Compute(Plain("hello", Attributes{}), nil, Constraints{Size: Size{Width: 100}})
	if !strings.Contains(buf.String(), "layout computed") {
		t.Fatalf("expected debug record, got %q", buf.String())
	}
}
