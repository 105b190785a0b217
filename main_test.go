package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	canvasrenderer "github.com/ByLCY/textnode/renderer/canvas"
)

func TestRunGreetingExample(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out", "greeting.pdf")
	debugPath := filepath.Join(dir, "debug", "layout.json")

	var data any
	if err := json.Unmarshal([]byte(`{"user":{"name":"Ada"},"inbox":{"unread":3}}`), &data); err != nil {
		t.Fatal(err)
	}
	r := canvasrenderer.NewRenderer("examples")
	opts := runOptions{debugPath: debugPath, data: data}
	if err := run("examples/greeting.textnode", out, opts, r, r); err != nil {
		t.Fatalf("run: %v", err)
	}

	pdf, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	raw, err := os.ReadFile(debugPath)
	if err != nil {
		t.Fatal(err)
	}
	var view struct {
		Lines []json.RawMessage `json:"lines"`
	}
	if err := json.Unmarshal(raw, &view); err != nil {
		t.Fatalf("debug JSON: %v", err)
	}
	if n := len(view.Lines); n == 0 || n > 4 {
		t.Fatalf("expected 1-4 lines with max-lines 4, got %d", n)
	}
}

func TestRunRequiresRenderer(t *testing.T) {
	if err := run("examples/greeting.textnode", filepath.Join(t.TempDir(), "x.pdf"), runOptions{}, nil, nil); err == nil {
		t.Fatalf("expected error without renderer")
	}
}
