package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"INFO", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"", "debug"},
		{"  nonsense ", "debug"},
	}
	for _, c := range cases {
		if got := parseLevel(c.in).String(); got != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNew_JSONWriterFields(t *testing.T) {
	var buf bytes.Buffer
	l, closer, err := New(Options{Level: "info", Format: "json", Writer: &buf, RunID: "r-1"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = closer.Close() }()

	Named(l, "pipeline").Warn().Str("file", "/x/a.txt").Msg("rejected")
	l.Debug().Msg("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("want 1 line at info level, got %d: %q", len(lines), buf.String())
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("json: %v", err)
	}
	if m["run_id"] != "r-1" || m["component"] != "pipeline" || m["file"] != "/x/a.txt" || m["level"] != "warn" {
		t.Fatalf("unexpected fields: %v", m)
	}
}

func TestNew_AppendsToFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "logs", "gwasdb.log")
	for i := 0; i < 2; i++ {
		l, closer, err := New(Options{Level: "info", Format: "console", File: fn})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		l.Info().Msg("Processing")
		_ = closer.Close()
	}
	b, err := os.ReadFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(b), "Processing"); n != 2 {
		t.Fatalf("want 2 appended lines, got %d: %q", n, b)
	}
}
