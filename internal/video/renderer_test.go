package video

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEscapeDrawtext(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"colon", "time: 10", `time\: 10`},
		{"percent", "100% done", `100\% done`},
		{"apostrophe", "it's here", `it'\\\''s here`},
		{"backslash", `a\b`, `a\\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeDrawtext(tt.in); got != tt.want {
				t.Errorf("escapeDrawtext(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteConcatList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concat.txt")
	clips := []string{"/tmp/slide_000.mp4", "/tmp/slide_001.mp4"}

	if err := writeConcatList(path, clips); err != nil {
		t.Fatalf("writeConcatList() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read concat list: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("concat list has %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		want := "file '" + clips[i] + "'"
		if line != want {
			t.Errorf("line %d = %q, want %q", i, line, want)
		}
	}
}

func TestTail(t *testing.T) {
	if got := tail("short", 10); got != "short" {
		t.Errorf("tail() = %q, want unchanged string", got)
	}
	if got := tail("abcdefgh", 3); got != "fgh" {
		t.Errorf("tail() = %q, want %q", got, "fgh")
	}
}

func TestRenderNoSlides(t *testing.T) {
	renderer := NewRenderer(1080, 1920, 30)

	err := renderer.Render(context.Background(), RenderRequest{})
	if err == nil {
		t.Fatal("Render() error = nil, want error for empty slides")
	}
}
