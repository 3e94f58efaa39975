package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"navigator/internal/port"
)

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	content := "First paragraph.\n\nSecond paragraph."
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := New().Load(context.Background(), port.FileInfo{Path: path, RelPath: "notes.md"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Source != "notes.md" {
		t.Errorf("expected source notes.md, got %s", doc.Source)
	}
	if doc.Text != content {
		t.Errorf("unexpected text %q", doc.Text)
	}
}

func TestLoadSourceFallsBackToBaseName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := New().Load(context.Background(), port.FileInfo{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Source != "paper.txt" {
		t.Errorf("expected source paper.txt, got %s", doc.Source)
	}
}

func TestLoadRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.txt")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0xc3}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New().Load(context.Background(), port.FileInfo{Path: path, RelPath: "blob.txt"}); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
}

func TestLoadInvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New().Load(context.Background(), port.FileInfo{Path: path, RelPath: "broken.pdf"}); err == nil {
		t.Error("expected error for invalid pdf")
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Load(ctx, port.FileInfo{Path: "/does/not/matter.txt"}); err == nil {
		t.Error("expected context error")
	}
}
