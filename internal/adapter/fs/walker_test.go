package fs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkIncludesAndExcludes(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"b.pdf",
		"a.txt",
		"notes/c.md",
		"notes/skip.go",
		".navigator/index.db",
		".navigator/cache.txt",
	} {
		writeFile(t, root, rel)
	}

	w := NewWalker([]string{"**/*.pdf", "**/*.txt", "**/*.md"}, []string{"**/.navigator/**"})
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, f := range files {
		got = append(got, f.RelPath)
		if !filepath.IsAbs(f.Path) {
			t.Errorf("expected absolute path, got %s", f.Path)
		}
	}
	want := []string{"a.txt", "b.pdf", "notes/c.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWalkDefaultIncludesEverything(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "one.bin")
	writeFile(t, root, "dir/two.bin")

	files, err := NewWalker(nil, nil).Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 files, got %d", len(files))
	}
}

func TestWalkMissingRoot(t *testing.T) {
	if _, err := NewWalker(nil, nil).Walk(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing root")
	}
}
