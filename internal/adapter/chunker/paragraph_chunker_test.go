package chunker

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParagraphChunker(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"blank runs collapse", "A\n\nB\n\n\nC", []string{"A", "B", "C"}},
		{"empty document", "", nil},
		{"only whitespace", "  \n\n \t\n", nil},
		{"trims paragraphs", "  first  \n\n\tsecond\t", []string{"first", "second"}},
		{"keeps single newlines", "line one\nline two\n\nnext", []string{"line one\nline two", "next"}},
		{"whitespace-only separator line", "A\n   \nB", []string{"A", "B"}},
		{"crlf", "A\r\n\r\nB", []string{"A", "B"}},
		{"leading and trailing blanks", "\n\nA\n\n", []string{"A"}},
	}

	chunker := NewParagraphChunker(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chunker.Chunk(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Chunk(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestParagraphChunkerMaxChars(t *testing.T) {
	chunker := NewParagraphChunker(10)

	got := chunker.Chunk("alpha beta gamma delta\n\nshort")
	want := []string{"alpha beta", "gamma", "delta", "short"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	for _, c := range chunker.Chunk(strings.Repeat("x", 25)) {
		if n := utf8.RuneCountInString(c); n > 10 {
			t.Errorf("piece %q exceeds limit: %d runes", c, n)
		}
	}
}

func TestParagraphChunkerMaxCharsPreservesText(t *testing.T) {
	chunker := NewParagraphChunker(16)
	text := "Photosynthesis converts light to chemical energy in the chloroplast."

	pieces := chunker.Chunk(text)
	if len(pieces) < 2 {
		t.Fatalf("expected the paragraph to be split, got %q", pieces)
	}

	joined := strings.Join(pieces, " ")
	if strings.Join(strings.Fields(joined), " ") != text {
		t.Errorf("split lost text: %q", joined)
	}
	for _, p := range pieces {
		if p == "" || p != strings.TrimSpace(p) {
			t.Errorf("piece not trimmed: %q", p)
		}
	}
}
