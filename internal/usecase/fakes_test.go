package usecase

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"navigator/internal/domain"
	"navigator/internal/port"
)

// conceptEmbedder maps text onto three hand-picked concept axes so
// similarity in tests follows meaning rather than shared words.
type conceptEmbedder struct {
	calls atomic.Int32
	err   error
}

var conceptAxes = [][]string{
	{"photosynthesis", "plant", "light"},
	{"respiration", "cellular", "releases"},
	{"energy"},
}

func (e *conceptEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		v := make([]float32, len(conceptAxes))
		for axis, words := range conceptAxes {
			for _, w := range words {
				if strings.Contains(lower, w) {
					v[axis]++
				}
			}
		}
		out[i] = v
	}
	return out, nil
}

func (e *conceptEmbedder) Dimension() int    { return len(conceptAxes) }
func (e *conceptEmbedder) ModelName() string { return "concept-test" }

type staticWalker struct {
	files []port.FileInfo
}

func (w staticWalker) Walk(string) ([]port.FileInfo, error) {
	return w.files, nil
}

// mapLoader serves document text from memory keyed by RelPath.
type mapLoader map[string]string

func (l mapLoader) Load(_ context.Context, file port.FileInfo) (domain.Document, error) {
	text, ok := l[file.RelPath]
	if !ok {
		return domain.Document{}, errors.New("unreadable")
	}
	return domain.Document{Source: file.RelPath, Path: file.Path, Text: text}, nil
}

type fakeSynth struct {
	answer string
	err    error
	calls  atomic.Int32
	got    []domain.Fragment
}

func (s *fakeSynth) Synthesize(_ context.Context, _ string, fragments []domain.Fragment) (string, error) {
	s.calls.Add(1)
	s.got = fragments
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func (s *fakeSynth) ModelName() string { return "fake" }

func files(names ...string) []port.FileInfo {
	out := make([]port.FileInfo, len(names))
	for i, n := range names {
		out[i] = port.FileInfo{Path: "/corpus/" + n, RelPath: n}
	}
	return out
}
