package memstore

import (
	"errors"
	"testing"

	"navigator/internal/domain"
	"navigator/internal/port"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.Load("corpus"); !errors.Is(err, domain.ErrDataNotLoaded) {
		t.Fatalf("expected ErrDataNotLoaded, got %v", err)
	}

	a := &port.Artifacts{
		Manifest:  domain.Manifest{Model: "m", Dimension: 2, Fragments: 1},
		Vectors:   [][]float32{{1, 2}},
		IDs:       []string{"id-0"},
		Fragments: []domain.Fragment{{ID: "id-0", Source: "a.txt", Text: "alpha"}},
	}
	if err := s.Save("corpus", a); err != nil {
		t.Fatal(err)
	}
	a.Vectors[0][0] = 99

	got, err := s.Load("corpus")
	if err != nil {
		t.Fatal(err)
	}
	if got.Vectors[0][0] != 1 {
		t.Error("saved generation must not alias the caller's vectors")
	}
	if got.Fragments[0].Text != "alpha" || got.Manifest.Model != "m" {
		t.Errorf("unexpected generation %+v", got)
	}

	got.Vectors[0][1] = 42
	again, _ := s.Load("corpus")
	if again.Vectors[0][1] != 2 {
		t.Error("loaded generation must not alias the stored one")
	}

	s.Delete("corpus")
	if _, err := s.Load("corpus"); !errors.Is(err, domain.ErrDataNotLoaded) {
		t.Errorf("expected ErrDataNotLoaded after delete, got %v", err)
	}
}

func TestMemoryStore_RejectsDesync(t *testing.T) {
	s := NewMemoryStore()
	err := s.Save("corpus", &port.Artifacts{
		Vectors:   [][]float32{{1}},
		IDs:       []string{"a", "b"},
		Fragments: []domain.Fragment{{ID: "a"}},
	})
	if err == nil {
		t.Error("expected error for mismatched lengths")
	}
}
