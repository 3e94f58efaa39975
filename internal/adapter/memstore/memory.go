package memstore

import (
	"fmt"
	"sync"

	"navigator/internal/domain"
	"navigator/internal/port"
)

// MemoryStore keeps index generations in memory, keyed by path. It
// satisfies port.ArtifactStore for tests and throwaway corpora.
type MemoryStore struct {
	mu          sync.RWMutex
	generations map[string]*port.Artifacts
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		generations: make(map[string]*port.Artifacts),
	}
}

func (s *MemoryStore) Save(path string, a *port.Artifacts) error {
	if len(a.Vectors) != len(a.Fragments) || len(a.IDs) != len(a.Fragments) {
		return fmt.Errorf("index has %d vectors and %d ids but %d fragments", len(a.Vectors), len(a.IDs), len(a.Fragments))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[path] = clone(a)
	return nil
}

func (s *MemoryStore) Load(path string) (*port.Artifacts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.generations[path]
	if !ok {
		return nil, fmt.Errorf("%w: no generation at %s", domain.ErrDataNotLoaded, path)
	}
	return clone(a), nil
}

func (s *MemoryStore) Delete(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.generations, path)
}

func clone(a *port.Artifacts) *port.Artifacts {
	out := &port.Artifacts{
		Manifest:  a.Manifest,
		Vectors:   make([][]float32, len(a.Vectors)),
		IDs:       append([]string(nil), a.IDs...),
		Fragments: append([]domain.Fragment(nil), a.Fragments...),
	}
	for i, v := range a.Vectors {
		out.Vectors[i] = append([]float32(nil), v...)
	}
	return out
}

var _ port.ArtifactStore = (*MemoryStore)(nil)
