package port

import "navigator/internal/domain"

// VectorIndex answers exact k-nearest-neighbor queries over a fixed set of
// vectors addressed by ordinal position.
type VectorIndex interface {
	Search(query []float32, k int) ([]domain.Hit, error)
	Len() int
	Dimension() int
}

// FragmentStore resolves ordinal positions to fragments.
type FragmentStore interface {
	Resolve(position int) (domain.Fragment, error)
	Len() int
}

// Artifacts is one index generation as written by ingestion and read by
// the query service. Vectors[i], IDs[i] and Fragments[i] describe the
// same fragment.
type Artifacts struct {
	Manifest  domain.Manifest
	Vectors   [][]float32
	IDs       []string
	Fragments []domain.Fragment
}

// ArtifactStore persists and restores index generations.
type ArtifactStore interface {
	Save(path string, a *Artifacts) error
	Load(path string) (*Artifacts, error)
}
