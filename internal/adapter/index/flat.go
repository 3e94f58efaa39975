package index

import (
	"fmt"
	"sort"

	"navigator/internal/domain"
	"navigator/internal/port"
)

// DefaultK is the number of neighbors returned when the caller asks for
// k <= 0.
const DefaultK = 5

// FlatL2 is an exact nearest-neighbor index under squared Euclidean
// distance. Every search scans all vectors. It is immutable after Build
// and safe for concurrent searches.
type FlatL2 struct {
	dimension int
	vectors   [][]float32
}

// Build creates an index over vectors. Position i in the index is
// vectors[i]. All vectors must share one dimension.
func Build(vectors [][]float32) (*FlatL2, error) {
	idx := &FlatL2{vectors: make([][]float32, len(vectors))}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("vector %d is empty", i)
		}
		if i == 0 {
			idx.dimension = len(v)
		} else if len(v) != idx.dimension {
			return nil, fmt.Errorf("vector %d: %w: expected %d, got %d", i, domain.ErrDimensionMismatch, idx.dimension, len(v))
		}
		cp := make([]float32, len(v))
		copy(cp, v)
		idx.vectors[i] = cp
	}
	return idx, nil
}

// Search returns the k indexed vectors closest to query, nearest first.
// Equal distances are ordered by position. When fewer than k vectors are
// indexed all of them are returned.
func (x *FlatL2) Search(query []float32, k int) ([]domain.Hit, error) {
	if k <= 0 {
		k = DefaultK
	}
	if len(x.vectors) == 0 {
		return nil, nil
	}
	if len(query) != x.dimension {
		return nil, fmt.Errorf("query: %w: expected %d, got %d", domain.ErrDimensionMismatch, x.dimension, len(query))
	}

	hits := make([]domain.Hit, len(x.vectors))
	for i, v := range x.vectors {
		hits[i] = domain.Hit{Position: i, Distance: SquaredL2(query, v)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Position < hits[j].Position
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Vector returns the vector stored at position i.
func (x *FlatL2) Vector(i int) ([]float32, error) {
	if i < 0 || i >= len(x.vectors) {
		return nil, fmt.Errorf("position %d of %d: %w", i, len(x.vectors), domain.ErrOutOfRange)
	}
	return x.vectors[i], nil
}

// Vectors returns the indexed vectors in position order.
func (x *FlatL2) Vectors() [][]float32 {
	return x.vectors
}

func (x *FlatL2) Len() int {
	return len(x.vectors)
}

func (x *FlatL2) Dimension() int {
	return x.dimension
}

// SquaredL2 returns the squared Euclidean distance between a and b,
// which must have equal length.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

var _ port.VectorIndex = (*FlatL2)(nil)
