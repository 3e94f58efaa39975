package index

import (
	"fmt"

	"navigator/internal/domain"
	"navigator/internal/port"
)

// Fragments is the ordered fragment sequence parallel to a FlatL2 index.
type Fragments struct {
	items []domain.Fragment
}

func NewFragments(items []domain.Fragment) *Fragments {
	cp := make([]domain.Fragment, len(items))
	copy(cp, items)
	return &Fragments{items: cp}
}

// Resolve returns the fragment at position.
func (f *Fragments) Resolve(position int) (domain.Fragment, error) {
	if position < 0 || position >= len(f.items) {
		return domain.Fragment{}, fmt.Errorf("position %d of %d: %w", position, len(f.items), domain.ErrOutOfRange)
	}
	return f.items[position], nil
}

// All returns the fragments in position order.
func (f *Fragments) All() []domain.Fragment {
	return f.items
}

func (f *Fragments) Len() int {
	return len(f.items)
}

var _ port.FragmentStore = (*Fragments)(nil)
