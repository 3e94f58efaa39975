package usecase

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"navigator/internal/adapter/index"
	"navigator/internal/adapter/store"
	"navigator/internal/domain"
	"navigator/internal/port"
)

// Runtime is one loaded index generation. It is never mutated after
// construction and may be shared by any number of concurrent requests.
type Runtime struct {
	Index     *index.FlatL2
	Fragments *index.Fragments
	IDs       []string
	Manifest  domain.Manifest
	LoadedAt  time.Time
}

// NewRuntime builds a Runtime from loaded artifacts.
func NewRuntime(a *port.Artifacts) (*Runtime, error) {
	idx, err := index.Build(a.Vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataNotLoaded, err)
	}
	if idx.Len() != len(a.Fragments) || len(a.IDs) != len(a.Fragments) {
		return nil, fmt.Errorf("%w: %d vectors, %d ids, %d fragments",
			domain.ErrDataNotLoaded, idx.Len(), len(a.IDs), len(a.Fragments))
	}

	return &Runtime{
		Index:     idx,
		Fragments: index.NewFragments(a.Fragments),
		IDs:       append([]string(nil), a.IDs...),
		Manifest:  a.Manifest,
		LoadedAt:  time.Now(),
	}, nil
}

// LoadRuntime reads the generation at path and checks that it was built
// with the embedder the query side uses.
func LoadRuntime(artifacts port.ArtifactStore, path string, embedder port.Embedder) (*Runtime, error) {
	a, err := artifacts.Load(path)
	if err != nil {
		return nil, err
	}
	if err := store.CheckModel(a, embedder.ModelName(), embedder.Dimension()); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataNotLoaded, err)
	}
	return NewRuntime(a)
}

// RuntimeHolder publishes the current Runtime. Readers take a snapshot
// with Current; Swap and Reload replace it atomically and never disturb
// requests already holding the previous snapshot.
type RuntimeHolder struct {
	current atomic.Pointer[Runtime]

	mu     sync.Mutex
	load   func() (*Runtime, error)
	onSwap func()
}

// NewRuntimeHolder creates an empty holder. load is used by Reload;
// onSwap, if set, runs after every successful swap.
func NewRuntimeHolder(load func() (*Runtime, error), onSwap func()) *RuntimeHolder {
	return &RuntimeHolder{load: load, onSwap: onSwap}
}

// Current returns the active runtime, or nil if none is loaded.
func (h *RuntimeHolder) Current() *Runtime {
	return h.current.Load()
}

// Swap installs rt and returns the previous runtime.
func (h *RuntimeHolder) Swap(rt *Runtime) *Runtime {
	prev := h.current.Swap(rt)
	if h.onSwap != nil {
		h.onSwap()
	}
	return prev
}

// Reload loads a fresh generation and swaps it in. On failure the
// current runtime stays in place.
func (h *RuntimeHolder) Reload() (*Runtime, error) {
	if h.load == nil {
		return nil, fmt.Errorf("%w: no loader configured", domain.ErrDataNotLoaded)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	rt, err := h.load()
	if err != nil {
		slog.Error("reload failed", "component", "runtime", "err", err)
		return nil, err
	}
	h.Swap(rt)

	slog.Info("runtime loaded", "component", "runtime",
		"fragments", rt.Fragments.Len(), "model", rt.Manifest.Model, "built_at", rt.Manifest.BuiltAt)
	return rt, nil
}
