package cli

import (
	"context"
	"fmt"
	"time"

	"navigator/config"
	"navigator/internal/adapter/cache"
	"navigator/internal/adapter/embedding"
	"navigator/internal/adapter/store"
	"navigator/internal/adapter/synth"
	"navigator/internal/usecase"
)

const queryCacheTTL = 10 * time.Minute

// queryStack is everything the query pipeline needs, wired from config.
type queryStack struct {
	runtime *usecase.RuntimeHolder
	ask     *usecase.AskUseCase
}

// newQueryStack builds the embedder, synthesizer and runtime holder for
// the corpus in dir. The index is not loaded; call runtime.Reload.
func newQueryStack(ctx context.Context, cfg *config.Config, dir string) (*queryStack, error) {
	base, err := embedding.New(cfg.Embedding)
	if err != nil {
		return nil, err
	}
	if err := embedding.Warm(ctx, base); err != nil {
		return nil, fmt.Errorf("embedding backend: %w", err)
	}

	emb := base
	var queryCache *cache.QueryCache
	if cfg.Retrieve.CacheSize > 0 {
		queryCache = cache.NewQueryCache(cfg.Retrieve.CacheSize, queryCacheTTL)
		emb = cache.NewCachedEmbedder(base, queryCache)
	}

	synthesizer, err := synth.New(cfg.Synth)
	if err != nil {
		return nil, err
	}

	artifacts := store.NewBoltStore()
	path := config.IndexDBPath(dir)
	holder := usecase.NewRuntimeHolder(func() (*usecase.Runtime, error) {
		return usecase.LoadRuntime(artifacts, path, base)
	}, func() {
		if queryCache != nil {
			queryCache.Invalidate()
		}
	})

	return &queryStack{
		runtime: holder,
		ask:     usecase.NewAskUseCase(holder, emb, synthesizer, cfg.Retrieve.TopK),
	}, nil
}
