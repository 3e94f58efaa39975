package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"navigator/config"
	"navigator/internal/domain"
	"navigator/internal/port"
)

const (
	warmTimeout = 30 * time.Second
	warmText    = "ping"
)

// New builds the embedder selected by cfg. Ingestion and serving must be
// configured with the same provider and model.
func New(cfg config.EmbeddingConfig) (port.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIEmbedder(cfg.APIKeyEnv, cfg.Model, cfg.BaseURL, cfg.Dimension, cfg.BatchSize), nil
	case "ollama":
		return NewOllamaEmbedder(cfg.Model, cfg.BaseURL, cfg.Dimension, cfg.BatchSize), nil
	case "hash":
		return NewHashEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// Initializer is implemented by embedders with expensive one-time setup.
type Initializer interface {
	Init() error
}

// Warm runs one-time initialization and, for remote backends, embeds a
// short string so that an unreachable server, a rejected key or a wrong
// dimension is reported at startup instead of on the first request. Every
// failure wraps domain.ErrModelUnavailable.
func Warm(ctx context.Context, e port.Embedder) error {
	in, ok := e.(Initializer)
	if !ok {
		return nil
	}
	if err := in.Init(); err != nil {
		return unavailable(e, err)
	}

	ctx, cancel := context.WithTimeout(ctx, warmTimeout)
	defer cancel()

	vectors, err := e.Embed(ctx, []string{warmText})
	if err != nil {
		return unavailable(e, err)
	}
	if len(vectors) != 1 || len(vectors[0]) != e.Dimension() {
		got := 0
		if len(vectors) == 1 {
			got = len(vectors[0])
		}
		return unavailable(e, fmt.Errorf("%w: expected %d, got %d", domain.ErrDimensionMismatch, e.Dimension(), got))
	}
	return nil
}

func unavailable(e port.Embedder, err error) error {
	if errors.Is(err, domain.ErrModelUnavailable) {
		return err
	}
	return fmt.Errorf("%w: model %s: %w", domain.ErrModelUnavailable, e.ModelName(), err)
}
