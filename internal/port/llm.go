package port

import (
	"context"

	"navigator/internal/domain"
)

// Synthesizer composes an answer to question using only the given
// fragments, most relevant first.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string, fragments []domain.Fragment) (string, error)

	// ModelName returns the name of the generation model.
	ModelName() string
}
