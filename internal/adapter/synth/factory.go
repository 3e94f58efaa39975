package synth

import (
	"context"
	"fmt"
	"os"

	"navigator/config"
	"navigator/internal/domain"
	"navigator/internal/port"
)

// New builds the configured synthesizer wrapped in retry and timeout
// handling. A missing API key is not an error here: the returned
// synthesizer fails every call with domain.ErrSynthesisUnconfigured, so
// retrieval keeps working and answers degrade.
func New(cfg config.SynthConfig) (port.Synthesizer, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)

	var next port.Synthesizer
	switch cfg.Provider {
	case "gemini":
		if apiKey == "" {
			next = unconfigured{model: cfg.Model}
		} else {
			next = NewGeminiSynthesizer(apiKey, cfg.Model, cfg.BaseURL, nil)
		}
	case "openai":
		if apiKey == "" {
			next = unconfigured{model: cfg.Model}
		} else {
			next = NewOpenAISynthesizer(apiKey, cfg.Model, cfg.BaseURL)
		}
	default:
		return nil, fmt.Errorf("unsupported synth provider: %s", cfg.Provider)
	}

	return NewRetrying(next, cfg.Timeout, cfg.MaxRetries, cfg.Backoff), nil
}

type unconfigured struct {
	model string
}

func (u unconfigured) Synthesize(context.Context, string, []domain.Fragment) (string, error) {
	return "", domain.ErrSynthesisUnconfigured
}

func (u unconfigured) ModelName() string {
	return u.model
}
