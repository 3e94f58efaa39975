package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"navigator/internal/domain"
	"navigator/internal/port"
)

// Retrying bounds every synthesis attempt with a timeout and retries
// transient failures with exponential backoff. Errors that survive all
// attempts are wrapped in domain.ErrSynthesisUnavailable, except content
// blocks and empty answers which are passed through unchanged.
type Retrying struct {
	next       port.Synthesizer
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
}

func NewRetrying(next port.Synthesizer, timeout time.Duration, maxRetries int, backoff time.Duration) *Retrying {
	return &Retrying{
		next:       next,
		timeout:    timeout,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

func (r *Retrying) Synthesize(ctx context.Context, question string, fragments []domain.Fragment) (string, error) {
	var lastErr error
	delay := r.backoff

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			slog.Warn("retrying synthesis", "component", "synth", "attempt", attempt, "delay", delay, "err", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %w", domain.ErrSynthesisUnavailable, ctx.Err())
			}
			delay *= 2
		}

		answer, err := r.attempt(ctx, question, fragments)
		if err == nil {
			return answer, nil
		}
		lastErr = err

		if !retryable(ctx, err) {
			break
		}
	}

	var blocked *domain.ContentBlockedError
	if errors.As(lastErr, &blocked) || errors.Is(lastErr, domain.ErrNoContent) || errors.Is(lastErr, domain.ErrSynthesisUnavailable) {
		return "", lastErr
	}
	return "", fmt.Errorf("%w: %w", domain.ErrSynthesisUnavailable, lastErr)
}

func (r *Retrying) attempt(ctx context.Context, question string, fragments []domain.Fragment) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.next.Synthesize(ctx, question, fragments)
}

func (r *Retrying) ModelName() string {
	return r.next.ModelName()
}

// retryable reports whether err is worth another attempt: timeouts,
// connection failures, rate limits and server errors.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var blocked *domain.ContentBlockedError
	if errors.As(err, &blocked) || errors.Is(err, domain.ErrNoContent) || errors.Is(err, domain.ErrSynthesisUnconfigured) {
		return false
	}

	if code, ok := statusCode(err); ok {
		return code == http.StatusTooManyRequests || code >= 500
	}
	return true
}

func statusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}
