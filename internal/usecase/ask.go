package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"navigator/internal/adapter/index"
	"navigator/internal/domain"
	"navigator/internal/port"
)

// Degraded answers returned in place of a synthesized one.
const (
	AnswerSynthesisError = "There was an error communicating with the generative AI model."
	AnswerNoContent      = "The model could not generate an answer based on the provided context."
	AnswerUnconfigured   = "Error: the generative model API key has not been configured."
	answerBlockedPrefix  = "Content blocked by the API. Reason: "
)

// AskUseCase answers one question: validate, embed, search, resolve,
// synthesize, assemble.
type AskUseCase struct {
	runtime  *RuntimeHolder
	embedder port.Embedder
	synth    port.Synthesizer
	topK     int
}

// NewAskUseCase creates a new ask use case. topK <= 0 uses index.DefaultK.
func NewAskUseCase(runtime *RuntimeHolder, embedder port.Embedder, synth port.Synthesizer, topK int) *AskUseCase {
	if topK <= 0 {
		topK = index.DefaultK
	}
	return &AskUseCase{
		runtime:  runtime,
		embedder: embedder,
		synth:    synth,
		topK:     topK,
	}
}

// Ask answers question with the configured number of fragments.
func (u *AskUseCase) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	return u.AskK(ctx, question, u.topK)
}

// AskK answers question using the k nearest fragments. Retrieval errors
// abort the request; synthesis errors produce a degraded answer that
// still carries the sources.
func (u *AskUseCase) AskK(ctx context.Context, question string, k int) (*domain.Answer, error) {
	question = strings.TrimSpace(question)

	sources, err := u.Retrieve(ctx, question, k)
	if err != nil {
		return nil, err
	}

	fragments := make([]domain.Fragment, len(sources))
	for i, s := range sources {
		fragments[i] = s.Fragment
	}

	answer := &domain.Answer{
		Question: question,
		Sources:  sources,
	}

	if u.synth == nil {
		u.degrade(answer, domain.ErrSynthesisUnconfigured)
		return answer, nil
	}

	text, err := u.synth.Synthesize(ctx, question, fragments)
	if err != nil {
		u.degrade(answer, err)
		return answer, nil
	}
	answer.Answer = text
	return answer, nil
}

// Retrieve returns the k fragments nearest to question, most relevant
// first, without calling the synthesizer.
func (u *AskUseCase) Retrieve(ctx context.Context, question string, k int) ([]domain.ScoredFragment, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if k <= 0 {
		k = u.topK
	}

	// One snapshot per request; a concurrent reload does not affect it.
	rt := u.runtime.Current()
	if rt == nil {
		return nil, domain.ErrDataNotLoaded
	}

	vectors, err := u.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, domain.NewOpError("embed", err)
	}
	if len(vectors) != 1 {
		return nil, domain.NewOpError("embed", fmt.Errorf("expected 1 query vector, got %d", len(vectors)))
	}

	hits, err := rt.Index.Search(vectors[0], k)
	if err != nil {
		return nil, domain.NewOpError("search", err)
	}

	sources := make([]domain.ScoredFragment, 0, len(hits))
	for _, hit := range hits {
		frag, err := rt.Fragments.Resolve(hit.Position)
		if err != nil {
			return nil, domain.NewOpError("resolve", err)
		}
		if hit.Position >= len(rt.IDs) || rt.IDs[hit.Position] != frag.ID {
			return nil, domain.NewOpError("resolve",
				fmt.Errorf("%w: position %d is bound to another fragment", domain.ErrOutOfRange, hit.Position))
		}
		sources = append(sources, domain.ScoredFragment{Fragment: frag, Distance: hit.Distance})
	}

	return sources, nil
}

func (u *AskUseCase) degrade(answer *domain.Answer, err error) {
	answer.Degraded = true
	answer.Reason = domain.ReasonSynthesisUnavailable

	var blocked *domain.ContentBlockedError
	switch {
	case errors.As(err, &blocked):
		answer.Answer = answerBlockedPrefix + blocked.Reason
		answer.Reason = domain.ReasonContentBlocked
	case errors.Is(err, domain.ErrSynthesisUnconfigured):
		answer.Answer = AnswerUnconfigured
	case errors.Is(err, domain.ErrNoContent):
		answer.Answer = AnswerNoContent
	default:
		answer.Answer = AnswerSynthesisError
	}

	slog.Warn("synthesis degraded", "component", "ask", "reason", answer.Reason, "sources", len(answer.Sources), "err", err)
}
