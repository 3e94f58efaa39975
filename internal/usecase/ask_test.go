package usecase

import (
	"context"
	"errors"
	"testing"

	"navigator/config"
	"navigator/internal/adapter/chunker"
	"navigator/internal/adapter/store"
	"navigator/internal/domain"
	"navigator/internal/port"
)

func newAsk(t *testing.T, a *port.Artifacts, synth port.Synthesizer) (*AskUseCase, *conceptEmbedder) {
	t.Helper()
	rt, err := NewRuntime(a)
	if err != nil {
		t.Fatal(err)
	}
	h := NewRuntimeHolder(nil, nil)
	h.Swap(rt)
	e := &conceptEmbedder{}
	return NewAskUseCase(h, e, synth, 5), e
}

func TestAsk_EndToEnd(t *testing.T) {
	root := t.TempDir()
	embedder := &conceptEmbedder{}
	artifacts := store.NewBoltStore()

	ingest := NewIngestUseCase(
		staticWalker{files: files("paperA.pdf")},
		mapLoader{"paperA.pdf": "Photosynthesis converts light to energy.\n\nCellular respiration releases energy."},
		chunker.NewParagraphChunker(0),
		embedder,
		artifacts,
		100,
		"",
	)
	if _, err := ingest.Ingest(context.Background(), root, nil); err != nil {
		t.Fatal(err)
	}

	holder := NewRuntimeHolder(func() (*Runtime, error) {
		return LoadRuntime(artifacts, config.IndexDBPath(root), embedder)
	}, nil)
	if _, err := holder.Reload(); err != nil {
		t.Fatal(err)
	}

	synth := &fakeSynth{answer: "Plants make energy through photosynthesis."}
	ask := NewAskUseCase(holder, embedder, synth, 5)

	answer, err := ask.Ask(context.Background(), "How do plants make energy?")
	if err != nil {
		t.Fatal(err)
	}

	if answer.Degraded {
		t.Errorf("unexpected degraded answer: %+v", answer)
	}
	if answer.Answer != synth.answer {
		t.Errorf("unexpected answer %q", answer.Answer)
	}
	if len(answer.Sources) != 2 {
		t.Fatalf("expected both fragments as sources, got %d", len(answer.Sources))
	}
	top := answer.Sources[0].Fragment
	if top.Source != "paperA.pdf" || top.Text != "Photosynthesis converts light to energy." {
		t.Errorf("unexpected top result %+v", top)
	}
	if answer.Sources[0].Distance > answer.Sources[1].Distance {
		t.Error("sources must be ordered by ascending distance")
	}
	if len(synth.got) != 2 || synth.got[0].Text != top.Text {
		t.Errorf("synthesizer should receive fragments in rank order, got %+v", synth.got)
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	synth := &fakeSynth{answer: "x"}
	ask, embedder := newAsk(t, testArtifacts("light"), synth)

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := ask.Ask(context.Background(), q); !errors.Is(err, domain.ErrEmptyQuestion) {
			t.Errorf("question %q: expected ErrEmptyQuestion, got %v", q, err)
		}
	}
	if embedder.calls.Load() != 0 {
		t.Error("empty question must never reach the embedder")
	}
	if synth.calls.Load() != 0 {
		t.Error("empty question must never reach the synthesizer")
	}
}

func TestAsk_DataNotLoaded(t *testing.T) {
	ask := NewAskUseCase(NewRuntimeHolder(nil, nil), &conceptEmbedder{}, &fakeSynth{}, 0)

	if _, err := ask.Ask(context.Background(), "anything"); !errors.Is(err, domain.ErrDataNotLoaded) {
		t.Errorf("expected ErrDataNotLoaded, got %v", err)
	}
}

func TestAsk_DegradedSynthesis(t *testing.T) {
	tests := []struct {
		name       string
		synth      port.Synthesizer
		wantAnswer string
		wantReason string
	}{
		{
			name:       "unavailable",
			synth:      &fakeSynth{err: domain.ErrSynthesisUnavailable},
			wantAnswer: AnswerSynthesisError,
			wantReason: domain.ReasonSynthesisUnavailable,
		},
		{
			name:       "network error",
			synth:      &fakeSynth{err: errors.New("connection reset")},
			wantAnswer: AnswerSynthesisError,
			wantReason: domain.ReasonSynthesisUnavailable,
		},
		{
			name:       "blocked",
			synth:      &fakeSynth{err: &domain.ContentBlockedError{Reason: "SAFETY"}},
			wantAnswer: "Content blocked by the API. Reason: SAFETY",
			wantReason: domain.ReasonContentBlocked,
		},
		{
			name:       "no content",
			synth:      &fakeSynth{err: domain.ErrNoContent},
			wantAnswer: AnswerNoContent,
			wantReason: domain.ReasonSynthesisUnavailable,
		},
		{
			name:       "unconfigured",
			synth:      &fakeSynth{err: domain.ErrSynthesisUnconfigured},
			wantAnswer: AnswerUnconfigured,
			wantReason: domain.ReasonSynthesisUnavailable,
		},
		{
			name:       "no synthesizer",
			synth:      nil,
			wantAnswer: AnswerUnconfigured,
			wantReason: domain.ReasonSynthesisUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ask, _ := newAsk(t, testArtifacts("light", "respiration"), tt.synth)

			answer, err := ask.Ask(context.Background(), "plants")
			if err != nil {
				t.Fatalf("synthesis failure must not fail the request: %v", err)
			}
			if !answer.Degraded || answer.Reason != tt.wantReason {
				t.Errorf("expected degraded %s, got %+v", tt.wantReason, answer)
			}
			if answer.Answer != tt.wantAnswer {
				t.Errorf("expected %q, got %q", tt.wantAnswer, answer.Answer)
			}
			if len(answer.Sources) != 2 {
				t.Errorf("sources must survive degraded synthesis, got %d", len(answer.Sources))
			}
		})
	}
}

func TestAsk_TopK(t *testing.T) {
	a := testArtifacts("a", "b", "c", "d", "e", "f", "g")
	ask, _ := newAsk(t, a, &fakeSynth{answer: "ok"})

	answer, err := ask.Ask(context.Background(), "light")
	if err != nil {
		t.Fatal(err)
	}
	if len(answer.Sources) != 5 {
		t.Errorf("expected default of 5 sources, got %d", len(answer.Sources))
	}

	sources, err := ask.Retrieve(context.Background(), "light", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(sources))
	}
}

func TestAsk_Desynchronized(t *testing.T) {
	a := testArtifacts("light", "respiration")
	rt, err := NewRuntime(a)
	if err != nil {
		t.Fatal(err)
	}
	rt.IDs[0], rt.IDs[1] = rt.IDs[1], rt.IDs[0]

	h := NewRuntimeHolder(nil, nil)
	h.Swap(rt)
	ask := NewAskUseCase(h, &conceptEmbedder{}, &fakeSynth{answer: "x"}, 5)

	_, err = ask.Ask(context.Background(), "light")
	if !errors.Is(err, domain.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestAsk_EmbedderFailureAborts(t *testing.T) {
	rt, err := NewRuntime(testArtifacts("light"))
	if err != nil {
		t.Fatal(err)
	}
	h := NewRuntimeHolder(nil, nil)
	h.Swap(rt)
	synth := &fakeSynth{answer: "x"}
	ask := NewAskUseCase(h, &conceptEmbedder{err: domain.ErrModelUnavailable}, synth, 5)

	if _, err := ask.Ask(context.Background(), "light"); !errors.Is(err, domain.ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
	if synth.calls.Load() != 0 {
		t.Error("retrieval failure must not reach the synthesizer")
	}
}
