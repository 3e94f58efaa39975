package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"navigator/config"
	"navigator/internal/adapter/index"
	"navigator/internal/adapter/store"
	"navigator/internal/domain"
	"navigator/internal/port"
)

// fragmentNamespace scopes fragment IDs so they never collide with other
// name-based UUIDs.
var fragmentNamespace = uuid.MustParse("6f1c1a52-3d0e-4c55-9b6a-2a4f0d7e8c31")

// IngestUseCase rebuilds the index generation of a corpus from scratch.
type IngestUseCase struct {
	walker     port.FileWalker
	loader     port.DocumentLoader
	chunker    port.Chunker
	embedder   port.Embedder
	store      port.ArtifactStore
	batchSize  int
	configHash string
}

// NewIngestUseCase creates a new ingest use case.
func NewIngestUseCase(
	walker port.FileWalker,
	loader port.DocumentLoader,
	chunker port.Chunker,
	embedder port.Embedder,
	store port.ArtifactStore,
	batchSize int,
	configHash string,
) *IngestUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &IngestUseCase{
		walker:     walker,
		loader:     loader,
		chunker:    chunker,
		embedder:   embedder,
		store:      store,
		batchSize:  batchSize,
		configHash: configHash,
	}
}

// IngestResult contains the results of an ingestion run.
type IngestResult struct {
	Path             string
	FilesFound       int
	DocumentsLoaded  int
	DocumentsSkipped int
	FragmentsCreated int
	Dimension        int
	Model            string
	Duration         time.Duration
	Errors           []string
}

// ProgressFunc is called after each embedding batch with the number of
// fragments embedded so far.
type ProgressFunc func(done, total int)

// Ingest walks root, loads and chunks every document, embeds all
// fragments and persists the new generation under root/.navigator.
// Documents that fail to load are recorded in the result and skipped.
func (u *IngestUseCase) Ingest(ctx context.Context, root string, progress ProgressFunc) (*IngestResult, error) {
	start := time.Now()
	result := &IngestResult{
		Path:  config.IndexDBPath(root),
		Model: u.embedder.ModelName(),
	}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, domain.NewOpError("walk", err)
	}
	result.FilesFound = len(files)

	var fragments []domain.Fragment
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := u.loader.Load(ctx, file)
		if err != nil {
			slog.Warn("skipping document", "component", "ingest", "source", file.RelPath, "err", err)
			result.Errors = append(result.Errors, fmt.Sprintf("failed to load %s: %v", file.RelPath, err))
			result.DocumentsSkipped++
			continue
		}

		pieces := u.chunker.Chunk(doc.Text)
		for i, text := range pieces {
			fragments = append(fragments, domain.Fragment{
				ID:     FragmentID(doc.Source, i, text),
				Source: doc.Source,
				Text:   text,
			})
		}
		result.DocumentsLoaded++
		slog.Debug("loaded document", "component", "ingest", "source", doc.Source, "fragments", len(pieces))
	}

	if len(fragments) == 0 {
		return nil, domain.ErrNoDocuments
	}

	vectors, err := u.embedAll(ctx, fragments, progress)
	if err != nil {
		return nil, domain.NewOpError("embed", err)
	}

	idx, err := index.Build(vectors)
	if err != nil {
		return nil, domain.NewOpError("build index", err)
	}

	ids := make([]string, len(fragments))
	for i, f := range fragments {
		ids[i] = f.ID
	}

	artifacts := &port.Artifacts{
		Manifest: domain.Manifest{
			SchemaVersion: store.CurrentSchemaVersion,
			Model:         u.embedder.ModelName(),
			Dimension:     idx.Dimension(),
			Fragments:     len(fragments),
			Documents:     result.DocumentsLoaded,
			ConfigHash:    u.configHash,
			BuiltAt:       time.Now().UTC(),
		},
		Vectors:   idx.Vectors(),
		IDs:       ids,
		Fragments: fragments,
	}

	if err := config.EnsureDataDir(root); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := u.store.Save(result.Path, artifacts); err != nil {
		return nil, domain.NewOpError("persist", err)
	}

	result.FragmentsCreated = len(fragments)
	result.Dimension = idx.Dimension()
	result.Duration = time.Since(start)

	slog.Info("ingestion complete", "component", "ingest",
		"documents", result.DocumentsLoaded, "fragments", result.FragmentsCreated,
		"model", result.Model, "duration", result.Duration)

	return result, nil
}

func (u *IngestUseCase) embedAll(ctx context.Context, fragments []domain.Fragment, progress ProgressFunc) ([][]float32, error) {
	vectors := make([][]float32, 0, len(fragments))
	for i := 0; i < len(fragments); i += u.batchSize {
		end := i + u.batchSize
		if end > len(fragments) {
			end = len(fragments)
		}

		texts := make([]string, 0, end-i)
		for _, f := range fragments[i:end] {
			texts = append(texts, f.Text)
		}

		batch, err := u.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d fragments", len(batch), len(texts))
		}
		vectors = append(vectors, batch...)

		if progress != nil {
			progress(len(vectors), len(fragments))
		}
	}
	return vectors, nil
}

// FragmentID derives the content-addressed ID of the ordinal-th fragment
// of a document.
func FragmentID(source string, ordinal int, text string) string {
	name := source + "\x00" + strconv.Itoa(ordinal) + "\x00" + text
	return uuid.NewSHA1(fragmentNamespace, []byte(name)).String()
}
