package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"navigator/config"
	"navigator/internal/port"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

// ComputeConfigHash computes a hash of the configuration that shapes an
// index generation. Serving with a different hash means the index was
// built with other chunking or embedding settings.
func ComputeConfigHash(cfg *config.Config) string {
	relevant := struct {
		MaxChars    int    `json:"max_chars"`
		EmbProvider string `json:"emb_provider"`
		EmbModel    string `json:"emb_model"`
		EmbDim      int    `json:"emb_dim"`
	}{
		MaxChars:    cfg.Chunk.MaxChars,
		EmbProvider: cfg.Embedding.Provider,
		EmbModel:    cfg.Embedding.Model,
		EmbDim:      cfg.Embedding.Dimension,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// CheckManifest validates a loaded generation against its own manifest.
func CheckManifest(a *port.Artifacts) error {
	m := a.Manifest
	if m.SchemaVersion != CurrentSchemaVersion {
		return fmt.Errorf("schema v%d not supported (want v%d); re-run ingest", m.SchemaVersion, CurrentSchemaVersion)
	}
	if m.Fragments != len(a.Fragments) {
		return fmt.Errorf("manifest lists %d fragments, found %d", m.Fragments, len(a.Fragments))
	}
	for i, v := range a.Vectors {
		if len(v) != m.Dimension {
			return fmt.Errorf("vector %d has dimension %d, manifest says %d", i, len(v), m.Dimension)
		}
	}
	return nil
}

// CheckModel reports whether the generation was embedded with the model
// the query side is about to use.
func CheckModel(a *port.Artifacts, model string, dimension int) error {
	if a.Manifest.Model != model {
		return fmt.Errorf("index built with model %q, serving with %q; re-run ingest", a.Manifest.Model, model)
	}
	if a.Manifest.Dimension != dimension && len(a.Vectors) > 0 {
		return fmt.Errorf("index dimension %d, embedder dimension %d", a.Manifest.Dimension, dimension)
	}
	return nil
}
