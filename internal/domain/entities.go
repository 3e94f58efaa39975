package domain

import "time"

// Document is one corpus file after text extraction.
type Document struct {
	Source string
	Path   string
	Text   string
}

// Fragment is a retrievable unit of document text. Fragments are never
// mutated after ingestion; a re-ingest replaces all of them.
type Fragment struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Hit is a single nearest-neighbor match: the ordinal position in the
// index and its squared L2 distance to the query.
type Hit struct {
	Position int
	Distance float32
}

type ScoredFragment struct {
	Fragment Fragment `json:"fragment"`
	Distance float32  `json:"distance"`
}

// Answer is what the query pipeline hands back to a caller.
type Answer struct {
	Question string           `json:"question"`
	Answer   string           `json:"answer"`
	Sources  []ScoredFragment `json:"sources"`
	Degraded bool             `json:"degraded"`
	Reason   string           `json:"reason,omitempty"`
}

// Degradation reasons reported in Answer.Reason.
const (
	ReasonSynthesisUnavailable = "synthesis_unavailable"
	ReasonContentBlocked       = "content_blocked"
)

// Manifest describes one persisted index generation.
type Manifest struct {
	SchemaVersion int       `json:"schema_version"`
	Model         string    `json:"model"`
	Dimension     int       `json:"dimension"`
	Fragments     int       `json:"fragments"`
	Documents     int       `json:"documents"`
	ConfigHash    string    `json:"config_hash"`
	BuiltAt       time.Time `json:"built_at"`
}
