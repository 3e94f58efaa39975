package server

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Question string `json:"question"`
}

// SourceInfo is one fragment used to answer a question.
type SourceInfo struct {
	Source   string  `json:"source"`
	Text     string  `json:"text"`
	Distance float32 `json:"distance"`
}

// QueryResponse is the answer plus the fragments it was built from,
// most relevant first.
type QueryResponse struct {
	Answer   string       `json:"answer"`
	Sources  []SourceInfo `json:"sources"`
	Degraded bool         `json:"degraded"`
	Reason   string       `json:"reason,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Fragments int    `json:"fragments"`
	Model     string `json:"model,omitempty"`
	BuiltAt   string `json:"built_at,omitempty"`
}

type ReloadResponse struct {
	Success   bool `json:"success"`
	Fragments int  `json:"fragments"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
