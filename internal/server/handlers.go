package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"navigator/internal/domain"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	rt := s.runtime.Current()
	if rt == nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "not_loaded"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Fragments: rt.Fragments.Len(),
		Model:     rt.Manifest.Model,
		BuiltAt:   rt.Manifest.BuiltAt.Format(time.RFC3339),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	answer, err := s.ask.Ask(r.Context(), req.Question)
	if err != nil {
		status, msg := statusFor(err)
		if status >= 500 {
			slog.Error("query failed", "component", "server", "err", err)
		}
		writeError(w, status, msg)
		return
	}

	resp := QueryResponse{
		Answer:   answer.Answer,
		Sources:  make([]SourceInfo, 0, len(answer.Sources)),
		Degraded: answer.Degraded,
		Reason:   answer.Reason,
	}
	for _, src := range answer.Sources {
		resp.Sources = append(resp.Sources, SourceInfo{
			Source:   src.Fragment.Source,
			Text:     src.Fragment.Text,
			Distance: src.Distance,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	rt, err := s.runtime.Reload()
	if err != nil {
		status, msg := statusFor(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, ReloadResponse{Success: true, Fragments: rt.Fragments.Len()})
}

// statusFor maps pipeline errors to an HTTP status and a message safe to
// show to clients.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyQuestion):
		return http.StatusBadRequest, "No question provided."
	case errors.Is(err, domain.ErrDataNotLoaded):
		return http.StatusServiceUnavailable, "Backend data not loaded. Run ingest."
	case errors.Is(err, domain.ErrModelUnavailable):
		return http.StatusServiceUnavailable, "Embedding model unavailable."
	case errors.Is(err, domain.ErrOutOfRange):
		return http.StatusInternalServerError, "Index and fragment store are out of sync. Run ingest."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
