// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/paper-reader/pkg/types"
)

const (
	batchIDHeader = "X-Batch-ID"
	maxBodyBytes  = 1 << 20
)

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// formResponse answers a form submission once the batch completes.
type formResponse struct {
	BatchID string `json:"batch_id"`
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// readPapers streams the batch as plain text. Once the body has started
// the status is fixed at 200; later failures are only logged.
func (s *Server) readPapers(w http.ResponseWriter, r *http.Request) {
	var req types.BatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.URLs == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "urls is required"})
		return
	}
	req.ID = uuid.NewString()

	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set(batchIDHeader, req.ID)
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	res, err := s.runner.Run(r.Context(), req, w)
	if err != nil {
		s.logger.Warn("batch stopped", "batch", req.ID, "error", err, "processed", res.Total())
	}
}

// readPapersForm takes newline-separated URLs from a form and returns the
// complete output as JSON.
func (s *Server) readPapersForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	req := types.BatchRequest{
		URLs:   splitURLs(r.FormValue("urls")),
		Prompt: r.FormValue("prompt"),
		ID:     uuid.NewString(),
	}

	out, _, err := s.runner.Collect(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrUnsupportedProvider) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, formResponse{BatchID: req.ID, Output: out, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, formResponse{BatchID: req.ID, Output: out})
}

// splitURLs splits a textarea value into trimmed, non-blank lines.
func splitURLs(s string) []string {
	urls := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}
	return urls
}
