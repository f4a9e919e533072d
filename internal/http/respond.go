package http

import (
	"encoding/json"
	"net/http"

	"cashbook/internal/core"
	"cashbook/internal/log"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", log.FieldError, err)
	}
}

// writeError maps the ledger error taxonomy onto HTTP status codes. Anything
// outside the taxonomy is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsValidation(err):
		status = http.StatusBadRequest
	case core.IsNotFound(err):
		status = http.StatusNotFound
	case core.IsInvalidState(err):
		status = http.StatusConflict
	case core.IsIO(err):
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", log.FieldError, err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return core.Invalid("body", "malformed JSON payload")
	}
	return nil
}
