package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/paz-dev-com/catalog-backend/internal/mediator"
)

type errorResponse struct {
	Error     string               `json:"error"`
	RequestID string               `json:"requestId,omitempty"`
	Fields    mediator.FieldErrors `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeFailure maps a handler failure onto HTTP: validation failures carry
// the field map under 400, domain failures are classified by message.
func writeFailure(w http.ResponseWriter, message string, fields mediator.FieldErrors) {
	if fields != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: message, Fields: fields})
		return
	}
	writeError(w, failureStatus(message), message)
}

// failureStatus picks the status for a domain failure message. The catalog
// handlers phrase absence as "not found" and uniqueness conflicts as
// "already exists"; every other failure is a plain bad request.
func failureStatus(message string) int {
	switch {
	case strings.Contains(message, "not found"):
		return http.StatusNotFound
	case strings.Contains(message, "already exists"):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// pathID parses the {id} segment of the matched route. On a malformed value
// it writes the 400 itself and reports false.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
