// internal/server/handlers.go
package server

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	stderrors "orion-enrichment/internal/common/errors"
	"orion-enrichment/internal/common/validation"
	"orion-enrichment/internal/models"
)

type errorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// handleIndex is the liveness probe.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEnrich validates the posted itinerary and runs the enrichment
// pipeline. Per-place failures never surface here; by the time the
// orchestrator returns, they already live inside each EnrichedPlace.
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := requestIDFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)

	var raw interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		var maxBytesErr *http.MaxBytesError
		if goerrors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Message: "Request body too large",
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message: "Invalid request body",
			Errors:  map[string][]string{"body": {"request body must be valid JSON"}},
		})
		return
	}

	if result := validation.ValidateDocument(raw, s.schema); !result.Valid {
		stdErr, status := s.errors.HandleRequestError(requestID,
			stderrors.NewValidationFailedError(fmt.Sprintf("%d field errors", len(result.Errors))))
		writeJSON(w, status, errorResponse{
			Message: stdErr.Message,
			Errors:  result.FieldErrors(),
		})
		return
	}

	// Re-decode into the typed model. The document already passed schema
	// validation, so a failure here is a programming error, not user input.
	var itinerary models.BaseItinerary
	if err := remarshal(raw, &itinerary); err != nil {
		stdErr, status := s.errors.HandleRequestError(requestID, err)
		writeJSON(w, status, errorResponse{Message: stdErr.Message})
		return
	}

	enriched, err := s.enricher.Execute(r.Context(), &itinerary)
	if err != nil {
		stdErr, status := s.errors.HandleRequestError(requestID, err)
		writeJSON(w, status, errorResponse{Message: stdErr.Message})
		return
	}

	writeJSON(w, http.StatusOK, enriched)
}

func remarshal(raw interface{}, dst interface{}) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return stderrors.NewInternalError(err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return stderrors.NewInternalError(err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
