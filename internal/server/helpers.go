// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mwhitfield/perfolio/internal/models"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error payload.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// statusForError maps pipeline error kinds to HTTP status codes. Invalid
// requests are the caller's fault; unresolvable data is unprocessable; all
// else is a server error.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNoPriceData), errors.Is(err, models.ErrNoTradableAssets):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
