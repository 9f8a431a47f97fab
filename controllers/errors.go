package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"teamup_server/services"
)

// statusForError maps the lifecycle error taxonomy onto HTTP status codes.
// Each precondition failure keeps its own code so clients can distinguish
// them; anything unrecognized is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrRoleNotSelected),
		errors.Is(err, services.ErrMatchNotActive):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, services.ErrParticipantNotFound),
		errors.Is(err, services.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrActiveMatchConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusForError(err))
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
