package controllers

import (
	"encoding/json"
	"net/http"

	"teamup_server/services"

	"github.com/gorilla/mux"
)

// ParticipantController handles profile creation and role selection
type ParticipantController struct {
	Participants *services.ParticipantService
}

// NewParticipantController creates a new ParticipantController instance
func NewParticipantController(participants *services.ParticipantService) *ParticipantController {
	return &ParticipantController{Participants: participants}
}

// EnsureParticipant registers an external identity on first sighting
func (pc *ParticipantController) EnsureParticipant(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ParticipantID string `json:"participantId"`
		DisplayName   string `json:"displayName,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ParticipantID == "" {
		http.Error(w, "participantId is required", http.StatusBadRequest)
		return
	}

	participant, err := pc.Participants.EnsureParticipant(r.Context(), request.ParticipantID, request.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, participant)
}

// GetParticipant fetches one participant profile
func (pc *ParticipantController) GetParticipant(w http.ResponseWriter, r *http.Request) {
	participantID := mux.Vars(r)["participantId"]

	participant, err := pc.Participants.GetParticipant(r.Context(), participantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, participant)
}

// SelectRole sets the participant's role, the precondition for matching
func (pc *ParticipantController) SelectRole(w http.ResponseWriter, r *http.Request) {
	participantID := mux.Vars(r)["participantId"]

	var request struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Role == "" {
		http.Error(w, "role is required", http.StatusBadRequest)
		return
	}

	if err := pc.Participants.SelectRole(r.Context(), participantID, request.Role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Role updated", "role": request.Role})
}
