package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"teamup_server/models"
)

// Matchmaker is the slice of the matchmaking service the controller needs
type Matchmaker interface {
	FindOrQueueMatch(ctx context.Context, participantID string) (*models.MatchmakingResult, error)
	CancelWaiting(ctx context.Context, participantID string) error
	CompleteMatch(ctx context.Context, matchID, completerID, artifactRef string) (*models.CompletionSummary, error)
	GetStatus(ctx context.Context, participantID string) (*models.StatusResponse, error)
}

// MatchmakingController handles HTTP requests for queueing, matching and
// completion
type MatchmakingController struct {
	Matchmaking Matchmaker
}

// NewMatchmakingController creates a new MatchmakingController instance
func NewMatchmakingController(matchmaking Matchmaker) *MatchmakingController {
	return &MatchmakingController{Matchmaking: matchmaking}
}

// FindOrQueue handles a participant's request to be matched
func (mc *MatchmakingController) FindOrQueue(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ParticipantID string `json:"participantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ParticipantID == "" {
		http.Error(w, "participantId is required", http.StatusBadRequest)
		return
	}

	result, err := mc.Matchmaking.FindOrQueueMatch(r.Context(), request.ParticipantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CancelWaiting removes the participant from the queue; repeat calls are fine
func (mc *MatchmakingController) CancelWaiting(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ParticipantID string `json:"participantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ParticipantID == "" {
		http.Error(w, "participantId is required", http.StatusBadRequest)
		return
	}

	if err := mc.Matchmaking.CancelWaiting(r.Context(), request.ParticipantID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Waiting cancelled"})
}

// Complete finishes a match, optionally submitting an artifact for review
func (mc *MatchmakingController) Complete(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID       string `json:"matchId"`
		ParticipantID string `json:"participantId"`
		ArtifactRef   string `json:"artifactRef,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.MatchID == "" || request.ParticipantID == "" {
		http.Error(w, "matchId and participantId are required", http.StatusBadRequest)
		return
	}

	summary, err := mc.Matchmaking.CompleteMatch(r.Context(), request.MatchID, request.ParticipantID, request.ArtifactRef)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Status returns the participant's current matchmaking snapshot
func (mc *MatchmakingController) Status(w http.ResponseWriter, r *http.Request) {
	participantID := r.URL.Query().Get("participantId")
	if participantID == "" {
		http.Error(w, "participantId is required", http.StatusBadRequest)
		return
	}

	status, err := mc.Matchmaking.GetStatus(r.Context(), participantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
