package routes

import (
	"teamup_server/controllers"
	"teamup_server/services"

	"github.com/gorilla/mux"
)

// RegisterParticipantRoutes sets up profile routes under /api/participants
func RegisterParticipantRoutes(r *mux.Router, participants *services.ParticipantService) {
	controller := controllers.NewParticipantController(participants)

	participantRouter := r.PathPrefix("/api/participants").Subrouter()
	participantRouter.HandleFunc("", controller.EnsureParticipant).Methods("POST")
	participantRouter.HandleFunc("/{participantId}", controller.GetParticipant).Methods("GET")
	participantRouter.HandleFunc("/{participantId}/role", controller.SelectRole).Methods("PUT")
}
