package routes

import (
	"teamup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterMatchmakingRoutes sets up routes for queueing, matching and
// completion under /api/matchmaking
func RegisterMatchmakingRoutes(r *mux.Router, matchmaking controllers.Matchmaker) {
	controller := controllers.NewMatchmakingController(matchmaking)

	matchmakingRouter := r.PathPrefix("/api/matchmaking").Subrouter()
	matchmakingRouter.HandleFunc("/find", controller.FindOrQueue).Methods("POST")
	matchmakingRouter.HandleFunc("/cancel", controller.CancelWaiting).Methods("POST")
	matchmakingRouter.HandleFunc("/complete", controller.Complete).Methods("POST")
	matchmakingRouter.HandleFunc("/status", controller.Status).Methods("GET")
}
