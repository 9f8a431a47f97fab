package routes

import (
	"teamup_server/controllers"
	"teamup_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for conversation history under /api/chat
func RegisterChatRoutes(r *mux.Router, chat *services.ChatService) {
	controller := controllers.NewChatController(chat)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.HandleFunc("/message", controller.SendMessage).Methods("POST")
	chatRouter.HandleFunc("/messages", controller.GetMessages).Methods("GET")
	chatRouter.HandleFunc("/messages/mark-as-read", controller.MarkMessagesAsRead).Methods("POST")
}
