package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"teamup_server/services"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

// ChatController handles conversation history endpoints
type ChatController struct {
	Chat *services.ChatService
}

// parseMessageLimit bounds the page size: invalid or missing values fall back
// to the default, oversized ones are capped so the query limit can't overflow.
func parseMessageLimit(raw string) int {
	if raw == "" {
		return defaultMessageLimit
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return defaultMessageLimit
	}
	if parsed > maxMessageLimit {
		return maxMessageLimit
	}
	return parsed
}

// NewChatController creates a new ChatController instance
func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{Chat: chat}
}

// SendMessage stores a message in a match conversation
func (cc *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		SenderID       string `json:"senderId"`
		Content        string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil ||
		request.ConversationID == "" || request.SenderID == "" || request.Content == "" {
		http.Error(w, "conversationId, senderId and content are required", http.StatusBadRequest)
		return
	}

	message, err := cc.Chat.SendMessage(r.Context(), request.ConversationID, request.SenderID, request.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, message)
}

// GetMessages fetches conversation history, newest first
func (cc *ChatController) GetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := r.URL.Query().Get("conversationId")
	if conversationID == "" {
		http.Error(w, "conversationId is required", http.StatusBadRequest)
		return
	}

	limit := parseMessageLimit(r.URL.Query().Get("limit"))

	messages, err := cc.Chat.GetMessages(r.Context(), conversationID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// MarkMessagesAsRead flags the reader's received messages as read
func (cc *ChatController) MarkMessagesAsRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		ReaderID       string `json:"readerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil ||
		request.ConversationID == "" || request.ReaderID == "" {
		http.Error(w, "conversationId and readerId are required", http.StatusBadRequest)
		return
	}

	if err := cc.Chat.MarkMessagesAsRead(r.Context(), request.ConversationID, request.ReaderID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}
