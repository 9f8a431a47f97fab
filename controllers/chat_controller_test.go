package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseMessageLimit(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", defaultMessageLimit},
		{"7", 7},
		{"100", 100},
		{"0", defaultMessageLimit},
		{"-3", defaultMessageLimit},
		{"abc", defaultMessageLimit},
		{"101", maxMessageLimit},
		{"2147483648", maxMessageLimit},
		{"999999999999999999999", defaultMessageLimit},
	}
	for _, tc := range cases {
		if got := parseMessageLimit(tc.raw); got != tc.want {
			t.Errorf("parseMessageLimit(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestGetMessagesRequiresConversationID(t *testing.T) {
	controller := NewChatController(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil)
	w := httptest.NewRecorder()
	controller.GetMessages(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing conversationId, got %d", w.Code)
	}
}
