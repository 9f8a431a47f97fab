package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRetryPolicySchedule(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}

	wantDelays := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for attempt, want := range wantDelays {
		if got := policy.Delay(attempt); got != want {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, want)
		}
	}

	if !policy.ShouldRetry(ErrRateLimited, 0) {
		t.Error("expected retry on rate limit at attempt 0")
	}
	if policy.ShouldRetry(ErrRateLimited, 2) {
		t.Error("expected no retry once attempts are exhausted")
	}
	if policy.ShouldRetry(errors.New("server exploded"), 0) {
		t.Error("expected no retry on non-rate-limit failures")
	}
}

func completionResponse(content string) string {
	payload := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

func TestCompleteRetriesOnRateLimit(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse(`{"score": 75}`)))
	}))
	defer server.Close()

	var slept []time.Duration
	ai := &OpenAIService{
		BaseURL: server.URL,
		Model:   "test-model",
		Sleep:   func(d time.Duration) { slept = append(slept, d) },
	}

	content, err := ai.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if content != `{"score": 75}` {
		t.Errorf("unexpected content %q", content)
	}
	if requests != 3 {
		t.Errorf("expected 3 attempts, got %d", requests)
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Errorf("unexpected backoff schedule %v", slept)
	}
}

func TestCompleteGivesUpAfterMaxAttempts(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ai := &OpenAIService{
		BaseURL: server.URL,
		Model:   "test-model",
		Sleep:   func(time.Duration) {},
	}

	if _, err := ai.Complete(context.Background(), "prompt"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited after exhausting retries, got %v", err)
	}
	if requests != 3 {
		t.Errorf("expected 3 attempts, got %d", requests)
	}
}

func TestCompleteDoesNotRetryOtherFailures(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ai := &OpenAIService{
		BaseURL: server.URL,
		Model:   "test-model",
		Sleep:   func(time.Duration) {},
	}

	if _, err := ai.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error on server failure")
	}
	if requests != 1 {
		t.Errorf("expected a single attempt, got %d", requests)
	}
}

func TestCompleteRequestShape(t *testing.T) {
	var captured chatCompletionRequest
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse("ok")))
	}))
	defer server.Close()

	ai := &OpenAIService{
		BaseURL: server.URL,
		APIKey:  "secret-key",
		Model:   "test-model",
	}

	if _, err := ai.Complete(context.Background(), "the prompt"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if authHeader != "Bearer secret-key" {
		t.Errorf("unexpected Authorization header %q", authHeader)
	}
	if captured.Model != "test-model" {
		t.Errorf("unexpected model %q", captured.Model)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "system" || captured.Messages[0].Content != "the prompt" {
		t.Errorf("unexpected messages %+v", captured.Messages)
	}
	if captured.ResponseFormat.Type != "json_object" {
		t.Errorf("expected json_object response format, got %q", captured.ResponseFormat.Type)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	ai := &OpenAIService{BaseURL: server.URL, Model: "test-model"}
	if _, err := ai.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}
