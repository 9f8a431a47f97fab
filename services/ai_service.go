package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrRateLimited marks a generative-text call rejected for rate limiting.
// It is the only failure the retry policy retries.
var ErrRateLimited = errors.New("rate limited by completion endpoint")

// CompletionClient sends one prompt to a generative-text endpoint and returns
// the raw content string of the first choice.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RetryPolicy is an explicit attempt-counted retry with exponential backoff:
// delay = BaseDelay * 2^attempt. Kept separate from the call site so the
// schedule is testable on its own.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy: 3 attempts total, 1s then 2s between them
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}

// ShouldRetry reports whether another attempt is allowed after the given
// zero-based attempt failed with err.
func (rp RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if attempt+1 >= rp.MaxAttempts {
		return false
	}
	return errors.Is(err, ErrRateLimited)
}

// Delay returns the backoff before retrying after the given zero-based attempt
func (rp RetryPolicy) Delay(attempt int) time.Duration {
	delay := rp.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

// OpenAIService calls an OpenAI-style chat-completions endpoint with a single
// system message and a JSON-object response format hint.
type OpenAIService struct {
	HTTPClient *http.Client
	APIKey     string
	Model      string
	BaseURL    string
	Retry      RetryPolicy
	Sleep      func(time.Duration)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (ai *OpenAIService) httpClient() *http.Client {
	if ai.HTTPClient != nil {
		return ai.HTTPClient
	}
	return http.DefaultClient
}

func (ai *OpenAIService) baseURL() string {
	if ai.BaseURL != "" {
		return ai.BaseURL
	}
	return "https://api.openai.com/v1"
}

func (ai *OpenAIService) retry() RetryPolicy {
	if ai.Retry.MaxAttempts > 0 {
		return ai.Retry
	}
	return DefaultRetryPolicy
}

func (ai *OpenAIService) sleep(d time.Duration) {
	if ai.Sleep != nil {
		ai.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Complete sends the prompt, retrying per the policy on rate limiting only
func (ai *OpenAIService) Complete(ctx context.Context, prompt string) (string, error) {
	policy := ai.retry()
	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		content, err := ai.completeOnce(ctx, prompt)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !policy.ShouldRetry(err, attempt) {
			break
		}
		ai.sleep(policy.Delay(attempt))
	}
	return "", lastErr
}

func (ai *OpenAIService) completeOnce(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model:    ai.Model,
		Messages: []chatMessage{{Role: "system", Content: prompt}},
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ai.baseURL()+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if ai.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+ai.APIKey)
	}

	resp, err := ai.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("completion response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
