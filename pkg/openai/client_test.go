package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-survey-backend/pkg/openai"

	"github.com/stretchr/testify/assert"
)

func TestCompleteSuccess(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"A detailed profile."}}]}`))
	}))
	defer server.Close()

	client := openai.NewClient(server.URL, "test-key", "gpt-4o-mini", 500, 0.7)
	text, err := client.Complete(context.Background(), []openai.Message{
		{Role: "system", Content: "You are a helpful assistant."},
		{Role: "user", Content: "Analyze this profile."},
	})

	assert.NoError(t, err)
	assert.Equal(t, "A detailed profile.", text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.Equal(t, float64(500), gotBody["max_tokens"])
	assert.Len(t, gotBody["messages"], 2)
}

func TestCompleteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer server.Close()

	client := openai.NewClient(server.URL, "test-key", "gpt-4o-mini", 500, 0.7)
	_, err := client.Complete(context.Background(), []openai.Message{{Role: "user", Content: "hi"}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := openai.NewClient(server.URL, "test-key", "gpt-4o-mini", 500, 0.7)
	_, err := client.Complete(context.Background(), []openai.Message{{Role: "user", Content: "hi"}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
