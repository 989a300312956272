package cohere

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wikisearch/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateClient_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/generate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "command", req.Model)
		assert.Equal(t, 512, req.MaxTokens)
		assert.InDelta(t, 0.25, req.Temperature, 1e-9)
		assert.Equal(t, 1, req.NumGenerations)
		assert.Contains(t, req.Prompt, "the question")

		resp := GenerateResponse{
			Generations: []Generation{
				{Text: "The answer, grounded in the context."},
				{Text: "a second candidate that must be ignored"},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewGenerateClient(server.URL, "test-key", 60*time.Second, testLogger())

	text, err := client.Generate(context.Background(), "context...\nQuestion: the question", domain.GenerationOptions{
		Model:       "command",
		Temperature: 0.25,
		MaxTokens:   512,
	})
	require.NoError(t, err)
	assert.Equal(t, "The answer, grounded in the context.", text)
}

func TestGenerateClient_Generate_EmptyGenerations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"generations":[]}`))
	}))
	defer server.Close()

	client := NewGenerateClient(server.URL, "test-key", 60*time.Second, testLogger())

	_, err := client.Generate(context.Background(), "prompt", domain.GenerationOptions{Model: "command", MaxTokens: 512})
	require.Error(t, err)

	var genErr *domain.GenerationError
	assert.ErrorAs(t, err, &genErr)
	assert.Contains(t, err.Error(), "no generations")
}

func TestGenerateClient_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := NewGenerateClient(server.URL, "test-key", 60*time.Second, testLogger())

	_, err := client.Generate(context.Background(), "prompt", domain.GenerationOptions{Model: "command", MaxTokens: 512})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestGenerateClient_Generate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewGenerateClient(server.URL, "test-key", 10*time.Millisecond, testLogger())

	_, err := client.Generate(context.Background(), "prompt", domain.GenerationOptions{Model: "command", MaxTokens: 512})
	assert.Error(t, err)
}
