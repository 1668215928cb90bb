package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, req chatCompletionsRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeChoice(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":    "chatcmpl-1",
		"model": "llama-3.3-70b-versatile",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
	})
}

func TestOpenAIClient_GenerateContent(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, req chatCompletionsRequest) {
		assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, "say hi", req.Messages[0].Content)
		}
		assert.InDelta(t, 0.7, req.Temperature, 1e-6)
		assert.InDelta(t, 0.95, req.TopP, 1e-6)
		assert.Nil(t, req.ResponseFormat)
		writeChoice(w, "Hi there!")
	})

	config := DefaultGroqConfig()
	config.BaseURL = srv.URL
	client, err := NewOpenAIClient(config, "test-key")
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	out, err := client.GenerateContent(context.Background(), "say hi", TierLite)
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", out)
}

func TestOpenAIClient_GenerateJSON(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, req chatCompletionsRequest) {
		if assert.NotNil(t, req.ResponseFormat) {
			assert.Equal(t, "json_object", req.ResponseFormat.Type)
		}
		writeChoice(w, `{"response": "ok"}`)
	})

	config := DefaultGroqConfig()
	config.BaseURL = srv.URL + "/"
	client, err := NewOpenAIClient(config, "test-key")
	require.NoError(t, err)

	out, err := client.GenerateJSON(context.Background(), "json please", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, `{"response": "ok"}`, out)
}

func TestOpenAIClient_HTTPError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ chatCompletionsRequest) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": "overloaded"}`))
	})

	config := DefaultGroqConfig()
	config.BaseURL = srv.URL
	client, err := NewOpenAIClient(config, "test-key")
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), "hi", TierLite)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.True(t, apiErr.Retryable())
	assert.Contains(t, apiErr.Body, "overloaded")
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ chatCompletionsRequest) {
		_, _ = w.Write([]byte(`{"id": "x", "choices": []}`))
	})

	config := DefaultGroqConfig()
	config.BaseURL = srv.URL
	client, err := NewOpenAIClient(config, "test-key")
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), "hi", TierLite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(DefaultGroqConfig(), "")
	require.Error(t, err)
}

func TestNewClient_Providers(t *testing.T) {
	client, err := NewClient(context.Background(), DefaultOpenRouterConfig(), "test-key")
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, client)
	assert.Equal(t, "meta-llama/llama-3.3-70b-instruct", client.GetModel(TierStandard))

	_, err = NewClient(context.Background(), &Config{Provider: "anthropic"}, "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}
