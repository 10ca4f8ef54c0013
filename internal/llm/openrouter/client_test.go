package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sahiljangra115/Aurora-chat/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newRequest() *ChatRequest {
	return &ChatRequest{
		Model:       "x-ai/grok-4-fast:free",
		Messages:    []llm.Message{{Role: llm.User, Content: "Hi"}},
		Temperature: 0.7,
		TopP:        0.9,
	}
}

func TestChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "localhost", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "Aurora Chat", r.Header.Get("X-Title"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "x-ai/grok-4-fast:free", body["model"])
		assert.Equal(t, 0.7, body["temperature"])
		assert.Equal(t, 0.9, body["top_p"])
		assert.Len(t, body["messages"], 1)
		assert.NotContains(t, body, "stream")

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"id": "gen-123",
			"model": "x-ai/grok-4-fast:free",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "Hello there!"},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 9, "completion_tokens": 12, "total_tokens": 21}
		}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL + "/api/v1/"}, nil)

	resp, err := client.Chat(context.Background(), newRequest(), "test-key")

	require.NoError(t, err)
	assert.Equal(t, "Hello there!", resp.Choices[0].Message.Content)
	assert.JSONEq(t, `{"prompt_tokens": 9, "completion_tokens": 12, "total_tokens": 21}`, string(resp.Usage))
}

func TestChat_CustomIdentification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://chat.example.com", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "Example", r.Header.Get("X-Title"))
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Referer: "https://chat.example.com", Title: "Example"}, nil)
	_, err := client.Chat(context.Background(), newRequest(), "key")
	require.NoError(t, err)
}

func TestChat_EmptyCredentialMakesNoCall(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, nil)
	_, err := client.Chat(context.Background(), newRequest(), "")

	require.Error(t, err)
	assert.True(t, llm.IsValidation(err))
	assert.Equal(t, "credential required for remote providers", err.Error())
	assert.Equal(t, int32(0), hits.Load())
}

func TestChat_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "gen-1", "choices": []}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, nil)
	resp, err := client.Chat(context.Background(), newRequest(), "key")

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, llm.IsTransport(err))
	assert.Equal(t, "no choices returned", err.Error())
}

func TestChat_ErrorInsideSuccess(t *testing.T) {
	for _, body := range []string{
		`{"error": {"message": "Provider returned error", "code": 502}}`,
		`{"choices": [], "error": {"message": "Rate limit exceeded"}}`,
	} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		core, logs := observer.New(zap.ErrorLevel)
		client := New(Config{BaseURL: server.URL}, zap.New(core))
		_, err := client.Chat(context.Background(), newRequest(), "key")
		server.Close()

		require.Error(t, err, body)
		assert.True(t, llm.IsTransport(err), body)
		assert.Equal(t, "no choices returned", err.Error(), body)

		entries := logs.FilterField(zap.String("model", newRequest().Model)).All()
		require.Len(t, entries, 1, body)
		assert.NotEmpty(t, entries[0].ContextMap()["upstream_error"], body)
	}
}

func TestChat_ChoiceWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"index": 0}]}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, nil)
	_, err := client.Chat(context.Background(), newRequest(), "key")

	require.Error(t, err)
	assert.True(t, llm.IsTransport(err))
}

func TestChat_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"structured error", http.StatusUnauthorized, `{"error": {"message": "No auth credentials found", "code": 401}}`, "No auth credentials found"},
		{"string error", http.StatusBadRequest, `{"error": "temperature out of range"}`, "temperature out of range"},
		{"json without error", http.StatusInternalServerError, `{"status": "down"}`, "OpenRouter request failed"},
		{"raw text", http.StatusBadGateway, `upstream connect error`, "upstream connect error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New(Config{BaseURL: server.URL}, nil)
			_, err := client.Chat(context.Background(), newRequest(), "key")

			require.Error(t, err)
			assert.True(t, llm.IsTransport(err))
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestChat_InvalidSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, nil)
	_, err := client.Chat(context.Background(), newRequest(), "key")

	require.Error(t, err)
	assert.True(t, llm.IsTransport(err))
	assert.Equal(t, "OpenRouter returned an invalid response", err.Error())
}

func TestChat_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := New(Config{BaseURL: server.URL}, nil)
	client.client.Timeout = 20 * time.Millisecond

	_, err := client.Chat(context.Background(), newRequest(), "key")

	require.Error(t, err)
	assert.True(t, llm.IsTransport(err))
	assert.Equal(t, "OpenRouter request timed out", err.Error())
}

func TestNew_Defaults(t *testing.T) {
	client := New(Config{}, nil)
	assert.Equal(t, DefaultBaseURL, client.config.BaseURL)
	assert.Equal(t, DefaultReferer, client.config.Referer)
	assert.Equal(t, DefaultTitle, client.config.Title)
	assert.Equal(t, 60*time.Second, client.client.Timeout)
}

func TestChat_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(Config{BaseURL: url}, nil)
	_, err := client.Chat(context.Background(), newRequest(), "key")

	require.Error(t, err)
	assert.True(t, llm.IsTransport(err))
	assert.Equal(t, "Unable to reach OpenRouter", err.Error())
}
