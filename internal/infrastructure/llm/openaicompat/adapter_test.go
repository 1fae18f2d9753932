package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gurney/internal/application/port/output"
)

func fakeCompletionServer(t *testing.T, content string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestComplete(t *testing.T) {
	srv, captured := fakeCompletionServer(t, `{"action": "answer", "text": "ok"}`)

	adapter := NewAdapter(Config{
		BaseURL: srv.URL,
		Model:   "test-model",
		APIKey:  "no-key",
	})

	out, err := adapter.Complete(context.Background(), output.CompletionRequest{
		System: "system prompt",
		User:   "user prompt",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"action": "answer", "text": "ok"}`, out)

	req := *captured
	assert.Equal(t, "test-model", req["model"])

	messages, ok := req["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)

	first := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "system prompt", first["content"])

	second := messages[1].(map[string]any)
	assert.Equal(t, "user", second["role"])
	assert.Equal(t, "user prompt", second["content"])
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	}))
	t.Cleanup(srv.Close)

	adapter := NewAdapter(Config{BaseURL: srv.URL, Model: "m", APIKey: "k"})

	_, err := adapter.Complete(context.Background(), output.CompletionRequest{User: "u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestComplete_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	adapter := NewAdapter(Config{BaseURL: srv.URL, Model: "m", APIKey: "k"})

	_, err := adapter.Complete(context.Background(), output.CompletionRequest{User: "u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion failed")
}
