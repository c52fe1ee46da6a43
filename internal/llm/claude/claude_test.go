package claude

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anaam-stocks/internal/store"
	"anaam-stocks/internal/types"
)

func newTestCompleter(t *testing.T, h http.HandlerFunc) *ClaudeCompleter {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := store.Defaults()
	cfg.LLM.Provider = "CLAUDE"
	cfg.Secrets.ClaudeAPIKey = "claude-key"
	cfg.LLM.BaseURL = srv.URL
	return NewClaudeCompleter(cfg)
}

func TestCompleteBuildsMessagesRequest(t *testing.T) {
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "claude-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var body messagesRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, defaultModel, body.Model)
		assert.Equal(t, "be brief", body.System)
		if !assert.Len(t, body.Messages, 1) {
			return
		}
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "analyze INFY", body.Messages[0].Content)
		assert.Equal(t, 500, body.MaxTokens)

		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant",
			"content":[{"type":"text","text":"Sideways "},{"type":"text","text":"market."}]}`))
	})

	out, err := c.Complete(context.Background(), types.CompletionRequest{
		System: "be brief", User: "analyze INFY", MaxTokens: 500, Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sideways market.", out)
}

func TestCompleteEmptyContent(t *testing.T) {
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	})

	out, err := c.Complete(context.Background(), types.CompletionRequest{User: "x", MaxTokens: 10})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCompleteMapsProviderError(t *testing.T) {
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(529)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	})

	_, err := c.Complete(context.Background(), types.CompletionRequest{User: "x", MaxTokens: 10})

	var me *types.UpstreamModelError
	require.True(t, errors.As(err, &me), "expected UpstreamModelError, got %v", err)
	assert.Equal(t, "Claude", me.Provider)
	assert.Equal(t, 529, me.Status)
	assert.Equal(t, "Overloaded", me.Message)
	assert.Equal(t, "Claude API error: Overloaded (Status: 529)", me.Error())
}

func TestCompleteNonJSONErrorUsesStatusText(t *testing.T) {
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.Complete(context.Background(), types.CompletionRequest{User: "x", MaxTokens: 10})

	var me *types.UpstreamModelError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, http.StatusText(http.StatusBadGateway), me.Message)
}
