package anthropic_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/smartchat/internal/llm"
	"github.com/Rrens/smartchat/internal/llm/anthropic"
)

func TestProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "persona", body["system"])
		assert.EqualValues(t, 100, body["max_tokens"])

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Hi "},{"type":"text","text":"there!"}],"usage":{"input_tokens":3,"output_tokens":4}}`))
	}))
	defer srv.Close()

	p := anthropic.NewProvider("key", "", srv.URL, time.Second)
	resp, err := p.Complete(context.Background(), llm.Request{System: "persona", Message: "Hello", MaxTokens: 100}, "")
	require.NoError(t, err)

	assert.Equal(t, "Hi there!", resp.Text)
	assert.Equal(t, 7, resp.TokensUsed)
	assert.Equal(t, "claude-3-5-haiku-latest", resp.Model)
}

func TestProvider_CompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	p := anthropic.NewProvider("key", "", srv.URL, time.Second)
	_, err := p.Complete(context.Background(), llm.Request{Message: "Hello", MaxTokens: 10}, "")

	var upstream *llm.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnauthorized, upstream.Status)
	assert.Equal(t, "invalid x-api-key", upstream.Message)
}
