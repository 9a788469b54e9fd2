package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/smartchat/internal/llm"
	"github.com/Rrens/smartchat/internal/llm/openai"
)

func TestProvider_Complete(t *testing.T) {
	var got struct {
		Model     string        `json:"model"`
		Messages  []llm.Message `json:"messages"`
		MaxTokens int           `json:"max_tokens"`
	}
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Hi there!"}}],"usage":{"total_tokens":7}}`))
	}))
	defer srv.Close()

	p := openai.NewOpenRouter("sk-test", "deepseek/deepseek-chat", openai.WithBaseURL(srv.URL))
	resp, err := p.Complete(context.Background(), llm.Request{
		System:    "persona",
		Message:   "Hello",
		MaxTokens: 2400,
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "Hi there!", resp.Text)
	assert.Equal(t, 7, resp.TokensUsed)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "deepseek/deepseek-chat", got.Model)
	assert.Equal(t, 2400, got.MaxTokens)
	assert.Equal(t, []llm.Message{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "Hello"},
	}, got.Messages)
}

func TestProvider_CompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := openai.NewOpenRouter("sk-test", "", openai.WithBaseURL(srv.URL))
	resp, err := p.Complete(context.Background(), llm.Request{Message: "Hello"}, "")
	require.NoError(t, err)
	assert.Empty(t, resp.Text)
}

func TestProvider_CompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	p := openai.NewOpenRouter("sk-test", "", openai.WithBaseURL(srv.URL))
	_, err := p.Complete(context.Background(), llm.Request{Message: "Hello"}, "")

	var upstream *llm.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.Status)
	assert.Equal(t, "rate limited", upstream.Message)
}

func TestProvider_Defaults(t *testing.T) {
	p := openai.NewProvider("deepseek", "", "", openai.DeepSeekBaseURL)
	assert.Equal(t, "deepseek", p.Name())
	assert.Equal(t, "deepseek-chat", p.DefaultModel())
	assert.False(t, p.IsConfigured())
}
