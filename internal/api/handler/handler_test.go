package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/smartchat/internal/api/handler"
	"github.com/Rrens/smartchat/internal/llm"
)

type replierFunc func(ctx context.Context, message string) (string, error)

func (f replierFunc) Reply(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

func postChat(t *testing.T, h *handler.ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func TestChatHandler_Reply(t *testing.T) {
	var got string
	h := handler.NewChatHandler(replierFunc(func(ctx context.Context, message string) (string, error) {
		got = message
		return "Hi there!", nil
	}))

	rec := postChat(t, h, `{"message":"Hello"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"reply":"Hi there!"}`, rec.Body.String())
	assert.Equal(t, "Hello", got)
}

func TestChatHandler_MessageRequired(t *testing.T) {
	called := false
	h := handler.NewChatHandler(replierFunc(func(ctx context.Context, message string) (string, error) {
		called = true
		return "", nil
	}))

	tests := []struct {
		name string
		body string
	}{
		{"empty string", `{"message":""}`},
		{"whitespace", `{"message":"   \n\t"}`},
		{"missing field", `{}`},
		{"null", `{"message":null}`},
		{"object", `{"message":{"text":"hi"}}`},
		{"array", `{"message":["hi"]}`},
		{"not json", `hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"message":"Message is required"}`, rec.Body.String())
		})
	}
	assert.False(t, called, "upstream must not be contacted for blank input")
}

func TestChatHandler_ScalarMessagesAreText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"integer", `{"message":5}`, "5"},
		{"float", `{"message":-2.5}`, "-2.5"},
		{"boolean", `{"message":true}`, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := handler.NewChatHandler(replierFunc(func(ctx context.Context, message string) (string, error) {
				got = message
				return "ok", nil
			}))

			rec := postChat(t, h, tt.body)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChatHandler_BodyTooLarge(t *testing.T) {
	called := false
	h := handler.NewChatHandler(replierFunc(func(ctx context.Context, message string) (string, error) {
		called = true
		return "ok", nil
	}))

	body := `{"message":"` + strings.Repeat("a", handler.MaxBodyBytes) + `"}`
	rec := postChat(t, h, body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"message":"Message is too large"}`, rec.Body.String())
	assert.False(t, called)
}

func TestChatHandler_UpstreamStatusRelayed(t *testing.T) {
	h := handler.NewChatHandler(replierFunc(func(ctx context.Context, message string) (string, error) {
		return "", fmt.Errorf("completion: %w", &llm.UpstreamError{Provider: "openrouter", Status: 429, Message: "rate limited"})
	}))

	rec := postChat(t, h, `{"message":"Hello"}`)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"message":"rate limited"}`, rec.Body.String())
}

func TestChatHandler_ServerError(t *testing.T) {
	h := handler.NewChatHandler(replierFunc(func(ctx context.Context, message string) (string, error) {
		return "", errors.New("dial tcp: connection refused")
	}))

	rec := postChat(t, h, `{"message":"Hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Server error","error":"dial tcp: connection refused"}`, rec.Body.String())
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLiveness(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.Liveness("backend up")(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "backend up", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadyCheck(t *testing.T) {
	t.Run("no dependencies", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ReadyCheck(nil)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
	})

	t.Run("redis down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		down := pingerFunc(func(ctx context.Context) error { return errors.New("refused") })
		handler.ReadyCheck(down)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
