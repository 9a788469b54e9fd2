package llm_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rrens/smartchat/internal/llm"
)

func TestBuildMessages(t *testing.T) {
	msgs := llm.BuildMessages(llm.Request{System: "be nice", Message: "Hello"})

	assert.Equal(t, []llm.Message{
		{Role: "system", Content: "be nice"},
		{Role: "user", Content: "Hello"},
	}, msgs)
}

func TestNewUpstreamError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"nested message", `{"error":{"message":"rate limited"}}`, "rate limited"},
		{"flat message", `{"error":"model not found"}`, "model not found"},
		{"empty nested", `{"error":{}}`, llm.DefaultUpstreamMessage},
		{"no error field", `{"detail":"x"}`, llm.DefaultUpstreamMessage},
		{"not json", `<html>bad gateway</html>`, llm.DefaultUpstreamMessage},
		{"empty body", ``, llm.DefaultUpstreamMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := llm.NewUpstreamError("openrouter", http.StatusTooManyRequests, []byte(tt.body))
			assert.Equal(t, http.StatusTooManyRequests, err.Status)
			assert.Equal(t, tt.want, err.Message)
			assert.Contains(t, err.Error(), "openrouter returned status 429")
		})
	}
}
