package gemini

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/Rrens/smartchat/internal/config"
	"github.com/Rrens/smartchat/internal/llm"
)

func TestProvider_Defaults(t *testing.T) {
	p := NewProvider(config.GeminiConfig{})
	assert.Equal(t, "gemini", p.Name())
	assert.Equal(t, "gemini-2.5-flash", p.DefaultModel())
	assert.False(t, p.IsConfigured())

	_, err := p.Complete(context.Background(), llm.Request{Message: "Hello"}, "")
	assert.Error(t, err)
}

func TestUpstreamError(t *testing.T) {
	err := upstreamError(&googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota exceeded"})
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.Equal(t, "quota exceeded", err.Message)

	err = upstreamError(&googleapi.Error{})
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.Equal(t, llm.DefaultUpstreamMessage, err.Message)
}
