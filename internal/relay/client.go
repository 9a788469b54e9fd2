// Package relay runs one chat turn: it stores the user message, asks the
// backend proxy for a reply and drives the renderer with the outcome.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/smartchat/internal/domain"
)

const chatPath = "/api/chat"

// ProxyError is a non-success answer from the backend proxy
type ProxyError struct {
	Status  int
	Message string
}

func (e *ProxyError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("proxy returned status %d", e.Status)
	}
	return fmt.Sprintf("proxy returned status %d: %s", e.Status, e.Message)
}

// Client talks to the backend proxy
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption customises a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout bounds each chat request; zero means no limit
func WithTimeout(timeout time.Duration) ClientOption {
	return func(cl *Client) {
		cl.httpClient.Timeout = timeout
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat posts text to the proxy and returns the reply, which may be empty.
// A non-2xx answer is returned as *ProxyError.
func (c *Client) Chat(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(domain.ChatRequest{Message: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var payload struct {
		Reply   string `json:"reply"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ProxyError{Status: resp.StatusCode, Message: payload.Message}
	}

	return payload.Reply, nil
}
