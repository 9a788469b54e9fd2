// Package openai implements llm.Provider for OpenAI-compatible chat
// completions APIs. The same provider serves OpenRouter, OpenAI and DeepSeek;
// only the name, base URL and model catalogue differ.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Rrens/smartchat/internal/llm"
)

// Known OpenAI-compatible endpoints
const (
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	OpenAIBaseURL     = "https://api.openai.com/v1"
	DeepSeekBaseURL   = "https://api.deepseek.com/v1"
)

// maxErrorBody bounds how much of a failed upstream body is read
const maxErrorBody = 64 * 1024

var catalogue = map[string][]string{
	"openrouter": {
		"deepseek/deepseek-chat",
		"openai/gpt-4o-mini",
		"anthropic/claude-3.5-haiku",
		"meta-llama/llama-3-70b-instruct",
	},
	"openai": {
		"gpt-4o",
		"gpt-4o-mini",
		"gpt-4-turbo",
	},
	"deepseek": {
		"deepseek-chat",
		"deepseek-reasoner",
	},
}

// Provider implements llm.Provider for an OpenAI-compatible API
type Provider struct {
	name         string
	apiKey       string
	defaultModel string
	client       *http.Client
	baseURL      string
}

// Option customises a Provider
type Option func(*Provider)

// WithBaseURL points the provider at another endpoint
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		if baseURL != "" {
			p.baseURL = baseURL
		}
	}
}

// WithTimeout sets the outbound request timeout; zero disables it
func WithTimeout(timeout time.Duration) Option {
	return func(p *Provider) {
		p.client.Timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// NewProvider creates a provider registered under name
func NewProvider(name, apiKey, defaultModel, baseURL string, opts ...Option) *Provider {
	p := &Provider{
		name:         name,
		apiKey:       apiKey,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: 120 * time.Second},
		baseURL:      baseURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.defaultModel == "" && len(catalogue[name]) > 0 {
		p.defaultModel = catalogue[name][0]
	}
	return p
}

// NewOpenRouter creates the default upstream provider
func NewOpenRouter(apiKey, defaultModel string, opts ...Option) *Provider {
	return NewProvider("openrouter", apiKey, defaultModel, OpenRouterBaseURL, opts...)
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return p.name
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return catalogue[p.name]
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []llm.Message `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete forwards the persona and user text to /chat/completions
func (p *Provider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if model == "" {
		model = p.defaultModel
	}

	body, err := json.Marshal(chatRequest{
		Model:     model,
		Messages:  llm.BuildMessages(req),
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, llm.NewUpstreamError(p.name, resp.StatusCode, errBody)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var text string
	if len(chatResp.Choices) > 0 {
		text = chatResp.Choices[0].Message.Content
	}

	return &llm.Response{
		Text:       text,
		Model:      model,
		TokensUsed: chatResp.Usage.TotalTokens,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
