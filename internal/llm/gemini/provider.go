package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/Rrens/smartchat/internal/config"
	"github.com/Rrens/smartchat/internal/llm"
)

type Provider struct {
	apiKey string
	model  string
	opts   []option.ClientOption
}

func NewProvider(cfg config.GeminiConfig, opts ...option.ClientOption) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		opts:   opts,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	if model == "" {
		model = p.DefaultModel()
	}

	opts := append([]option.ClientOption{option.WithAPIKey(p.apiKey)}, p.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	generativeModel.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	if req.MaxTokens > 0 {
		generativeModel.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	start := time.Now()
	resp, err := generativeModel.GenerateContent(ctx, genai.Text(req.Message))
	latency := time.Since(start).Milliseconds()

	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, upstreamError(apiErr)
		}
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	var output strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok {
				output.WriteString(string(text))
			}
		}
	}

	tokensUsed := 0
	if resp.UsageMetadata != nil {
		tokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &llm.Response{
		Text:       output.String(),
		Model:      model,
		TokensUsed: tokensUsed,
		LatencyMs:  latency,
	}, nil
}

func upstreamError(apiErr *googleapi.Error) *llm.UpstreamError {
	status := apiErr.Code
	if status == 0 {
		status = http.StatusBadGateway
	}
	msg := apiErr.Message
	if msg == "" {
		msg = llm.DefaultUpstreamMessage
	}
	return &llm.UpstreamError{Provider: "gemini", Status: status, Message: msg}
}
