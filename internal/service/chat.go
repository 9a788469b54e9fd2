package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/smartchat/internal/llm"
)

// NoReplyText is returned when the upstream answers without any choice text
const NoReplyText = "No reply generated."

// ChatService forwards one user message, with the configured persona, to the
// default completion provider. It keeps no state between calls.
type ChatService struct {
	llmRouter *llm.Router
	persona   string
	model     string
	maxTokens int
}

// NewChatService creates a new chat service. An empty model selects the
// provider's default model.
func NewChatService(llmRouter *llm.Router, persona, model string, maxTokens int) *ChatService {
	return &ChatService{
		llmRouter: llmRouter,
		persona:   persona,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Reply returns the assistant's answer to message. Upstream failures come
// back as *llm.UpstreamError so the caller can relay their status.
func (s *ChatService) Reply(ctx context.Context, message string) (string, error) {
	provider, err := s.llmRouter.GetProvider("")
	if err != nil {
		return "", fmt.Errorf("failed to get provider: %w", err)
	}

	requestID := uuid.NewString()
	log.Debug().
		Str("request_id", requestID).
		Str("provider", provider.Name()).
		Int("message_len", len(message)).
		Msg("forwarding chat message")

	resp, err := provider.Complete(ctx, llm.Request{
		System:    s.persona,
		Message:   message,
		MaxTokens: s.maxTokens,
	}, s.model)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Str("provider", provider.Name()).Msg("completion failed")
		return "", err
	}

	log.Info().
		Str("request_id", requestID).
		Str("provider", provider.Name()).
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("completion finished")

	if resp.Text == "" {
		return NoReplyText, nil
	}
	return resp.Text, nil
}

// Providers returns the provider catalogue for diagnostics
func (s *ChatService) Providers() []llm.ProviderInfo {
	return s.llmRouter.GetProvidersInfo()
}
