package llm

import (
	"encoding/json"
	"fmt"
)

// DefaultUpstreamMessage is used when the upstream error body carries no message
const DefaultUpstreamMessage = "API request failed"

// UpstreamError is a non-success answer from the completion API.
// Status and Message are relayed to the chat client unchanged.
type UpstreamError struct {
	Provider string
	Status   int
	Message  string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Message)
}

// NewUpstreamError builds an UpstreamError from a raw error body shaped like
// {"error":{"message":"..."}}. Bodies in any other shape get the default message.
func NewUpstreamError(provider string, status int, body []byte) *UpstreamError {
	return &UpstreamError{
		Provider: provider,
		Status:   status,
		Message:  upstreamMessage(body),
	}
}

func upstreamMessage(body []byte) string {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Error) == 0 {
		return DefaultUpstreamMessage
	}

	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}

	// Ollama answers {"error":"..."}
	var flat string
	if err := json.Unmarshal(payload.Error, &flat); err == nil && flat != "" {
		return flat
	}

	return DefaultUpstreamMessage
}
