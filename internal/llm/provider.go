package llm

import "context"

// Request contains one chat turn to forward upstream
type Request struct {
	// System is the persona instruction sent ahead of the user text
	System    string
	Message   string
	MaxTokens int
}

// Response contains the first completion choice
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete sends the persona and user text and returns the first choice.
	// A non-2xx upstream answer is reported as *UpstreamError.
	Complete(ctx context.Context, req Request, model string) (*Response, error)
}
