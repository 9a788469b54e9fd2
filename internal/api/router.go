package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/smartchat/internal/api/handler"
	customMiddleware "github.com/Rrens/smartchat/internal/api/middleware"
	"github.com/Rrens/smartchat/internal/config"
	"github.com/Rrens/smartchat/internal/llm"
	"github.com/Rrens/smartchat/internal/llm/anthropic"
	"github.com/Rrens/smartchat/internal/llm/gemini"
	"github.com/Rrens/smartchat/internal/llm/ollama"
	"github.com/Rrens/smartchat/internal/llm/openai"
	"github.com/Rrens/smartchat/internal/repository/redis"
	"github.com/Rrens/smartchat/internal/service"
)

// NewRouter creates and configures the HTTP router. redisClient may be nil,
// in which case rate limiting is off and /ready does not wait on redis.
func NewRouter(cfg *config.Config, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.Server.MiddlewareTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	llmRouter := NewLLMRouter(cfg.LLM)
	chatService := service.NewChatService(llmRouter, cfg.Chat.Persona, "", cfg.LLM.MaxTokens)
	chatHandler := handler.NewChatHandler(chatService)

	var ready handler.Pinger
	if redisClient != nil {
		ready = redisClient
	}

	r.Get("/", handler.Liveness(cfg.Chat.LivenessMessage))
	r.Get("/health", handler.HealthCheck)
	r.Get("/ready", handler.ReadyCheck(ready))

	r.Route("/api", func(r chi.Router) {
		r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

		r.Group(func(r chi.Router) {
			if redisClient != nil {
				rateLimiter := redis.NewRateLimiter(
					redisClient,
					cfg.Security.RateLimit.RequestsPerMinute,
					cfg.Security.RateLimit.Burst,
				)
				r.Use(customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit)
			}

			r.Post("/chat", chatHandler.Chat)
		})
	})

	return r
}

// NewLLMRouter registers every provider that has credentials
func NewLLMRouter(cfg config.LLMConfig) *llm.Router {
	llmRouter := llm.NewRouter(cfg.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.DefaultProvider)

	timeout := openai.WithTimeout(cfg.RequestTimeout)
	if cfg.OpenRouter.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewOpenRouter(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model,
			openai.WithBaseURL(cfg.OpenRouter.BaseURL), timeout))
	}
	if cfg.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider("openai", cfg.OpenAI.APIKey, cfg.OpenAI.Model,
			openai.OpenAIBaseURL, openai.WithBaseURL(cfg.OpenAI.BaseURL), timeout))
	}
	if cfg.DeepSeek.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider("deepseek", cfg.DeepSeek.APIKey, cfg.DeepSeek.Model,
			openai.DeepSeekBaseURL, openai.WithBaseURL(cfg.DeepSeek.BaseURL), timeout))
	}
	if cfg.Anthropic.APIKey != "" {
		llmRouter.RegisterProvider(anthropic.NewProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model,
			cfg.Anthropic.BaseURL, cfg.RequestTimeout))
	}
	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.Ollama.Host, cfg.Ollama.DefaultModel, cfg.RequestTimeout))
	}
	if cfg.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	}

	log.Info().Strs("providers", llmRouter.ListProviders()).Msg("LLM providers registered")
	return llmRouter
}
