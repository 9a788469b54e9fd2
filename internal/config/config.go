package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Chat     ChatConfig     `mapstructure:"chat"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Widget   WidgetConfig   `mapstructure:"widget"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LLMConfig struct {
	DefaultProvider string          `mapstructure:"default_provider"`
	MaxTokens       int             `mapstructure:"max_tokens"`
	RequestTimeout  time.Duration   `mapstructure:"request_timeout"`
	OpenRouter      OpenAIConfig    `mapstructure:"openrouter"`
	OpenAI          OpenAIConfig    `mapstructure:"openai"`
	DeepSeek        OpenAIConfig    `mapstructure:"deepseek"`
	Anthropic       AnthropicConfig `mapstructure:"anthropic"`
	Ollama          OllamaConfig    `mapstructure:"ollama"`
	Gemini          GeminiConfig    `mapstructure:"gemini"`
}

// OpenAIConfig configures any OpenAI-compatible chat completions API
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OllamaConfig struct {
	Host         string `mapstructure:"host"`
	DefaultModel string `mapstructure:"default_model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ChatConfig holds the assistant persona served by the proxy
type ChatConfig struct {
	Persona         string `mapstructure:"persona"`
	PersonaFile     string `mapstructure:"persona_file"`
	LivenessMessage string `mapstructure:"liveness_message"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level        string        `mapstructure:"level"`
	Format       string        `mapstructure:"format"`
	File         string        `mapstructure:"file"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
}

// WidgetConfig configures the chat client core used by cmd/chat
type WidgetConfig struct {
	BackendURL  string        `mapstructure:"backend_url"`
	MaxSessions int           `mapstructure:"max_sessions"`
	RevealDelay time.Duration `mapstructure:"reveal_delay"`
	Store       StoreConfig   `mapstructure:"store"`
}

// StoreConfig selects the key/value backend that persists client sessions
type StoreConfig struct {
	Driver        string `mapstructure:"driver"`
	Path          string `mapstructure:"path"`
	DSN           string `mapstructure:"dsn"`
	URI           string `mapstructure:"uri"`
	Database      string `mapstructure:"database"`
	Collection    string `mapstructure:"collection"`
	Namespace     string `mapstructure:"namespace"`
	EncryptionKey string `mapstructure:"encryption_key"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Chat.loadPersonaFile(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the proxy cannot start without
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Chat.Persona) == "" {
		return fmt.Errorf("chat persona is empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}

	switch c.LLM.DefaultProvider {
	case "openrouter":
		if c.LLM.OpenRouter.APIKey == "" {
			return fmt.Errorf("missing OPENROUTER_API_KEY")
		}
	case "openai":
		if c.LLM.OpenAI.APIKey == "" {
			return fmt.Errorf("missing OPENAI_API_KEY")
		}
	case "deepseek":
		if c.LLM.DeepSeek.APIKey == "" {
			return fmt.Errorf("missing DEEPSEEK_API_KEY")
		}
	case "anthropic":
		if c.LLM.Anthropic.APIKey == "" {
			return fmt.Errorf("missing ANTHROPIC_API_KEY")
		}
	case "gemini":
		if c.LLM.Gemini.APIKey == "" {
			return fmt.Errorf("missing GEMINI_API_KEY")
		}
	case "ollama":
		if c.LLM.Ollama.Host == "" {
			return fmt.Errorf("missing OLLAMA_HOST")
		}
	default:
		return fmt.Errorf("unknown llm provider: %q", c.LLM.DefaultProvider)
	}

	return nil
}

func (c *ChatConfig) loadPersonaFile() error {
	if c.PersonaFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.PersonaFile)
	if err != nil {
		return fmt.Errorf("failed to read persona file: %w", err)
	}
	c.Persona = string(data)
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "150s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.middleware_timeout", "140s")

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// LLM
	v.SetDefault("llm.default_provider", "openrouter")
	v.SetDefault("llm.max_tokens", 2400)
	v.SetDefault("llm.request_timeout", "120s")
	v.SetDefault("llm.openrouter.model", "deepseek/deepseek-chat")
	v.SetDefault("llm.openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.deepseek.model", "deepseek-chat")
	v.SetDefault("llm.deepseek.base_url", "https://api.deepseek.com/v1")
	v.SetDefault("llm.anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("llm.anthropic.base_url", "https://api.anthropic.com/v1")
	v.SetDefault("llm.ollama.default_model", "llama3")
	v.SetDefault("llm.gemini.model", "gemini-2.5-flash")

	// Chat
	v.SetDefault("chat.persona", DefaultPersona)
	v.SetDefault("chat.liveness_message", "✅ SmartChat backend running successfully")

	// CORS
	v.SetDefault("cors.allowed_origins", []string{"*"})

	// Security
	v.SetDefault("security.rate_limit.requests_per_minute", 30)
	v.SetDefault("security.rate_limit.burst", 10)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.max_age", "168h")
	v.SetDefault("logging.rotation_time", "24h")

	// Widget
	v.SetDefault("widget.backend_url", "http://localhost:5000")
	v.SetDefault("widget.max_sessions", 3)
	v.SetDefault("widget.reveal_delay", "12ms")
	v.SetDefault("widget.store.driver", "file")
	v.SetDefault("widget.store.path", "./data/smartchat.json")
	v.SetDefault("widget.store.database", "smartchat")
	v.SetDefault("widget.store.collection", "widget_state")
	v.SetDefault("widget.store.namespace", "default")
}

func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")

	// Redis
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// LLM API Keys
	v.BindEnv("llm.openrouter.api_key", "OPENROUTER_API_KEY")
	v.BindEnv("llm.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.deepseek.api_key", "DEEPSEEK_API_KEY")
	v.BindEnv("llm.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("llm.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("llm.ollama.host", "OLLAMA_HOST")

	// Widget
	v.BindEnv("widget.backend_url", "SMARTCHAT_BACKEND_URL")
	v.BindEnv("widget.store.dsn", "SMARTCHAT_STORE_DSN")
	v.BindEnv("widget.store.encryption_key", "SMARTCHAT_STORE_KEY")
}
