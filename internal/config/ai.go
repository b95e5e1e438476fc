package config

import "os"

// Provider identifies a grading backend. Both speak the chat-completions
// wire format; they differ only in endpoint, model, and credential.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderPerplexity Provider = "perplexity"
)

// Valid reports whether the provider is a known grading backend.
func (p Provider) Valid() bool {
	return p == ProviderOpenAI || p == ProviderPerplexity
}

// ProviderConfig holds the wire-level settings for one grading backend.
type ProviderConfig struct {
	APIKey  string `json:"-"` // Never serialize
	BaseURL string `json:"baseUrl"`
	Model   string `json:"model"`
}

// AIConfig holds all grading-related configuration. It is passed into the
// grading client at construction; nothing reads credentials from ambient
// process state after startup.
type AIConfig struct {
	OpenAI     ProviderConfig `json:"openai"`
	Perplexity ProviderConfig `json:"perplexity"`
	TimeoutMS  int            `json:"timeoutMs"`
	MaxTokens  int            `json:"maxTokens"`
}

// DefaultAIConfig returns the default grading configuration. Credentials are
// optional at startup; a session only needs one before its grading calls run.
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		OpenAI: ProviderConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1/chat/completions"),
			Model:   getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		},
		Perplexity: ProviderConfig{
			APIKey:  os.Getenv("PERPLEXITY_API_KEY"),
			BaseURL: getEnvOrDefault("PERPLEXITY_BASE_URL", "https://api.perplexity.ai/chat/completions"),
			Model:   getEnvOrDefault("PERPLEXITY_MODEL", "llama-3-sonar-small-32k-chat"),
		},
		TimeoutMS: 30000,
		MaxTokens: 1024,
	}
}

// ForProvider returns the settings for the given backend.
func (c *AIConfig) ForProvider(p Provider) ProviderConfig {
	if p == ProviderPerplexity {
		return c.Perplexity
	}
	return c.OpenAI
}

// IsEnabled reports whether the given backend has a credential configured.
func (c *AIConfig) IsEnabled(p Provider) bool {
	return c.ForProvider(p).APIKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
