// Package llm provides centralized LLM configuration and client abstractions.
// Interview prompts are sent to either Google Gemini or an OpenAI-compatible
// chat completions endpoint (Groq, OpenRouter).
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short, low-stakes generations: greetings and closings
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: interview turns
	TierStandard ModelTier = "standard"
	// TierAdvanced is for the most demanding prompts
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderGroq is Groq's OpenAI-compatible API
	ProviderGroq Provider = "groq"
	// ProviderOpenRouter is OpenRouter's OpenAI-compatible API
	ProviderOpenRouter Provider = "openrouter"
)

// Default endpoints for the OpenAI-compatible providers
const (
	GroqBaseURL       = "https://api.groq.com/openai/v1"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// Sampling defaults for conversational generations
const (
	DefaultTemperature = 0.7
	DefaultTopP        = 0.95
)

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	BaseURL     string // Only used by OpenAI-compatible providers
	Temperature float32
	TopP        float32
}

// DefaultConfig returns the default configuration (Groq, as the interview prompts were tuned on Llama)
func DefaultConfig() *Config {
	return DefaultGroqConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
	}
}

// DefaultGroqConfig returns the default Groq configuration
func DefaultGroqConfig() *Config {
	return &Config{
		Provider: ProviderGroq,
		Models: map[ModelTier]string{
			TierLite:     "llama-3.3-70b-versatile",
			TierStandard: "llama-3.3-70b-versatile",
			TierAdvanced: "llama-3.3-70b-versatile",
		},
		BaseURL:     GroqBaseURL,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
	}
}

// DefaultOpenRouterConfig returns the default OpenRouter configuration
func DefaultOpenRouterConfig() *Config {
	return &Config{
		Provider: ProviderOpenRouter,
		Models: map[ModelTier]string{
			TierLite:     "meta-llama/llama-3.3-70b-instruct",
			TierStandard: "meta-llama/llama-3.3-70b-instruct",
			TierAdvanced: "meta-llama/llama-3.3-70b-instruct",
		},
		BaseURL:     OpenRouterBaseURL,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
	}
}

// ConfigFor returns the default configuration for a provider.
// Unknown providers get the Groq configuration.
func ConfigFor(provider Provider) *Config {
	switch provider {
	case ProviderGemini:
		return DefaultGeminiConfig()
	case ProviderOpenRouter:
		return DefaultOpenRouterConfig()
	default:
		return DefaultGroqConfig()
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

// WithAllModels returns a new Config that uses one model for every tier
func (c *Config) WithAllModels(model string) *Config {
	out := c
	for _, tier := range []ModelTier{TierLite, TierStandard, TierAdvanced} {
		out = out.WithModel(tier, model)
	}
	return out
}
