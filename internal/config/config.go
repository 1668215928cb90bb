// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/team-interview/internal/llm"
	"github.com/jonathan/team-interview/internal/types"
)

// Environment variables holding provider API keys
const (
	EnvGeminiAPIKey     = "GEMINI_API_KEY"
	EnvGroqAPIKey       = "GROQ_API_KEY"
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Interview
	Level              string `json:"level,omitempty"` // Experience level or free-form seniority
	Company            string `json:"company,omitempty"`
	CompanyDescription string `json:"company_description,omitempty"`
	JobTitle           string `json:"job_title,omitempty"`
	CandidateName      string `json:"candidate_name,omitempty"`
	MaxQuestions       int    `json:"max_questions,omitempty"` // Overrides the preset when > 0
	Seed               *int64 `json:"seed,omitempty"`          // Deterministic question selection

	// Generator
	Provider       string `json:"provider,omitempty"` // gemini, groq or openrouter
	Model          string `json:"model,omitempty"`    // Overrides every model tier
	APIKey         string `json:"api_key,omitempty"`
	BaseURL        string `json:"base_url,omitempty"` // OpenAI-compatible endpoint override
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	MaxRetries     int    `json:"max_retries,omitempty"`

	// Behavior
	Verbose      bool   `json:"verbose,omitempty"` // Print detailed debug information
	OTelEndpoint string `json:"otel_endpoint,omitempty"`
	OTelEnabled  bool   `json:"otel_enabled,omitempty"`
	OTelInsecure bool   `json:"otel_insecure,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Level != "" {
		if _, err := types.ParseExperienceLevel(c.Level); err != nil {
			return fmt.Errorf("config error: 'level': %w", err)
		}
	}

	switch llm.Provider(c.Provider) {
	case "", llm.ProviderGemini, llm.ProviderGroq, llm.ProviderOpenRouter:
	default:
		return fmt.Errorf("config error: unknown provider %q (expected gemini, groq or openrouter)", c.Provider)
	}

	// Validate numeric ranges
	if c.MaxQuestions < 0 {
		return fmt.Errorf("config error: 'max_questions' must be non-negative")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config error: 'max_retries' must be non-negative")
	}

	if c.OTelEnabled && c.OTelEndpoint == "" {
		return fmt.Errorf("config error: 'otel_endpoint' is required when 'otel_enabled' is set")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Level == "" {
		result.Level = defaults.Level
	}
	if result.Company == "" {
		result.Company = defaults.Company
	}
	if result.CompanyDescription == "" {
		result.CompanyDescription = defaults.CompanyDescription
	}
	if result.JobTitle == "" {
		result.JobTitle = defaults.JobTitle
	}
	if result.CandidateName == "" {
		result.CandidateName = defaults.CandidateName
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.OTelEndpoint == "" {
		result.OTelEndpoint = defaults.OTelEndpoint
	}

	// Int fields: use default if zero
	if result.MaxQuestions == 0 {
		result.MaxQuestions = defaults.MaxQuestions
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}

	if result.Seed == nil && defaults.Seed != nil {
		seed := *defaults.Seed
		result.Seed = &seed
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ProviderOrDefault returns the configured provider, or the default provider when unset
func (c *Config) ProviderOrDefault() llm.Provider {
	if c.Provider == "" {
		return llm.DefaultConfig().Provider
	}
	return llm.Provider(c.Provider)
}

// ResolveAPIKey returns the configured API key, falling back to the
// provider's environment variable.
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	switch c.ProviderOrDefault() {
	case llm.ProviderGemini:
		return os.Getenv(EnvGeminiAPIKey)
	case llm.ProviderOpenRouter:
		return os.Getenv(EnvOpenRouterAPIKey)
	default:
		return os.Getenv(EnvGroqAPIKey)
	}
}

// LLMConfig builds the generator configuration described by c
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.ConfigFor(c.ProviderOrDefault())
	if c.Model != "" {
		cfg = cfg.WithAllModels(c.Model)
	}
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	return cfg
}

// RetryPolicy builds the generator retry policy, keeping defaults for unset fields
func (c *Config) RetryPolicy() llm.RetryPolicy {
	policy := llm.DefaultRetryPolicy()
	if c.TimeoutSeconds > 0 {
		policy.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.MaxRetries > 0 {
		policy.MaxRetries = c.MaxRetries
	}
	return policy
}
