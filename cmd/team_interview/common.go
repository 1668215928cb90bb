package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/team-interview/internal/config"
	"github.com/jonathan/team-interview/internal/engine"
	"github.com/jonathan/team-interview/internal/flows"
	"github.com/jonathan/team-interview/internal/llm"
	"github.com/jonathan/team-interview/internal/observability"
	"github.com/jonathan/team-interview/internal/presets"
	"github.com/jonathan/team-interview/internal/questions"
	"github.com/jonathan/team-interview/internal/schemas"
	"github.com/jonathan/team-interview/internal/session"
	"github.com/spf13/cobra"
)

// builtinDefaults fill whatever neither flags nor the config file set
var builtinDefaults = config.Config{
	Level:              "junior",
	Company:            "TechCorp",
	CompanyDescription: "a fast-growing software company building developer tools",
	JobTitle:           "Software Engineer",
	CandidateName:      "Candidate",
}

// interviewFlags are the flags shared by commands that run interviews
type interviewFlags struct {
	configPath         string
	level              string
	company            string
	companyDescription string
	jobTitle           string
	candidateName      string
	provider           string
	model              string
	apiKey             string
	maxQuestions       int
	seed               int64
	verbose            bool
}

func (f *interviewFlags) register(cmd *cobra.Command) {
	// Config file flag (processed first)
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	cmd.Flags().StringVarP(&f.level, "level", "l", "", "Experience level: intern, junior, mid, senior or lead")
	cmd.Flags().StringVar(&f.company, "company", "", "Company name")
	cmd.Flags().StringVar(&f.companyDescription, "company-description", "", "One-line company description")
	cmd.Flags().StringVar(&f.jobTitle, "job-title", "", "Job title being interviewed for")
	cmd.Flags().StringVarP(&f.candidateName, "name", "n", "", "Candidate name")
	cmd.Flags().StringVar(&f.provider, "provider", "", "LLM provider: groq (default), gemini or openrouter")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name for every tier (defaults per provider)")
	cmd.Flags().IntVar(&f.maxQuestions, "max-questions", 0, "Override the preset's maximum number of questions")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Seed for deterministic question selection")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from the provider's env var
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key (optional, defaults to GROQ_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY)")
}

// resolve merges flags over the config file over the built-in defaults
func (f *interviewFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	// Step 1: Load config file if provided
	var cfg config.Config
	if f.configPath != "" {
		loadedCfg, err := config.LoadConfig(f.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("level") {
		cfg.Level = f.level
	}
	if flags.Changed("company") {
		cfg.Company = f.company
	}
	if flags.Changed("company-description") {
		cfg.CompanyDescription = f.companyDescription
	}
	if flags.Changed("job-title") {
		cfg.JobTitle = f.jobTitle
	}
	if flags.Changed("name") {
		cfg.CandidateName = f.candidateName
	}
	if flags.Changed("provider") {
		cfg.Provider = f.provider
	}
	if flags.Changed("model") {
		cfg.Model = f.model
	}
	if flags.Changed("api-key") {
		cfg.APIKey = f.apiKey
	}
	if flags.Changed("max-questions") {
		cfg.MaxQuestions = f.maxQuestions
	}
	if flags.Changed("seed") {
		seed := f.seed
		cfg.Seed = &seed
	}
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(builtinDefaults)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// app bundles the collaborators built from a resolved config
type app struct {
	client  llm.Client
	metrics observability.Metrics
	deps    session.Dependencies
	presets *presets.Table
}

// newApp connects the generator and metrics described by cfg
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for provider %s (set the provider's API key environment variable or use --api-key flag)", cfg.ProviderOrDefault())
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	metrics, err := observability.NewMetrics(ctx, metricsConfig(cfg))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: metrics export disabled: %v\n", err)
	}

	return newAppWithClient(llm.WithRetry(client, cfg.RetryPolicy()), metrics)
}

// newAppWithClient wires sessions around an existing generator
func newAppWithClient(client llm.Client, metrics observability.Metrics) (*app, error) {
	bank, err := questions.Default()
	if err != nil {
		return nil, err
	}
	table, err := presets.Default()
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = observability.NewNoOpMetrics()
	}

	return &app{
		client:  client,
		metrics: metrics,
		presets: table,
		deps: session.Dependencies{
			Bank:     bank,
			Engine:   engine.New(client),
			Narrator: flows.New(client),
			Metrics:  metrics,
		},
	}, nil
}

// Close flushes metrics and releases the generator
func (a *app) Close(ctx context.Context) {
	if err := a.metrics.Close(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to flush metrics: %v\n", err)
	}
	_ = a.client.Close()
}

// metricsConfig prefers config file values and falls back to the environment
func metricsConfig(cfg config.Config) observability.MetricsConfig {
	if cfg.OTelEnabled {
		return observability.MetricsConfig{
			Endpoint: cfg.OTelEndpoint,
			Enabled:  true,
			Insecure: cfg.OTelInsecure,
		}
	}
	return observability.LoadMetricsConfig()
}

// sessionConfig builds a session description from a resolved config
func sessionConfig(table *presets.Table, cfg config.Config) session.Config {
	settings := table.ForSeniority(cfg.Level)
	if cfg.MaxQuestions > 0 {
		settings.MaxQuestions = cfg.MaxQuestions
	}
	return session.Config{
		Settings:           settings,
		CompanyName:        cfg.Company,
		CompanyDescription: cfg.CompanyDescription,
		JobTitle:           cfg.JobTitle,
		CandidateName:      cfg.CandidateName,
		Seed:               cfg.Seed,
	}
}

// writeSnapshot saves snap as indented JSON, warning when it deviates from the snapshot schema
func writeSnapshot(path string, snap session.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := schemas.ValidateSessionSnapshot(string(data)); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: snapshot does not match schema: %v\n", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
