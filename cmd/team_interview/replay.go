package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/team-interview/internal/config"
	"github.com/jonathan/team-interview/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay scripted candidate answers through full interviews",
	Long: `Runs one interview per script file, feeding the scripted answers in order until the interview wraps up or the answers run out.

Script values override the command-line settings for that script. Scripts run concurrently up to --parallel.`,
	RunE: runReplay,
}

var (
	replayFlags    interviewFlags
	replayScripts  []string
	replayParallel int
	replayOutDir   string
)

func init() {
	replayFlags.register(replayCmd)
	replayCmd.Flags().StringArrayVarP(&replayScripts, "script", "s", nil, "Path to a YAML answer script (repeatable)")
	replayCmd.Flags().IntVarP(&replayParallel, "parallel", "p", 2, "Maximum number of interviews to run at once")
	replayCmd.Flags().StringVarP(&replayOutDir, "out", "o", "", "Directory to write one snapshot JSON per script")

	if err := replayCmd.MarkFlagRequired("script"); err != nil {
		panic(fmt.Sprintf("failed to mark script flag as required: %v", err))
	}

	rootCmd.AddCommand(replayCmd)
}

// Script is a scripted interview: optional settings overrides plus the candidate's answers
type Script struct {
	Name               string   `yaml:"name"`
	Level              string   `yaml:"level"`
	Company            string   `yaml:"company"`
	CompanyDescription string   `yaml:"company_description"`
	JobTitle           string   `yaml:"job_title"`
	CandidateName      string   `yaml:"candidate_name"`
	MaxQuestions       int      `yaml:"max_questions"`
	Seed               *int64   `yaml:"seed"`
	Answers            []string `yaml:"answers"`
}

// ReplayResult is the end state of one replayed script
type ReplayResult struct {
	Script   string
	Answered int
	Snapshot session.Snapshot
}

// LoadScript reads and checks one answer script
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return Script{}, fmt.Errorf("failed to parse script %s: %w", path, err)
	}
	if len(script.Answers) == 0 {
		return Script{}, fmt.Errorf("script %s has no answers", path)
	}
	if script.Name == "" {
		script.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return script, nil
}

// apply layers the script's values over a resolved config
func (s Script) apply(cfg config.Config) (config.Config, error) {
	override := config.Config{
		Level:              s.Level,
		Company:            s.Company,
		CompanyDescription: s.CompanyDescription,
		JobTitle:           s.JobTitle,
		CandidateName:      s.CandidateName,
		MaxQuestions:       s.MaxQuestions,
		Seed:               s.Seed,
	}
	merged := override.MergeWithDefaults(cfg)
	if err := merged.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("script %s: %w", s.Name, err)
	}
	return merged, nil
}

func runReplay(cmd *cobra.Command, _ []string) error {
	cfg, err := replayFlags.resolve(cmd)
	if err != nil {
		return err
	}

	scripts := make([]Script, 0, len(replayScripts))
	for _, path := range replayScripts {
		script, err := LoadScript(path)
		if err != nil {
			return err
		}
		scripts = append(scripts, script)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	results, err := runScripts(ctx, a, cfg, scripts, replayParallel)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		_, _ = fmt.Fprintf(out, "%-20s answered=%d asked=%d/%d phase=%s mean=%.1f\n",
			r.Script, r.Answered, r.Snapshot.QuestionsAsked, r.Snapshot.MaxQuestions, r.Snapshot.Phase, r.Snapshot.Scorecard.MeanScore)
	}

	if replayOutDir != "" {
		if err := os.MkdirAll(replayOutDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		for _, r := range results {
			if err := writeSnapshot(filepath.Join(replayOutDir, r.Script+".json"), r.Snapshot); err != nil {
				return err
			}
		}
		_, _ = fmt.Fprintf(out, "Snapshots: %s\n", replayOutDir)
	}
	return nil
}

// runScripts replays every script in its own session, at most parallel at a
// time. Results keep the order of scripts.
func runScripts(ctx context.Context, a *app, base config.Config, scripts []Script, parallel int) ([]ReplayResult, error) {
	manager := session.NewManager(a.deps, a.presets)
	results := make([]ReplayResult, len(scripts))

	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, script := range scripts {
		cfg, err := script.apply(base)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			s, err := manager.Create(sessionConfig(a.presets, cfg))
			if err != nil {
				return fmt.Errorf("script %s: %w", script.Name, err)
			}
			defer manager.Remove(s.ID())

			answered, err := replay(gctx, s, script.Answers)
			if err != nil {
				return fmt.Errorf("script %s: %w", script.Name, err)
			}
			results[i] = ReplayResult{Script: script.Name, Answered: answered, Snapshot: s.Snapshot()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// replay feeds answers to s and finishes the interview if they run out first
func replay(ctx context.Context, s *session.Session, answers []string) (int, error) {
	if _, err := s.Start(ctx); err != nil {
		return 0, err
	}
	answered := 0
	for _, answer := range answers {
		if strings.TrimSpace(answer) == "" {
			continue
		}
		result, err := s.Respond(ctx, answer)
		if err != nil {
			return answered, err
		}
		answered++
		if result.WrappedUp() {
			return answered, nil
		}
	}
	if _, err := s.Finish(ctx); err != nil {
		return answered, err
	}
	return answered, nil
}
