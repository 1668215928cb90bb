package main

import (
	"fmt"
	"io"

	"github.com/jonathan/team-interview/internal/presets"
	"github.com/jonathan/team-interview/internal/questions"
	"github.com/jonathan/team-interview/internal/selection"
	"github.com/jonathan/team-interview/internal/types"
	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the question bank for an experience level",
	Long: `Lists the questions eligible for an interview at the given level, optionally narrowed to the questions one persona would ask.

With --select, runs the weighted backlog selection instead and prints the questions an interview would start with.`,
	RunE: runQuestions,
}

var (
	questionsLevel   string
	questionsPersona string
	questionsSelect  bool
	questionsMax     int
	questionsSeed    int64
)

func init() {
	questionsCmd.Flags().StringVarP(&questionsLevel, "level", "l", "junior", "Experience level: intern, junior, mid, senior or lead")
	questionsCmd.Flags().StringVar(&questionsPersona, "persona", "", "Only list questions for this persona id")
	questionsCmd.Flags().BoolVar(&questionsSelect, "select", false, "Print a weighted backlog selection instead of the full pool")
	questionsCmd.Flags().IntVar(&questionsMax, "max-questions", 0, "Override the preset's maximum number of questions")
	questionsCmd.Flags().Int64Var(&questionsSeed, "seed", 0, "Seed for deterministic selection")

	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	level, err := types.ParseExperienceLevel(questionsLevel)
	if err != nil {
		return err
	}
	bank, err := questions.Default()
	if err != nil {
		return err
	}
	table, err := presets.Default()
	if err != nil {
		return err
	}

	opts := questionListing{
		Level:     level,
		PersonaID: questionsPersona,
		Select:    questionsSelect,
		Max:       questionsMax,
	}
	if cmd.Flags().Changed("seed") {
		seed := questionsSeed
		opts.Seed = &seed
	}
	return printQuestions(cmd.OutOrStdout(), bank, table, opts)
}

// questionListing describes which questions to print
type questionListing struct {
	Level     types.ExperienceLevel
	PersonaID string
	Select    bool
	Max       int
	Seed      *int64
}

func printQuestions(out io.Writer, bank *questions.Bank, table *presets.Table, opts questionListing) error {
	settings, ok := table.Settings(opts.Level)
	if !ok {
		return fmt.Errorf("no preset for level %s", opts.Level)
	}
	if opts.Max > 0 {
		settings.MaxQuestions = opts.Max
	}

	var qs []types.Question
	if opts.Select {
		qs = selection.SelectQuestions(bank, opts.Level, settings.QuestionWeights, settings.MaxQuestions, selection.Options{Seed: opts.Seed})
	} else {
		qs = bank.ForLevel(opts.Level)
	}

	if opts.PersonaID != "" {
		persona, ok := types.FindPersona(settings.Personas, opts.PersonaID)
		if !ok {
			return fmt.Errorf("unknown persona %q for level %s", opts.PersonaID, opts.Level)
		}
		qs = questions.ForPersona(qs, persona)
	}

	if !bank.HasDedicatedSet(opts.Level) {
		_, _ = fmt.Fprintf(out, "Note: %s has no dedicated questions, using the intern set\n", opts.Level)
	}
	_, _ = fmt.Fprintf(out, "%d questions for %s\n", len(qs), opts.Level)
	for _, q := range qs {
		_, _ = fmt.Fprintf(out, "[%s] (%s, %s) %s\n", q.ID, q.Category, q.PersonaRole, q.Text)
	}
	return nil
}
