package main

import (
	"fmt"
	"io"

	"github.com/jonathan/team-interview/internal/config"
	"github.com/jonathan/team-interview/internal/engine"
	"github.com/jonathan/team-interview/internal/presets"
	"github.com/jonathan/team-interview/internal/questions"
	"github.com/jonathan/team-interview/internal/selection"
	"github.com/jonathan/team-interview/internal/types"
	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Render the team-turn prompt for a first answer without calling a model",
	Long: `Renders the instruction the engine would send after the candidate's first answer: freshly selected backlog, zero coverage and the given answer as the only history.

Useful for reviewing prompt changes; no API key is needed.`,
	RunE: runPrompt,
}

var (
	promptFlags   interviewFlags
	promptAnswer  string
	promptPersona string
)

func init() {
	promptFlags.register(promptCmd)
	promptCmd.Flags().StringVar(&promptAnswer, "answer", "I've mostly been learning Go through side projects.", "Candidate answer to place in the history")
	promptCmd.Flags().StringVar(&promptPersona, "persona", "", "Active persona id (defaults to the last greeter)")

	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, _ []string) error {
	cfg, err := promptFlags.resolve(cmd)
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
	return renderPrompt(cmd.OutOrStdout(), bank, table, cfg, promptPersona, promptAnswer)
}

func renderPrompt(out io.Writer, bank *questions.Bank, table *presets.Table, cfg config.Config, personaID, answer string) error {
	sc := sessionConfig(table, cfg)
	settings := sc.Settings

	// The secondary persona takes over after the greeting, as in a live session
	active, ok := settings.Secondary()
	if !ok {
		active = settings.Primary()
	}
	if personaID != "" {
		active, ok = types.FindPersona(settings.Personas, personaID)
		if !ok {
			return fmt.Errorf("unknown persona %q for level %s", personaID, settings.ExperienceLevel)
		}
	}

	coverage := make(types.CoverageStatus, len(types.AllCategories))
	for _, c := range types.AllCategories {
		coverage[c] = 0
	}

	backlog := selection.SelectQuestions(bank, settings.ExperienceLevel, settings.QuestionWeights, settings.MaxQuestions, selection.Options{Seed: sc.Seed})
	history := []types.ConversationTurn{{Role: types.RoleCandidate, Content: answer}}

	input := engine.TurnInput{
		ActivePersona:       active,
		AllPersonas:         settings.Personas,
		ExperienceLevel:     settings.ExperienceLevel,
		CompanyName:         sc.CompanyName,
		CompanyDescription:  sc.CompanyDescription,
		JobTitle:            sc.JobTitle,
		CandidateName:       sc.CandidateName,
		ConversationHistory: history,
		QuestionBacklog:     backlog,
		CoverageStatus:      coverage,
		MaxQuestions:        settings.MaxQuestions,
		LevelExpectations:   presets.LevelExpectationsText(settings),
	}

	_, _ = fmt.Fprintln(out, engine.BuildTurnPrompt(input))
	return nil
}
