package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/team-interview/internal/observability"
	"github.com/jonathan/team-interview/internal/presets"
	"github.com/jonathan/team-interview/internal/selection"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings [seniority]",
	Short: "Show the interview preset for a seniority",
	Long: `Shows the personas, question weights and rubric used for a seniority.

Unknown seniority strings resolve to the junior preset, exactly as interviews do.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettings,
}

var settingsJSON bool

func init() {
	settingsCmd.Flags().BoolVar(&settingsJSON, "json", false, "Print the preset as JSON")

	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	seniority := "junior"
	if len(args) == 1 {
		seniority = args[0]
	}
	table, err := presets.Default()
	if err != nil {
		return err
	}
	return printSettings(cmd.OutOrStdout(), table, seniority, settingsJSON)
}

func printSettings(out io.Writer, table *presets.Table, seniority string, asJSON bool) error {
	settings := table.ForSeniority(seniority)

	if asJSON {
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}

	observability.NewPrinter(out).PrintSettings(settings)
	if err := selection.ValidateWeights(settings.QuestionWeights); err != nil {
		_, _ = fmt.Fprintf(out, "Warning: %v\n", err)
	}
	if drift, over := selection.SumDrift(settings.QuestionWeights); over {
		_, _ = fmt.Fprintf(out, "Warning: question weights total %d (off by %d)\n", settings.QuestionWeights.Sum(), drift)
	}
	return nil
}
