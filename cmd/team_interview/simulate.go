package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jonathan/team-interview/internal/flows"
	"github.com/jonathan/team-interview/internal/observability"
	"github.com/jonathan/team-interview/internal/session"
	"github.com/jonathan/team-interview/internal/types"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run an interactive team interview in the terminal",
	Long: `Runs a live team interview: the interviewers greet you, then every line you type is answered by the active persona until the interview wraps up.

Type /status to see category coverage, or /quit to end the interview early.
Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runSimulate,
}

var (
	simulateFlags   interviewFlags
	simulateOutFile string
)

func init() {
	simulateFlags.register(simulateCmd)
	simulateCmd.Flags().StringVarP(&simulateOutFile, "out", "o", "", "Write the final session snapshot JSON to this file")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := simulateFlags.resolve(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	s, err := session.New(sessionConfig(a.presets, cfg), a.deps)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	if err := interact(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Verbose); err != nil {
		return err
	}

	if simulateOutFile != "" {
		if err := writeSnapshot(simulateOutFile, s.Snapshot()); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Snapshot: %s\n", simulateOutFile)
	}
	return nil
}

// interact drives s with candidate lines read from in until the interview wraps up
func interact(ctx context.Context, s *session.Session, in io.Reader, out io.Writer, verbose bool) error {
	printer := observability.NewPrinter(out)
	settings := s.Settings()
	if verbose {
		printer.PrintSettings(settings)
	}

	greeting, err := s.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start interview: %w", err)
	}
	if verbose {
		printer.PrintBacklog(s.Snapshot().Backlog)
	}
	printLine(out, settings.Personas, greeting.Primary.ActivePersonaID, greeting.Primary.Text)
	printLine(out, settings.Personas, greeting.Secondary.ActivePersonaID, greeting.Secondary.Text)

	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/status":
			printer.PrintCoverage(s.Snapshot().Coverage)
			continue
		case "/quit", "/exit":
			closing, err := s.Finish(ctx)
			if err != nil {
				return err
			}
			printClosing(out, settings, closing)
			printer.PrintScorecard(s.Snapshot().Scorecard)
			return nil
		}

		result, err := s.Respond(ctx, line)
		if err != nil {
			return fmt.Errorf("turn failed: %w", err)
		}
		_, _ = fmt.Fprintln(out)
		printLine(out, settings.Personas, result.Speaker.ID, result.Text)
		if verbose {
			printer.PrintTurn(result.Speaker.Name, result.Outcome)
			printer.PrintCoverage(s.Snapshot().Coverage)
		}
		if result.WrappedUp() {
			printClosing(out, settings, *result.Closing)
			printer.PrintScorecard(s.Snapshot().Scorecard)
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	// Input ended before the interview did
	closing, err := s.Finish(ctx)
	if err != nil {
		return err
	}
	printClosing(out, settings, closing)
	printer.PrintScorecard(s.Snapshot().Scorecard)
	return nil
}

func printClosing(out io.Writer, settings types.TeamInterviewSettings, closing flows.Closing) {
	_, _ = fmt.Fprintln(out)
	printLine(out, settings.Personas, settings.Primary().ID, closing.PrimaryClosing)
	if secondary, ok := settings.Secondary(); ok {
		printLine(out, settings.Personas, secondary.ID, closing.SecondaryClosing)
	}
}

func printLine(out io.Writer, roster []types.Persona, personaID, text string) {
	if text == "" {
		return
	}
	speaker := "Interviewer"
	if p, ok := types.FindPersona(roster, personaID); ok {
		speaker = fmt.Sprintf("%s (%s)", p.Name, p.DisplayRole)
	}
	_, _ = fmt.Fprintf(out, "%s: %s\n", speaker, text)
}
