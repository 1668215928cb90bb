// Package observability provides formatted output for verbose CLI mode and
// interview metrics export.
package observability

import (
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/team-interview/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSettings outputs the roster and targets of an interview preset.
func (p *Printer) PrintSettings(settings types.TeamInterviewSettings) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Level:         %s\n", settings.ExperienceLevel))
	sb.WriteString(fmt.Sprintf("Max questions: %d\n", settings.MaxQuestions))
	sb.WriteString(fmt.Sprintf("Artifacts:     %s\n", settings.ArtifactComplexity))
	w := settings.QuestionWeights
	sb.WriteString(fmt.Sprintf("Weights:       L%d C%d T%d Q%d\n", w.Learning, w.Collaboration, w.Technical, w.Curiosity))
	sb.WriteString("\n")

	sb.WriteString("Interviewers:\n")
	for i, persona := range settings.Personas {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf(" %s %s (%s, %s)\n", marker, persona.Name, persona.DisplayRole, persona.Tone))
	}

	if len(settings.EvaluationRubric) > 0 {
		sb.WriteString("\nRubric:\n")
		for _, r := range settings.EvaluationRubric {
			sb.WriteString(fmt.Sprintf("  • %s (%d%%)\n", r.Criterion, r.Weight))
		}
	}

	p.printBox("INTERVIEW SETTINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBacklog outputs the questions seeded for an interview.
func (p *Printer) PrintBacklog(backlog []types.Question) {
	if len(backlog) == 0 {
		p.printBox("QUESTION BACKLOG", "No remaining questions")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d questions selected:\n\n", len(backlog)))
	for _, q := range backlog {
		sb.WriteString(fmt.Sprintf("[%s] (%s)\n", q.ID, q.Category))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(q.Text, boxWidth-6)))
	}

	p.printBox("QUESTION BACKLOG", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTurn outputs the engine's decision for one candidate answer.
func (p *Printer) PrintTurn(speaker string, outcome types.TurnOutcome) {
	var sb strings.Builder

	action := string(outcome.ActionType)
	if effective := outcome.EffectiveAction(); effective != outcome.ActionType {
		action = fmt.Sprintf("%s (treated as %s)", outcome.ActionType, effective)
	}
	sb.WriteString(fmt.Sprintf("Speaker:  %s\n", speaker))
	sb.WriteString(fmt.Sprintf("Action:   %s\n", action))
	if outcome.QuestionID != "" {
		sb.WriteString(fmt.Sprintf("Question: %s\n", outcome.QuestionID))
	}
	if outcome.NextPersonaID != "" {
		sb.WriteString(fmt.Sprintf("Next:     %s\n", outcome.NextPersonaID))
	}
	eval := outcome.Evaluation
	sb.WriteString(fmt.Sprintf("Score:    %d/10 on %s (+%.0f%%)\n", eval.Score, eval.CriterionCovered, eval.CoverageContribution*100))
	if outcome.Fallback {
		sb.WriteString("⚠ generator output unusable, default outcome used\n")
	}

	count := min(len(eval.Strengths), 3)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  ✓ %s\n", eval.Strengths[i]))
	}
	count = min(len(eval.AreasToImprove), 3)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  △ %s\n", eval.AreasToImprove[i]))
	}

	p.printBox("TURN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCoverage outputs a bar per category in the fixed category order.
func (p *Printer) PrintCoverage(coverage types.CoverageStatus) {
	const barWidth = 20

	var sb strings.Builder
	for _, c := range types.AllCategories {
		value := math.Max(0, math.Min(1, coverage[c]))
		filled := int(math.Round(value * barWidth))
		sb.WriteString(fmt.Sprintf("%-14s %s%s %3.0f%%\n", c, strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled), value*100))
	}

	p.printBox("COVERAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScorecard outputs the aggregate evaluation of a finished interview.
func (p *Printer) PrintScorecard(card types.Scorecard) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Turns scored: %d", card.TurnsScored))
	if card.FallbackTurns > 0 {
		sb.WriteString(fmt.Sprintf(" (%d fallback)", card.FallbackTurns))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Mean score:   %.1f/10\n", card.MeanScore))

	if len(card.Criteria) > 0 {
		sb.WriteString("\nBy criterion:\n")
		for _, criterion := range slices.Sorted(maps.Keys(card.Criteria)) {
			sb.WriteString(fmt.Sprintf("  • %-22s %.1f\n", criterion, card.Criteria[criterion]))
		}
	}

	writeList(&sb, "Strengths", card.Strengths)
	writeList(&sb, "Areas to improve", card.AreasToImprove)

	p.printBox("SCORECARD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTranscript outputs the conversation with resolved speaker names.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTranscript(history []types.ConversationTurn, roster []types.Persona, candidateName string) {
	for _, turn := range history {
		speaker := candidateName
		if turn.Role == types.RoleInterviewer {
			speaker = "Interviewer"
			if persona, ok := types.FindPersona(roster, turn.PersonaID); ok {
				speaker = persona.Name
			}
		}
		fmt.Fprintf(p.out, "%s: %s\n\n", speaker, turn.Content)
	}
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", title))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}
