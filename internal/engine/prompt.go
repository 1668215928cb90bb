// Package engine decides the outcome of one team interview turn. It serializes
// session state into the team-turn prompt, delegates generation, and decodes the
// reply leniently into a TurnOutcome.
package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/team-interview/internal/calibration"
	"github.com/jonathan/team-interview/internal/prompts"
	"github.com/jonathan/team-interview/internal/types"
)

const (
	// historyWindow is the number of trailing turns shown to the generator
	historyWindow = 10
	// backlogExcerpt is the number of backlog entries shown to the generator
	backlogExcerpt = 8
	// focusMarker prefixes backlog entries in the active persona's focus areas
	focusMarker = "★"
)

// TurnInput is the full session state for one turn
type TurnInput struct {
	ActivePersona       types.Persona
	AllPersonas         []types.Persona
	ExperienceLevel     types.ExperienceLevel
	CompanyName         string
	CompanyDescription  string
	JobTitle            string
	CandidateName       string
	ConversationHistory []types.ConversationTurn
	QuestionBacklog     []types.Question // Not-yet-asked questions only
	CoverageStatus      types.CoverageStatus
	QuestionsAskedCount int
	MaxQuestions        int
	CurrentQuestionID   string
	CurrentQuestionText string // Optional text of CurrentQuestionID
	LevelExpectations   string
}

// BuildTurnPrompt renders the team-turn instruction for input
func BuildTurnPrompt(input TurnInput) string {
	persona := input.ActivePersona
	template := prompts.MustGet(prompts.InterviewFile, prompts.KeyTeamTurn)

	return prompts.Format(template, map[string]string{
		"PersonaName":         persona.Name,
		"PersonaRole":         persona.DisplayRole,
		"PersonaTone":         string(persona.Tone),
		"ToneGuidance":        calibration.ToneGuidance(persona.Tone),
		"FocusAreas":          strings.Join(persona.FocusAreas, ", "),
		"IntroStyle":          persona.IntroStyle,
		"ExperienceLevel":     string(input.ExperienceLevel),
		"CompanyName":         input.CompanyName,
		"CompanyDescription":  input.CompanyDescription,
		"JobTitle":            input.JobTitle,
		"CandidateName":       input.CandidateName,
		"QuestionsAskedCount": strconv.Itoa(input.QuestionsAskedCount),
		"MaxQuestions":        strconv.Itoa(input.MaxQuestions),
		"CurrentQuestion":     formatCurrentQuestion(input),
		"OtherPersonas":       formatOtherPersonas(input),
		"LevelExpectations":   input.LevelExpectations,
		"LevelGuidance":       calibration.LevelGuidance(input.ExperienceLevel),
		"QuestionBacklog":     formatBacklog(input),
		"CoverageStatus":      formatCoverage(input.CoverageStatus),
		"ConversationHistory": formatHistory(input),
		"TeammateFirstName":   teammateFirstName(input),
		"PersonaBehavior":     calibration.PersonaBehavior(persona, input.ExperienceLevel),
		"ScoringAnchors":      calibration.ScoringAnchors(input.ExperienceLevel),
	})
}

func formatCurrentQuestion(input TurnInput) string {
	switch {
	case input.CurrentQuestionID == "":
		return "none yet"
	case input.CurrentQuestionText == "":
		return fmt.Sprintf("[%s]", input.CurrentQuestionID)
	default:
		return fmt.Sprintf("[%s] %s", input.CurrentQuestionID, input.CurrentQuestionText)
	}
}

func formatOtherPersonas(input TurnInput) string {
	var lines []string
	for _, p := range input.AllPersonas {
		if p.ID == input.ActivePersona.ID {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s (%s, id: %s): focuses on %s", p.Name, p.DisplayRole, p.ID, strings.Join(p.FocusAreas, ", ")))
	}
	if len(lines) == 0 {
		return "No other interviewers"
	}
	return strings.Join(lines, "\n")
}

func formatBacklog(input TurnInput) string {
	backlog := input.QuestionBacklog
	if len(backlog) > backlogExcerpt {
		backlog = backlog[:backlogExcerpt]
	}
	if len(backlog) == 0 {
		return "No remaining questions"
	}

	lines := make([]string, 0, len(backlog))
	for _, q := range backlog {
		marker := ""
		if input.ActivePersona.Focuses(string(q.Category)) {
			marker = focusMarker
		}
		lines = append(lines, fmt.Sprintf("%s[%s] (%s) %s", marker, q.ID, q.Category, q.Text))
	}
	return strings.Join(lines, "\n")
}

// formatCoverage lists every category in the fixed order; missing entries read as 0%
func formatCoverage(coverage types.CoverageStatus) string {
	lines := make([]string, 0, len(types.AllCategories))
	for _, c := range types.AllCategories {
		lines = append(lines, fmt.Sprintf("- %s: %d%%", c, int(math.Round(coverage[c]*100))))
	}
	return strings.Join(lines, "\n")
}

func formatHistory(input TurnInput) string {
	history := input.ConversationHistory
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", speakerName(input, turn), turn.Content))
	}
	return strings.Join(lines, "\n")
}

// speakerName resolves the display name of a turn. Unattributed interviewer
// turns belong to the active persona.
func speakerName(input TurnInput, turn types.ConversationTurn) string {
	if turn.Role != types.RoleInterviewer {
		return input.CandidateName
	}
	if turn.PersonaID == "" {
		return input.ActivePersona.Name
	}
	if p, ok := types.FindPersona(input.AllPersonas, turn.PersonaID); ok {
		return p.Name
	}
	return "Interviewer"
}

// teammateFirstName is used in the example hand-off phrase
func teammateFirstName(input TurnInput) string {
	for _, p := range input.AllPersonas {
		if p.ID != input.ActivePersona.ID {
			return p.FirstName()
		}
	}
	return "[teammate]"
}
