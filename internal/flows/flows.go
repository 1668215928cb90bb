// Package flows generates the two-step opening and closing of a team interview.
// The primary persona speaks first and the secondary persona, when configured,
// follows up.
package flows

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/team-interview/internal/calibration"
	"github.com/jonathan/team-interview/internal/llm"
	"github.com/jonathan/team-interview/internal/prompts"
	"github.com/jonathan/team-interview/internal/types"
)

// closingHistoryWindow is the number of trailing turns shown to the closing prompt
const closingHistoryWindow = 10

// defaultWrapUpReason is used when the interview ends without a stated reason
const defaultWrapUpReason = "the planned questions have been covered"

// Interview is the descriptive context shared by every generated line
type Interview struct {
	Settings           types.TeamInterviewSettings
	CompanyName        string
	CompanyDescription string
	JobTitle           string
	CandidateName      string
}

// GreetingStep is one persona's opening line
type GreetingStep struct {
	Text            string `json:"text"`
	ActivePersonaID string `json:"active_persona_id"`
}

// Greeting holds both opening steps
type Greeting struct {
	Primary   GreetingStep `json:"primary"`
	Secondary GreetingStep `json:"secondary"`
}

// Closing holds both closing steps and their combination
type Closing struct {
	PrimaryClosing   string `json:"primary_closing"`
	SecondaryClosing string `json:"secondary_closing"`
	CombinedClosing  string `json:"combined_closing"`
}

// Flows generates greetings and closings with a text generator
type Flows struct {
	client llm.Client
	tier   llm.ModelTier
}

// New creates Flows backed by client
func New(client llm.Client) *Flows {
	return &Flows{client: client, tier: llm.TierLite}
}

// PrimaryGreeting has the primary persona welcome the candidate and invite
// the colleague to introduce themselves. It asks no questions.
func (f *Flows) PrimaryGreeting(ctx context.Context, iv Interview) (GreetingStep, error) {
	primary := iv.Settings.Primary()
	step := GreetingStep{ActivePersonaID: primary.ID}

	data := baseData(iv, primary)
	data["PersonasIntro"] = personasIntro(iv.Settings.Personas)
	data["LevelContext"] = calibration.GreetingContext(iv.Settings.ExperienceLevel)

	key := prompts.KeyGreetingSolo
	if colleague, ok := iv.Settings.Secondary(); ok {
		key = prompts.KeyGreetingPrimary
		data["ColleagueName"] = colleague.Name
		data["ColleagueRole"] = colleague.DisplayRole
		data["ColleagueFirstName"] = colleague.FirstName()
	}

	text, err := f.generate(ctx, key, data)
	if err != nil {
		return step, &APICallError{Message: "failed to generate primary greeting", Cause: err}
	}
	log.Printf("[GREETING] %s opened the interview (%d chars)", primary.ID, len(text))

	step.Text = text
	return step, nil
}

// SecondaryGreeting has the second persona introduce themselves and invite the
// candidate to share their background. Without a second persona it makes no
// generator call and leaves the primary persona active.
func (f *Flows) SecondaryGreeting(ctx context.Context, iv Interview, primaryText string) (GreetingStep, error) {
	secondary, ok := iv.Settings.Secondary()
	if !ok {
		return GreetingStep{ActivePersonaID: iv.Settings.Primary().ID}, nil
	}
	step := GreetingStep{ActivePersonaID: secondary.ID}

	data := baseData(iv, secondary)
	data["ColleagueName"] = iv.Settings.Primary().Name
	data["PreviousText"] = primaryText
	data["LevelContext"] = calibration.GreetingContext(iv.Settings.ExperienceLevel)

	text, err := f.generate(ctx, prompts.KeyGreetingSecondary, data)
	if err != nil {
		return step, &APICallError{Message: "failed to generate secondary greeting", Cause: err}
	}
	log.Printf("[GREETING] %s joined the interview (%d chars)", secondary.ID, len(text))

	step.Text = text
	return step, nil
}

// Greet runs both greeting steps in order. On error the steps completed so far
// are returned alongside it.
func (f *Flows) Greet(ctx context.Context, iv Interview) (Greeting, error) {
	var g Greeting
	var err error

	if g.Primary, err = f.PrimaryGreeting(ctx, iv); err != nil {
		return g, err
	}
	if g.Secondary, err = f.SecondaryGreeting(ctx, iv, g.Primary.Text); err != nil {
		return g, err
	}
	return g, nil
}

// PrimaryClosing has the primary persona thank the candidate and invite their questions
func (f *Flows) PrimaryClosing(ctx context.Context, iv Interview, history []types.ConversationTurn, reason string) (string, error) {
	primary := iv.Settings.Primary()
	if strings.TrimSpace(reason) == "" {
		reason = defaultWrapUpReason
	}

	data := baseData(iv, primary)
	data["WrapUpReason"] = reason
	data["ConversationHistory"] = transcript(history, iv.Settings.Personas, iv.CandidateName)

	text, err := f.generate(ctx, prompts.KeyClosingPrimary, data)
	if err != nil {
		return "", &APICallError{Message: "failed to generate primary closing", Cause: err}
	}
	log.Printf("[WRAPUP] %s closed the interview: %s", primary.ID, reason)
	return text, nil
}

// SecondaryClosing has the second persona add next steps and a decision
// timeline. It returns "" without a generator call when there is no second persona.
func (f *Flows) SecondaryClosing(ctx context.Context, iv Interview, primaryText string) (string, error) {
	secondary, ok := iv.Settings.Secondary()
	if !ok {
		return "", nil
	}

	data := baseData(iv, secondary)
	data["ColleagueName"] = iv.Settings.Primary().Name
	data["PreviousText"] = primaryText

	text, err := f.generate(ctx, prompts.KeyClosingSecondary, data)
	if err != nil {
		return "", &APICallError{Message: "failed to generate secondary closing", Cause: err}
	}
	log.Printf("[WRAPUP] %s added next steps", secondary.ID)
	return text, nil
}

// WrapUp runs both closing steps in order
func (f *Flows) WrapUp(ctx context.Context, iv Interview, history []types.ConversationTurn, reason string) (Closing, error) {
	var c Closing
	var err error

	if c.PrimaryClosing, err = f.PrimaryClosing(ctx, iv, history, reason); err != nil {
		return c, err
	}
	if c.SecondaryClosing, err = f.SecondaryClosing(ctx, iv, c.PrimaryClosing); err != nil {
		c.CombinedClosing = c.PrimaryClosing
		return c, err
	}
	c.CombinedClosing = Combine(c.PrimaryClosing, c.SecondaryClosing)
	return c, nil
}

// Combine joins the closing steps, skipping an empty secondary
func Combine(primary, secondary string) string {
	if secondary == "" {
		return primary
	}
	return primary + "\n\n" + secondary
}

func (f *Flows) generate(ctx context.Context, key string, data map[string]string) (string, error) {
	template, err := prompts.Get(prompts.InterviewFile, key)
	if err != nil {
		return "", err
	}

	raw, err := f.client.GenerateContent(ctx, prompts.Format(template, data), f.tier)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(strings.Trim(llm.StripWrapper(raw), `"`))
	if text == "" {
		return "", fmt.Errorf("generator returned empty text for %s", key)
	}
	return text, nil
}

// baseData fills the placeholders every greeting and closing template shares
func baseData(iv Interview, speaker types.Persona) map[string]string {
	return map[string]string{
		"PersonaName":        speaker.Name,
		"PersonaRole":        speaker.DisplayRole,
		"CompanyName":        iv.CompanyName,
		"CompanyDescription": iv.CompanyDescription,
		"CandidateName":      iv.CandidateName,
		"JobTitle":           iv.JobTitle,
		"ExperienceLevel":    string(iv.Settings.ExperienceLevel),
		"ToneGuidance":       calibration.ToneGuidance(speaker.Tone),
		"IntroStyle":         speaker.IntroStyle,
	}
}

func personasIntro(roster []types.Persona) string {
	lines := make([]string, 0, len(roster))
	for i, p := range roster {
		prefix := ""
		if i == 0 {
			prefix = "Primary: "
		}
		lines = append(lines, fmt.Sprintf("%s%s - %s", prefix, p.Name, p.DisplayRole))
	}
	return strings.Join(lines, "\n")
}

func transcript(history []types.ConversationTurn, roster []types.Persona, candidateName string) string {
	if len(history) > closingHistoryWindow {
		history = history[len(history)-closingHistoryWindow:]
	}
	if len(history) == 0 {
		return "(no conversation recorded)"
	}

	lines := make([]string, 0, len(history))
	for _, turn := range history {
		speaker := candidateName
		if turn.Role == types.RoleInterviewer {
			speaker = "Interviewer"
			if p, ok := types.FindPersona(roster, turn.PersonaID); ok {
				speaker = p.Name
			}
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, turn.Content))
	}
	return strings.Join(lines, "\n")
}
