// Package session drives one team interview from greeting to wrap-up. It owns
// the mutable interview state and merges every turn outcome into it atomically.
package session

import (
	"context"
	"fmt"
	"log"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/team-interview/internal/engine"
	"github.com/jonathan/team-interview/internal/flows"
	"github.com/jonathan/team-interview/internal/observability"
	"github.com/jonathan/team-interview/internal/presets"
	"github.com/jonathan/team-interview/internal/questions"
	"github.com/jonathan/team-interview/internal/selection"
	"github.com/jonathan/team-interview/internal/types"
)

// historyWindow is the number of trailing turns handed to the engine
const historyWindow = 10

// Wrap-up reasons recorded when the generator did not give one
const (
	reasonMaxQuestions = "maximum number of questions reached"
	reasonRequested    = "interview ended on request"
)

// Phase is the lifecycle stage of a session
type Phase string

// Session phases
const (
	PhaseNew          Phase = "new"
	PhaseGreeting     Phase = "greeting"
	PhaseInterviewing Phase = "interviewing"
	PhaseWrappedUp    Phase = "wrapped_up"
)

// TurnEngine decides the outcome of one candidate answer
type TurnEngine interface {
	ProcessTurn(ctx context.Context, input engine.TurnInput) types.TurnOutcome
}

// Narrator generates the opening and closing lines
type Narrator interface {
	PrimaryGreeting(ctx context.Context, iv flows.Interview) (flows.GreetingStep, error)
	SecondaryGreeting(ctx context.Context, iv flows.Interview, primaryText string) (flows.GreetingStep, error)
	WrapUp(ctx context.Context, iv flows.Interview, history []types.ConversationTurn, reason string) (flows.Closing, error)
}

// Config describes one interview
type Config struct {
	Settings           types.TeamInterviewSettings
	CompanyName        string
	CompanyDescription string
	JobTitle           string
	CandidateName      string
	Seed               *int64 // Deterministic backlog selection
}

// Dependencies are the collaborators shared by every session
type Dependencies struct {
	Bank     *questions.Bank
	Engine   TurnEngine
	Narrator Narrator
	Metrics  observability.Metrics // Optional; defaults to a no-op recorder
}

// TurnResult reports what one candidate answer led to
type TurnResult struct {
	Outcome         types.TurnOutcome
	Action          types.ActionType // Action actually applied
	Speaker         types.Persona    // Persona who gave the response
	Text            string           // Response as recorded, including any hand-off intro
	ActivePersonaID string           // Persona active after the turn
	Closing         *flows.Closing   // Set when the turn ended the interview
}

// WrappedUp reports whether the turn ended the interview
func (r TurnResult) WrappedUp() bool {
	return r.Closing != nil
}

// Session is one team interview. Turns are serialized; Snapshot may be called
// concurrently with a turn in progress.
type Session struct {
	id    string
	cfg   Config
	deps  Dependencies
	iv    flows.Interview
	level string

	turnMu sync.Mutex // Serializes Start, Respond and Finish

	mu              sync.RWMutex // Guards the fields below
	phase           Phase
	history         []types.ConversationTurn
	backlog         []types.Question
	covered         []string
	coverage        types.CoverageStatus
	questionsAsked  int
	activePersonaID string
	current         *types.Question
	scored          []scoredTurn
	closing         *flows.Closing
	started         time.Time
}

// New creates a session in the new phase
func New(cfg Config, deps Dependencies) (*Session, error) {
	if len(cfg.Settings.Personas) == 0 {
		return nil, fmt.Errorf("session settings have no personas")
	}
	if cfg.Settings.MaxQuestions <= 0 {
		return nil, fmt.Errorf("session settings need a positive max questions, got %d", cfg.Settings.MaxQuestions)
	}
	if deps.Bank == nil || deps.Engine == nil || deps.Narrator == nil {
		return nil, fmt.Errorf("session requires a question bank, an engine and a narrator")
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewNoOpMetrics()
	}

	coverage := make(types.CoverageStatus, len(types.AllCategories))
	for _, c := range types.AllCategories {
		coverage[c] = 0
	}

	return &Session{
		id:   uuid.New().String(),
		cfg:  cfg,
		deps: deps,
		iv: flows.Interview{
			Settings:           cfg.Settings,
			CompanyName:        cfg.CompanyName,
			CompanyDescription: cfg.CompanyDescription,
			JobTitle:           cfg.JobTitle,
			CandidateName:      cfg.CandidateName,
		},
		level:           string(cfg.Settings.ExperienceLevel),
		phase:           PhaseNew,
		coverage:        coverage,
		activePersonaID: cfg.Settings.Primary().ID,
	}, nil
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Phase returns the current lifecycle phase
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Settings returns the interview preset the session runs with
func (s *Session) Settings() types.TeamInterviewSettings {
	return s.cfg.Settings
}

// Start selects the question backlog and runs the greeting. Greeting
// generation failures fall back to each persona's intro style.
func (s *Session) Start(ctx context.Context) (flows.Greeting, error) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.mu.Lock()
	if s.phase != PhaseNew {
		s.mu.Unlock()
		return flows.Greeting{}, ErrAlreadyStarted
	}
	settings := s.cfg.Settings
	s.backlog = selection.SelectQuestions(s.deps.Bank, settings.ExperienceLevel, settings.QuestionWeights, settings.MaxQuestions, selection.Options{Seed: s.cfg.Seed})
	s.phase = PhaseGreeting
	s.started = time.Now()
	s.mu.Unlock()

	log.Printf("[SESSION] %s: starting %s interview with %d questions in the backlog", s.id, s.level, len(s.backlog))

	var g flows.Greeting
	var err error

	g.Primary, err = s.deps.Narrator.PrimaryGreeting(ctx, s.iv)
	if err != nil {
		log.Printf("[SESSION] %s: primary greeting failed, using intro style: %v", s.id, err)
		g.Primary = introFallback(settings.Primary(), s.cfg.CandidateName)
	}

	g.Secondary, err = s.deps.Narrator.SecondaryGreeting(ctx, s.iv, g.Primary.Text)
	if err != nil {
		log.Printf("[SESSION] %s: secondary greeting failed, using intro style: %v", s.id, err)
		if secondary, ok := settings.Secondary(); ok {
			g.Secondary = introFallback(secondary, s.cfg.CandidateName)
		} else {
			g.Secondary = flows.GreetingStep{ActivePersonaID: g.Primary.ActivePersonaID}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, step := range []flows.GreetingStep{g.Primary, g.Secondary} {
		if step.Text != "" {
			s.appendInterviewer(step.ActivePersonaID, step.Text)
		}
	}
	if g.Secondary.ActivePersonaID != "" {
		s.activePersonaID = g.Secondary.ActivePersonaID
	}
	s.phase = PhaseInterviewing

	return g, nil
}

// introFallback opens the conversation with the persona's configured intro style
func introFallback(p types.Persona, candidateName string) flows.GreetingStep {
	text := strings.TrimSpace(p.IntroStyle)
	if text == "" {
		text = fmt.Sprintf("Hi %s, I'm %s, %s. Thanks for joining us today.", candidateName, p.Name, p.DisplayRole)
	}
	return flows.GreetingStep{Text: text, ActivePersonaID: p.ID}
}

// Respond records the candidate's answer, runs one engine turn and merges its
// outcome. Reaching the question limit or a wrap_up action ends the interview.
func (s *Session) Respond(ctx context.Context, answer string) (TurnResult, error) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return TurnResult{}, ErrEmptyAnswer
	}

	s.mu.Lock()
	if err := s.checkOpen(); err != nil {
		s.mu.Unlock()
		return TurnResult{}, err
	}
	s.history = append(s.history, types.ConversationTurn{Role: types.RoleCandidate, Content: answer})
	input := s.turnInput()
	s.mu.Unlock()

	start := time.Now()
	outcome := s.deps.Engine.ProcessTurn(ctx, input)

	s.mu.Lock()
	result := s.merge(outcome)
	reason := ""
	switch {
	case result.Action == types.ActionWrapUp:
		reason = outcome.WrapUpReason
		if reason == "" {
			reason = "interviewer wrapped up"
		}
	case s.questionsAsked >= s.cfg.Settings.MaxQuestions:
		reason = reasonMaxQuestions
	}
	s.mu.Unlock()

	s.deps.Metrics.RecordTurn(ctx, observability.TurnRecord{
		Level:    s.level,
		Persona:  result.Speaker.ID,
		Action:   string(result.Action),
		Score:    outcome.Evaluation.Score,
		HandOff:  result.Action == types.ActionHandOff,
		Fallback: outcome.Fallback,
		Duration: time.Since(start),
	})

	if reason != "" {
		closing := s.wrapUp(ctx, reason)
		result.Closing = &closing
	}
	return result, nil
}

// Finish ends the interview on request and returns the closing
func (s *Session) Finish(ctx context.Context) (flows.Closing, error) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.mu.RLock()
	err := s.checkOpen()
	s.mu.RUnlock()
	if err != nil {
		return flows.Closing{}, err
	}

	return s.wrapUp(ctx, reasonRequested), nil
}

// checkOpen requires s.mu
func (s *Session) checkOpen() error {
	switch s.phase {
	case PhaseNew, PhaseGreeting:
		return ErrNotStarted
	case PhaseWrappedUp:
		return ErrSessionClosed
	default:
		return nil
	}
}

// turnInput requires s.mu
func (s *Session) turnInput() engine.TurnInput {
	active, _ := types.FindPersona(s.cfg.Settings.Personas, s.activePersonaID)

	history := s.history
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	input := engine.TurnInput{
		ActivePersona:       active,
		AllPersonas:         s.cfg.Settings.Personas,
		ExperienceLevel:     s.cfg.Settings.ExperienceLevel,
		CompanyName:         s.cfg.CompanyName,
		CompanyDescription:  s.cfg.CompanyDescription,
		JobTitle:            s.cfg.JobTitle,
		CandidateName:       s.cfg.CandidateName,
		ConversationHistory: slices.Clone(history),
		QuestionBacklog:     slices.Clone(s.backlog),
		CoverageStatus:      s.coverage.Clone(),
		QuestionsAskedCount: s.questionsAsked,
		MaxQuestions:        s.cfg.Settings.MaxQuestions,
		LevelExpectations:   presets.LevelExpectationsText(s.cfg.Settings),
	}
	if s.current != nil {
		input.CurrentQuestionID = s.current.ID
		input.CurrentQuestionText = s.current.Text
	}
	return input
}

// merge applies a turn outcome to the session state. It requires s.mu.
func (s *Session) merge(outcome types.TurnOutcome) TurnResult {
	roster := s.cfg.Settings.Personas
	speaker, _ := types.FindPersona(roster, s.activePersonaID)
	answered := s.current

	// The asked question leaves the backlog and becomes the one under discussion
	if q, ok := s.takeFromBacklog(outcome.QuestionID); ok {
		s.questionsAsked++
		s.current = &q
	}
	for _, id := range outcome.CoveredQuestionIDs {
		s.takeFromBacklog(id)
	}

	if category, ok := s.coverageCategory(outcome.Evaluation.CriterionCovered, answered); ok {
		value := s.coverage[category] + outcome.Evaluation.CoverageContribution
		s.coverage[category] = math.Max(0, math.Min(1, value))
	}

	action := outcome.EffectiveActionFor(roster)
	text := outcome.Response
	if action == types.ActionHandOff {
		if intro := strings.TrimSpace(outcome.HandOffIntro); intro != "" && !strings.Contains(text, intro) {
			text = text + " " + intro
		}
	}
	s.appendInterviewer(speaker.ID, text)
	if action == types.ActionHandOff {
		log.Printf("[SESSION] %s: hand-off %s -> %s", s.id, speaker.ID, outcome.NextPersonaID)
		s.activePersonaID = outcome.NextPersonaID
	}

	s.scored = append(s.scored, scoredTurn{evaluation: outcome.Evaluation, fallback: outcome.Fallback})

	return TurnResult{
		Outcome:         outcome,
		Action:          action,
		Speaker:         speaker,
		Text:            text,
		ActivePersonaID: s.activePersonaID,
	}
}

// takeFromBacklog removes the question with id from the backlog and records it
// as covered. It requires s.mu.
func (s *Session) takeFromBacklog(id string) (types.Question, bool) {
	if id == "" {
		return types.Question{}, false
	}
	i := slices.IndexFunc(s.backlog, func(q types.Question) bool { return q.ID == id })
	if i < 0 {
		return types.Question{}, false
	}
	q := s.backlog[i]
	s.backlog = slices.Delete(s.backlog, i, i+1)
	s.covered = append(s.covered, id)
	return q, true
}

// coverageCategory maps a rubric criterion to a category, falling back to the
// category of the question that was being answered.
func (s *Session) coverageCategory(criterion string, answered *types.Question) (types.Category, bool) {
	if c, ok := types.CriterionCategory(criterion); ok {
		return c, true
	}
	if answered != nil {
		return answered.Category, true
	}
	return "", false
}

// appendInterviewer requires s.mu
func (s *Session) appendInterviewer(personaID, text string) {
	s.history = append(s.history, types.ConversationTurn{
		Role:      types.RoleInterviewer,
		Content:   text,
		PersonaID: personaID,
	})
}

// wrapUp generates the closing and moves the session to wrapped_up. It must
// be called with turnMu held and s.mu released.
func (s *Session) wrapUp(ctx context.Context, reason string) flows.Closing {
	s.mu.RLock()
	history := slices.Clone(s.history)
	s.mu.RUnlock()

	log.Printf("[SESSION] %s: wrapping up: %s", s.id, reason)

	closing, err := s.deps.Narrator.WrapUp(ctx, s.iv, history, reason)
	if err != nil {
		log.Printf("[SESSION] %s: closing generation failed, using fallback: %v", s.id, err)
		if closing.PrimaryClosing == "" {
			closing.PrimaryClosing = fmt.Sprintf("Thank you for your time today, %s. Do you have any questions for us?", s.cfg.CandidateName)
		}
		closing.CombinedClosing = flows.Combine(closing.PrimaryClosing, closing.SecondaryClosing)
	}

	s.mu.Lock()
	s.appendInterviewer(s.cfg.Settings.Primary().ID, closing.PrimaryClosing)
	if secondary, ok := s.cfg.Settings.Secondary(); ok && closing.SecondaryClosing != "" {
		s.appendInterviewer(secondary.ID, closing.SecondaryClosing)
	}
	s.phase = PhaseWrappedUp
	s.closing = &closing
	card := buildScorecard(s.scored)
	record := observability.SessionRecord{
		Level:          s.level,
		Turns:          len(s.scored),
		QuestionsAsked: s.questionsAsked,
		MeanScore:      card.MeanScore,
	}
	s.mu.Unlock()

	s.deps.Metrics.RecordSession(ctx, record)
	return closing
}
