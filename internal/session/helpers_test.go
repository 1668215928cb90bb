package session

import (
	"context"
	"sync"
	"testing"

	"github.com/jonathan/team-interview/internal/engine"
	"github.com/jonathan/team-interview/internal/flows"
	"github.com/jonathan/team-interview/internal/llm/llmtest"
	"github.com/jonathan/team-interview/internal/observability"
	"github.com/jonathan/team-interview/internal/presets"
	"github.com/jonathan/team-interview/internal/questions"
	"github.com/jonathan/team-interview/internal/types"
	"github.com/stretchr/testify/require"
)

// scriptedEngine replays fixed outcomes, then the default outcome
type scriptedEngine struct {
	mu       sync.Mutex
	outcomes []types.TurnOutcome
	inputs   []engine.TurnInput
}

func (e *scriptedEngine) ProcessTurn(_ context.Context, input engine.TurnInput) types.TurnOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inputs = append(e.inputs, input)
	if len(e.outcomes) == 0 {
		return engine.DefaultOutcome()
	}
	o := e.outcomes[0]
	e.outcomes = e.outcomes[1:]
	return o
}

// recordingMetrics counts what a session reports
type recordingMetrics struct {
	mu       sync.Mutex
	turns    []observability.TurnRecord
	sessions []observability.SessionRecord
}

func (m *recordingMetrics) RecordTurn(_ context.Context, r observability.TurnRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, r)
}

func (m *recordingMetrics) RecordSession(_ context.Context, r observability.SessionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, r)
}

func (m *recordingMetrics) Close(context.Context) error { return nil }

func outcome(action types.ActionType, questionID string, covered ...string) types.TurnOutcome {
	return types.TurnOutcome{
		Response:   "Interviewer reply",
		ActionType: action,
		QuestionID: questionID,
		Evaluation: types.Evaluation{
			Score:                7,
			Strengths:            []string{"clear"},
			AreasToImprove:       []string{},
			CriterionCovered:     types.CriterionLearningMindset,
			CoverageContribution: 0.1,
		},
		CoveredQuestionIDs: append([]string{}, covered...),
	}
}

func internSettings(t *testing.T) types.TeamInterviewSettings {
	t.Helper()
	settings, ok := presets.MustDefault().Settings(types.LevelIntern)
	require.True(t, ok)
	return settings
}

func testConfig(t *testing.T) Config {
	seed := int64(42)
	return Config{
		Settings:           internSettings(t),
		CompanyName:        "Acme Corp",
		CompanyDescription: "Developer tooling",
		JobTitle:           "Software Engineering Intern",
		CandidateName:      "Sam",
		Seed:               &seed,
	}
}

func testDeps(eng TurnEngine, narrator Narrator, metrics observability.Metrics) Dependencies {
	if narrator == nil {
		narrator = flows.New(&llmtest.MockClient{GenerateContentFunc: llmtest.Script("Hello from the team!")})
	}
	return Dependencies{
		Bank:     questions.MustDefault(),
		Engine:   eng,
		Narrator: narrator,
		Metrics:  metrics,
	}
}

func startedSession(t *testing.T, eng TurnEngine) *Session {
	t.Helper()
	s, err := New(testConfig(t), testDeps(eng, nil, nil))
	require.NoError(t, err)
	_, err = s.Start(context.Background())
	require.NoError(t, err)
	return s
}
