package session

import (
	"slices"
	"time"

	"github.com/jonathan/team-interview/internal/types"
)

// Snapshot is a read-only copy of a session's state
type Snapshot struct {
	ID                 string                   `json:"id"`
	ExperienceLevel    types.ExperienceLevel    `json:"experience_level"`
	Phase              Phase                    `json:"phase"`
	ActivePersonaID    string                   `json:"active_persona_id"`
	History            []types.ConversationTurn `json:"history"`
	Backlog            []types.Question         `json:"backlog"`
	CoveredQuestionIDs []string                 `json:"covered_question_ids"`
	Coverage           types.CoverageStatus     `json:"coverage"`
	QuestionsAsked     int                      `json:"questions_asked"`
	MaxQuestions       int                      `json:"max_questions"`
	Closing            string                   `json:"closing,omitempty"`
	Scorecard          types.Scorecard          `json:"scorecard"`
	StartedAt          *time.Time               `json:"started_at,omitempty"`
}

// Snapshot returns a copy of the current state. It does not wait for a turn
// in progress.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ID:                 s.id,
		ExperienceLevel:    s.cfg.Settings.ExperienceLevel,
		Phase:              s.phase,
		ActivePersonaID:    s.activePersonaID,
		History:            append([]types.ConversationTurn{}, s.history...),
		Backlog:            append([]types.Question{}, s.backlog...),
		CoveredQuestionIDs: append([]string{}, s.covered...),
		Coverage:           s.coverage.Clone(),
		QuestionsAsked:     s.questionsAsked,
		MaxQuestions:       s.cfg.Settings.MaxQuestions,
		Scorecard:          buildScorecard(s.scored),
	}
	if s.closing != nil {
		snap.Closing = s.closing.CombinedClosing
	}
	if !s.started.IsZero() {
		started := s.started
		snap.StartedAt = &started
	}
	return snap
}

// BacklogIDs returns the ids of the questions not yet asked or covered
func (s Snapshot) BacklogIDs() []string {
	ids := make([]string, 0, len(s.Backlog))
	for _, q := range s.Backlog {
		ids = append(ids, q.ID)
	}
	return ids
}

// Covered reports whether id was asked or covered
func (s Snapshot) Covered(id string) bool {
	return slices.Contains(s.CoveredQuestionIDs, id)
}
