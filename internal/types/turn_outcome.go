package types

// ActionType is the state transition a turn outcome asks the caller to perform
type ActionType string

// Turn actions
const (
	ActionContinue       ActionType = "continue"
	ActionFollowUp       ActionType = "follow_up"
	ActionHandOff        ActionType = "hand_off"
	ActionWrapUp         ActionType = "wrap_up"
	ActionAnswerQuestion ActionType = "answer_question"
)

// Valid reports whether the action is one of the known turn actions
func (a ActionType) Valid() bool {
	switch a {
	case ActionContinue, ActionFollowUp, ActionHandOff, ActionWrapUp, ActionAnswerQuestion:
		return true
	default:
		return false
	}
}

// Evaluation is the scored assessment of the candidate's last answer
type Evaluation struct {
	Score                int      `json:"score"` // 1-10, calibrated to the interview level
	Strengths            []string `json:"strengths"`
	AreasToImprove       []string `json:"areasToImprove"`
	CriterionCovered     string   `json:"criterionCovered"`
	CoverageContribution float64  `json:"coverageContribution"` // 0.0-0.3
}

// TurnOutcome is the result of one engine turn. JSON field names follow the
// generator's response contract.
type TurnOutcome struct {
	Response               string     `json:"response"`
	ActionType             ActionType `json:"actionType"`
	QuestionID             string     `json:"questionId,omitempty"`
	NextPersonaID          string     `json:"nextPersonaId,omitempty"`
	HandOffIntro           string     `json:"handOffIntro,omitempty"`
	Evaluation             Evaluation `json:"evaluation"`
	CoveredQuestionIDs     []string   `json:"coveredQuestionIds"`
	CandidateAskedQuestion bool       `json:"candidateAskedQuestion"`
	WrapUpReason           string     `json:"wrapUpReason,omitempty"`

	// Fallback is set when the safe default replaced an unusable generation
	Fallback bool `json:"-"`
}

// EffectiveAction returns the action the caller should apply. A hand-off that
// does not name the next persona is treated as continue.
func (o TurnOutcome) EffectiveAction() ActionType {
	if o.ActionType == ActionHandOff && o.NextPersonaID == "" {
		return ActionContinue
	}
	if !o.ActionType.Valid() {
		return ActionContinue
	}
	return o.ActionType
}

// EffectiveActionFor is EffectiveAction with the hand-off target additionally
// checked against the roster.
func (o TurnOutcome) EffectiveActionFor(roster []Persona) ActionType {
	action := o.EffectiveAction()
	if action != ActionHandOff {
		return action
	}
	if _, ok := FindPersona(roster, o.NextPersonaID); !ok {
		return ActionContinue
	}
	return action
}
