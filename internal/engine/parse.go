package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/team-interview/internal/llm"
	"github.com/jonathan/team-interview/internal/types"
)

// Defaults applied when the generator omits or garbles a field
const (
	defaultResponse             = "That's interesting. Tell me more."
	fallbackResponse            = "Thanks for sharing that. Let me ask you something else."
	defaultScore                = 5
	minScore                    = 1
	maxScore                    = 10
	defaultCriterion            = types.CriterionLearningMindset
	defaultCoverageContribution = 0.1
	maxCoverageContribution     = 0.3
)

// DefaultOutcome is the safe outcome substituted for an unusable generation
func DefaultOutcome() types.TurnOutcome {
	return types.TurnOutcome{
		Response:   fallbackResponse,
		ActionType: types.ActionContinue,
		Evaluation: types.Evaluation{
			Score:                defaultScore,
			Strengths:            []string{},
			AreasToImprove:       []string{},
			CriterionCovered:     defaultCriterion,
			CoverageContribution: defaultCoverageContribution,
		},
		CoveredQuestionIDs:     []string{},
		CandidateAskedQuestion: false,
		Fallback:               true,
	}
}

// ParseTurnResponse decodes raw generator output into a TurnOutcome. Wrapper
// artifacts are stripped first, then each field is coerced with its default.
// On failure it returns DefaultOutcome and a *ParseError.
func ParseTurnResponse(raw string) (types.TurnOutcome, error) {
	obj := llm.ExtractJSONObject(llm.StripWrapper(raw))
	if obj == "" {
		return DefaultOutcome(), &ParseError{Message: "no JSON object in generator output"}
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return DefaultOutcome(), &ParseError{Message: "failed to decode turn JSON", Cause: err}
	}

	return coerceOutcome(fields), nil
}

func coerceOutcome(fields map[string]any) types.TurnOutcome {
	out := types.TurnOutcome{
		Response:               stringField(fields, "response"),
		ActionType:             types.ActionType(stringField(fields, "actionType")),
		QuestionID:             stringField(fields, "questionId"),
		NextPersonaID:          stringField(fields, "nextPersonaId"),
		HandOffIntro:           stringField(fields, "handOffIntro"),
		CoveredQuestionIDs:     stringsField(fields, "coveredQuestionIds"),
		CandidateAskedQuestion: boolField(fields, "candidateAskedQuestion"),
		WrapUpReason:           stringField(fields, "wrapUpReason"),
	}
	if out.Response == "" {
		out.Response = defaultResponse
	}
	if !out.ActionType.Valid() {
		out.ActionType = types.ActionContinue
	}

	eval, _ := fields["evaluation"].(map[string]any)
	out.Evaluation = types.Evaluation{
		Score:                defaultScore,
		Strengths:            stringsField(eval, "strengths"),
		AreasToImprove:       stringsField(eval, "areasToImprove"),
		CriterionCovered:     stringField(eval, "criterionCovered"),
		CoverageContribution: defaultCoverageContribution,
	}
	if score, ok := numberField(eval, "score"); ok {
		out.Evaluation.Score = int(math.Max(minScore, math.Min(maxScore, math.Round(score))))
	}
	if contribution, ok := numberField(eval, "coverageContribution"); ok {
		out.Evaluation.CoverageContribution = math.Max(0, math.Min(maxCoverageContribution, contribution))
	}
	if out.Evaluation.CriterionCovered == "" {
		out.Evaluation.CriterionCovered = defaultCriterion
	}

	return out
}

// stringField returns a trimmed string value, or "" for missing and non-string values
func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return strings.TrimSpace(s)
}

// stringsField returns the non-empty string items of an array value
func stringsField(fields map[string]any, key string) []string {
	items, _ := fields[key].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// numberField accepts JSON numbers and numeric strings
func numberField(fields map[string]any, key string) (float64, bool) {
	switch v := fields[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// boolField accepts JSON booleans and "true"/"false" strings
func boolField(fields map[string]any, key string) bool {
	switch v := fields[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	default:
		return false
	}
}
