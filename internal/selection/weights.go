package selection

import (
	"github.com/go-playground/validator/v10"
	"github.com/jonathan/team-interview/internal/types"
)

// sumTolerance is how far the weight total may drift from 100 before it is reported
const sumTolerance = 5

var validate = validator.New()

// ValidateWeights checks that every category weight is a percentage in [0,100]
func ValidateWeights(w types.QuestionWeights) error {
	if err := validate.Struct(w); err != nil {
		return &Error{Message: "invalid question weights", Cause: err}
	}
	return nil
}

// SumDrift reports how far the weights total is from 100 and whether that
// exceeds the tolerance. Drift is informational; selection still runs.
func SumDrift(w types.QuestionWeights) (int, bool) {
	drift := w.Sum() - 100
	if drift < 0 {
		drift = -drift
	}
	return drift, drift > sumTolerance
}
