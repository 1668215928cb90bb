package selection

import (
	"math"

	"github.com/jonathan/team-interview/internal/questions"
	"github.com/jonathan/team-interview/internal/types"
)

// Options tunes a selection run
type Options struct {
	// Seed makes the shuffle deterministic. Nil draws from the process-random source.
	Seed *int64
}

// CategoryTarget returns round(weight/100 * maxQuestions), rounding half away from zero.
// Negative inputs yield zero.
func CategoryTarget(weight, maxQuestions int) int {
	if weight <= 0 || maxQuestions <= 0 {
		return 0
	}
	return int(math.Round(float64(weight) / 100 * float64(maxQuestions)))
}

// SelectQuestions seeds an interview backlog from the bank.
//
// Categories are filled in the fixed order learning, collaboration, technical,
// curiosity: each takes the first CategoryTarget questions of its shuffled pool.
// The concatenation is then cut to maxQuestions, so when rounding overshoots the
// later categories lose questions first. That ordering bias is kept on purpose.
func SelectQuestions(bank *questions.Bank, level types.ExperienceLevel, weights types.QuestionWeights, maxQuestions int, opts Options) []types.Question {
	if bank == nil || maxQuestions <= 0 {
		return []types.Question{}
	}
	return selectFrom(bank.ForLevel(level), weights, maxQuestions, opts)
}

func selectFrom(eligible []types.Question, weights types.QuestionWeights, maxQuestions int, opts Options) []types.Question {
	rng := NewRand(opts.Seed)

	pools := make(map[types.Category][]types.Question, len(types.AllCategories))
	for _, q := range eligible {
		pools[q.Category] = append(pools[q.Category], q)
	}

	selected := make([]types.Question, 0, maxQuestions)
	seen := make(map[string]bool)
	for _, category := range types.AllCategories {
		target := CategoryTarget(weights.For(category), maxQuestions)
		if target == 0 {
			continue
		}
		taken := 0
		for _, q := range Shuffle(pools[category], rng) {
			if taken == target {
				break
			}
			if seen[q.ID] {
				continue
			}
			seen[q.ID] = true
			selected = append(selected, q)
			taken++
		}
	}

	if len(selected) > maxQuestions {
		selected = selected[:maxQuestions]
	}
	return selected
}
