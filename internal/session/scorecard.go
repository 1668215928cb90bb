package session

import "github.com/jonathan/team-interview/internal/types"

// scoredTurn is one evaluation kept for the scorecard
type scoredTurn struct {
	evaluation types.Evaluation
	fallback   bool
}

// buildScorecard aggregates evaluations. Fallback turns carry a synthetic
// score, so they are counted but excluded from the means.
func buildScorecard(turns []scoredTurn) types.Scorecard {
	card := types.Scorecard{
		Criteria:       map[string]float64{},
		Strengths:      []string{},
		AreasToImprove: []string{},
	}

	var total int
	sums := make(map[string]int)
	counts := make(map[string]int)
	seenStrength := make(map[string]bool)
	seenArea := make(map[string]bool)

	for _, turn := range turns {
		if turn.fallback {
			card.FallbackTurns++
			continue
		}
		eval := turn.evaluation
		card.TurnsScored++
		total += eval.Score
		sums[eval.CriterionCovered] += eval.Score
		counts[eval.CriterionCovered]++

		for _, s := range eval.Strengths {
			if !seenStrength[s] {
				seenStrength[s] = true
				card.Strengths = append(card.Strengths, s)
			}
		}
		for _, a := range eval.AreasToImprove {
			if !seenArea[a] {
				seenArea[a] = true
				card.AreasToImprove = append(card.AreasToImprove, a)
			}
		}
	}

	if card.TurnsScored > 0 {
		card.MeanScore = float64(total) / float64(card.TurnsScored)
	}
	for criterion, sum := range sums {
		card.Criteria[criterion] = float64(sum) / float64(counts[criterion])
	}
	return card
}
