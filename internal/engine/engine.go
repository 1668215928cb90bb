package engine

import (
	"context"
	"log"

	"github.com/jonathan/team-interview/internal/llm"
	"github.com/jonathan/team-interview/internal/schemas"
	"github.com/jonathan/team-interview/internal/types"
)

// Engine runs interview turns against a text generator
type Engine struct {
	client llm.Client
	tier   llm.ModelTier
}

// New creates an Engine that generates turns with client
func New(client llm.Client) *Engine {
	return &Engine{client: client, tier: llm.TierStandard}
}

// ProcessTurn produces the outcome of one candidate answer. It never fails:
// generator errors and unusable output degrade to DefaultOutcome.
func (e *Engine) ProcessTurn(ctx context.Context, input TurnInput) types.TurnOutcome {
	prompt := BuildTurnPrompt(input)

	raw, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		log.Printf("[TURN] %s: generation failed, using default outcome: %v", input.ActivePersona.ID, err)
		return DefaultOutcome()
	}

	outcome, err := ParseTurnResponse(raw)
	if err != nil {
		log.Printf("[TURN] %s: %v, using default outcome (raw: %q)", input.ActivePersona.ID, err, truncateRaw(raw))
		return outcome
	}

	// Schema deviations are diagnostic only; coercion already repaired the fields
	if err := schemas.ValidateTurnOutcome(llm.ExtractJSONObject(llm.StripWrapper(raw))); err != nil {
		log.Printf("[TURN] %s: generator output deviates from schema: %v", input.ActivePersona.ID, err)
	}

	return outcome
}

func truncateRaw(raw string) string {
	const limit = 200
	if len(raw) <= limit {
		return raw
	}
	return raw[:limit] + "..."
}
