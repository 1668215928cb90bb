package calibration

import (
	"testing"

	"github.com/jonathan/team-interview/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestToneGuidance(t *testing.T) {
	tests := []struct {
		tone     types.Tone
		expected string
	}{
		{types.ToneSupportive, "warm, encouraging, patient - remember they are early in their career"},
		{types.ToneCollegial, "friendly, peer-to-peer, conversational"},
		{types.ToneChallenging, "probing, direct, but fair - push for depth"},
		{types.ToneStrategic, "big-picture focused, executive-level conversation"},
		{types.ToneOther, "professional and approachable"},
		{"", "professional and approachable"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tone), func(t *testing.T) {
			assert.Equal(t, tt.expected, ToneGuidance(tt.tone))
		})
	}
}

func TestLevelGuidance(t *testing.T) {
	for _, level := range types.AllLevels {
		assert.NotEmpty(t, LevelGuidance(level), "level %s", level)
	}
	assert.Contains(t, LevelGuidance(types.LevelIntern), "DO NOT ask about: system design")
	assert.Contains(t, LevelGuidance(types.LevelLead), "engineering culture")
	assert.NotEmpty(t, LevelGuidance("principal"))
}

func TestPersonaBehavior(t *testing.T) {
	peer := types.Persona{ID: "p", Role: RolePeerEngineer}
	lead := types.Persona{ID: "l", Role: RoleTechLead}
	pm := types.Persona{ID: "pm", Role: "product_partner"}

	assert.Contains(t, PersonaBehavior(peer, types.LevelIntern), "As a fellow engineer")
	assert.Contains(t, PersonaBehavior(lead, types.LevelIntern), "As the tech lead")
	assert.Equal(t, "Be encouraging and focus on potential over polish.", PersonaBehavior(pm, types.LevelIntern))

	for _, level := range []types.ExperienceLevel{types.LevelJunior, types.LevelMid, types.LevelSenior, types.LevelLead} {
		assert.Equal(t, "Engage at the "+string(level)+" level with appropriate depth and expectations.", PersonaBehavior(peer, level))
	}
}

func TestGreetingContext(t *testing.T) {
	assert.Contains(t, GreetingContext(types.LevelIntern), "low-pressure")
	assert.Contains(t, GreetingContext(types.LevelJunior), "recent projects")
	assert.Equal(t, "Engage at the appropriate seniority level.", GreetingContext(types.LevelSenior))
}

func TestScoringAnchors(t *testing.T) {
	anchors := ScoringAnchors(types.LevelIntern)
	assert.Contains(t, anchors, "EVALUATION CALIBRATION for intern:")
	assert.Contains(t, anchors, "- Score 8-10: Exceeds expectations for this level")
	assert.Contains(t, anchors, "- Score 6-7: Meets expectations for this level")
	assert.Contains(t, anchors, "- Score 4-5: Slightly below expectations")
	assert.Contains(t, anchors, "- Score 1-3: Significantly below expectations")
	assert.Contains(t, anchors, "is an 8, not a 5")
}
