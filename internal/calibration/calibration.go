// Package calibration maps experience levels, tones and persona roles to the
// guidance text injected into interview prompts. Every lookup has a defined
// default, so an unknown key never produces an empty instruction.
package calibration

import (
	"fmt"

	"github.com/jonathan/team-interview/internal/types"
)

// Persona roles with level-specific behavior hints
const (
	RolePeerEngineer = "peer_engineer"
	RoleTechLead     = "tech_lead"
)

// ToneGuidance describes how a persona with the given tone should sound
func ToneGuidance(tone types.Tone) string {
	switch tone {
	case types.ToneSupportive:
		return "warm, encouraging, patient - remember they are early in their career"
	case types.ToneCollegial:
		return "friendly, peer-to-peer, conversational"
	case types.ToneChallenging:
		return "probing, direct, but fair - push for depth"
	case types.ToneStrategic:
		return "big-picture focused, executive-level conversation"
	default:
		return "professional and approachable"
	}
}

// LevelGuidance returns the do/don't block for questioning at a level
func LevelGuidance(level types.ExperienceLevel) string {
	switch level {
	case types.LevelIntern:
		return `- DO ask about: learning approach, asking for help, basic collaboration, curiosity
- DO NOT ask about: system design, leading teams, production incidents, years of experience
- Focus on POTENTIAL over current polish
- Simple, foundational questions only
- Celebrate honest answers about not knowing things`
	case types.LevelJunior:
		return `- Ask about: practical skills, debugging basics, working in a team, receiving feedback
- Expect some gaps in experience - that's normal
- Look for growth mindset and willingness to learn`
	case types.LevelMid:
		return `- Ask about: independent work, code quality, mentoring juniors, technical decisions
- Expect solid fundamentals and some ownership experience
- Look for evidence of growing beyond individual contributor`
	case types.LevelSenior:
		return `- Ask about: system design, technical leadership, mentoring, cross-team influence
- Expect deep technical expertise and leadership evidence
- Look for strategic thinking and organizational impact`
	case types.LevelLead:
		return `- Ask about: team building, technical vision, scaling systems and teams, executive alignment
- Expect organizational-level thinking and impact
- Look for evidence of building and scaling engineering culture`
	default:
		return "- Calibrate questions and expectations to the candidate's stated experience"
	}
}

// PersonaBehavior returns the behavioral hint for a persona at a level.
// Only intern interviews have role-specific hints; other levels share a generic line.
func PersonaBehavior(persona types.Persona, level types.ExperienceLevel) string {
	if level != types.LevelIntern {
		return fmt.Sprintf("Engage at the %s level with appropriate depth and expectations.", level)
	}

	switch persona.Role {
	case RolePeerEngineer:
		return `As a fellow engineer, be relatable and friendly:
- Share brief personal anecdotes about when you were new
- Ask about their learning journey, not their achievements
- Make them feel comfortable admitting what they don't know
- Example: "When I started, I spent hours stuck on a bug before asking for help. How do you handle that kind of situation?"`
	case RoleTechLead:
		return `As the tech lead, be supportive and growth-oriented:
- Focus on their potential, not their current skill level
- Ask about curiosity and enthusiasm for learning
- Look for teachability and self-awareness
- Example: "What would you want to learn in your first month with us?"`
	default:
		return "Be encouraging and focus on potential over polish."
	}
}

// GreetingContext returns the opening calibration used by the greeting prompts
func GreetingContext(level types.ExperienceLevel) string {
	switch level {
	case types.LevelIntern:
		return "This is an intern interview - keep it friendly, low-pressure, and focus on making them comfortable. Ask about their learning journey or what interests them about tech."
	case types.LevelJunior:
		return "This is a junior position - be approachable and ask about their recent projects or what they are learning."
	default:
		return "Engage at the appropriate seniority level."
	}
}

// ScoringAnchors returns the score bands injected verbatim into every turn prompt
func ScoringAnchors(level types.ExperienceLevel) string {
	return fmt.Sprintf(`EVALUATION CALIBRATION for %s:
- Score 8-10: Exceeds expectations for this level
- Score 6-7: Meets expectations for this level
- Score 4-5: Slightly below expectations
- Score 1-3: Significantly below expectations
Remember: An intern giving a solid learning-focused answer is an 8, not a 5.`, level)
}
