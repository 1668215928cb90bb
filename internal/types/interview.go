// Package types provides type definitions for structured data used throughout the team interview system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"slices"
	"strings"
)

// ExperienceLevel is the seniority band an interview is calibrated for
type ExperienceLevel string

// Supported experience levels
const (
	LevelIntern ExperienceLevel = "intern"
	LevelJunior ExperienceLevel = "junior"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
	LevelLead   ExperienceLevel = "lead"
)

// AllLevels lists every experience level from least to most senior
var AllLevels = []ExperienceLevel{LevelIntern, LevelJunior, LevelMid, LevelSenior, LevelLead}

// Valid reports whether the level is one of the supported values
func (l ExperienceLevel) Valid() bool {
	return slices.Contains(AllLevels, l)
}

// ParseExperienceLevel converts a user-supplied string to an ExperienceLevel
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	level := ExperienceLevel(strings.ToLower(strings.TrimSpace(s)))
	if !level.Valid() {
		return "", fmt.Errorf("unknown experience level %q (expected one of intern, junior, mid, senior, lead)", s)
	}
	return level, nil
}

// Category groups questions by what they probe
type Category string

// Question categories
const (
	CategoryLearning      Category = "learning"
	CategoryCollaboration Category = "collaboration"
	CategoryTechnical     Category = "technical"
	CategoryCuriosity     Category = "curiosity"
)

// AllCategories is the fixed category order used by selection, coverage and prompts
var AllCategories = []Category{CategoryLearning, CategoryCollaboration, CategoryTechnical, CategoryCuriosity}

// Valid reports whether the category is one of the four known categories
func (c Category) Valid() bool {
	return slices.Contains(AllCategories, c)
}

// Question is one immutable entry of the question bank
type Question struct {
	ID             string   `json:"id" yaml:"id"`
	Category       Category `json:"category" yaml:"category"`
	PersonaRole    string   `json:"persona_role" yaml:"persona_role"` // Which persona typically asks this
	Text           string   `json:"question" yaml:"question"`
	FollowUps      []string `json:"follow_ups" yaml:"follow_ups"`
	LookingFor     []string `json:"looking_for" yaml:"looking_for"` // What a good answer includes
	RedFlags       []string `json:"red_flags" yaml:"red_flags"`     // Warning signs in answers
	SampleArtifact string   `json:"sample_artifact,omitempty" yaml:"sample_artifact,omitempty"`
}

// Tone describes how a persona carries the conversation
type Tone string

// Persona tones
const (
	ToneSupportive  Tone = "supportive"
	ToneCollegial   Tone = "collegial"
	ToneChallenging Tone = "challenging"
	ToneStrategic   Tone = "strategic"
	ToneOther       Tone = "other"
)

// Persona is one simulated interviewer participant
type Persona struct {
	ID          string   `json:"id" yaml:"id" validate:"required"`
	Name        string   `json:"name" yaml:"name" validate:"required"`
	Role        string   `json:"role" yaml:"role" validate:"required"` // e.g. tech_lead, peer_engineer
	DisplayRole string   `json:"display_role" yaml:"display_role" validate:"required"`
	Tone        Tone     `json:"tone" yaml:"tone" validate:"required"`
	FocusAreas  []string `json:"focus_areas" yaml:"focus_areas"`
	IntroStyle  string   `json:"intro_style" yaml:"intro_style"`
}

// Focuses reports whether the persona lists area among its focus areas
func (p Persona) Focuses(area string) bool {
	return slices.Contains(p.FocusAreas, area)
}

// FirstName returns the first word of the persona's name
func (p Persona) FirstName() string {
	if fields := strings.Fields(p.Name); len(fields) > 0 {
		return fields[0]
	}
	return p.Name
}

// FindPersona returns the persona with the given id from a roster
func FindPersona(roster []Persona, id string) (Persona, bool) {
	for _, p := range roster {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

// SpeakerRole identifies who produced a conversation turn
type SpeakerRole string

// Speaker roles
const (
	RoleInterviewer SpeakerRole = "interviewer"
	RoleCandidate   SpeakerRole = "candidate"
)

// ConversationTurn is one entry of the append-only interview transcript
type ConversationTurn struct {
	Role      SpeakerRole `json:"role"`
	Content   string      `json:"content"`
	PersonaID string      `json:"persona_id,omitempty"` // Attributes interviewer turns to a persona
}

// CoverageStatus maps each category to the fraction covered so far (0.0-1.0)
type CoverageStatus map[Category]float64

// Clone returns an independent copy of the coverage map
func (c CoverageStatus) Clone() CoverageStatus {
	out := make(CoverageStatus, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
