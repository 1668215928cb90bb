// Package presets provides the per-level team interview settings: persona
// rosters, category weights, evaluation rubric and question limits.
package presets

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/team-interview/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// FallbackLevel is used when a seniority string does not name a known level
const FallbackLevel = types.LevelJunior

// Table is an immutable preset table keyed by experience level
type Table struct {
	levels map[types.ExperienceLevel]types.TeamInterviewSettings
}

type document struct {
	Levels map[types.ExperienceLevel]types.TeamInterviewSettings `yaml:"levels"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
	validate     = validator.New()
)

// Default returns the embedded preset table, decoded once per process
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Load(presetsYAML)
	})
	return defaultTable, defaultErr
}

// MustDefault is Default for callers that treat a broken embedded table as fatal
func MustDefault() *Table {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// Load decodes a preset document and checks that every experience level
// resolves to a non-empty roster and a non-empty rubric.
func Load(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Message: "failed to unmarshal YAML", Cause: err}
	}

	for _, level := range types.AllLevels {
		settings, ok := doc.Levels[level]
		if !ok {
			return nil, &LoadError{Message: fmt.Sprintf("missing settings for level %s", level)}
		}
		if settings.ExperienceLevel != level {
			return nil, &LoadError{Message: fmt.Sprintf("settings under %s declare level %q", level, settings.ExperienceLevel)}
		}
		if err := validate.Struct(settings); err != nil {
			return nil, &LoadError{Message: fmt.Sprintf("invalid settings for level %s", level), Cause: err}
		}
		if err := checkRoster(settings.Personas); err != nil {
			return nil, &LoadError{Message: fmt.Sprintf("invalid roster for level %s", level), Cause: err}
		}
	}

	return &Table{levels: doc.Levels}, nil
}

func checkRoster(personas []types.Persona) error {
	seen := make(map[string]bool, len(personas))
	for _, p := range personas {
		if seen[p.ID] {
			return fmt.Errorf("duplicate persona id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// Settings returns a copy of the settings for a level
func (t *Table) Settings(level types.ExperienceLevel) (types.TeamInterviewSettings, bool) {
	s, ok := t.levels[level]
	if !ok {
		return types.TeamInterviewSettings{}, false
	}
	return clone(s), true
}

// ForSeniority resolves a free-form seniority string to its settings.
// Strings that are not a known level resolve to the junior preset.
func (t *Table) ForSeniority(seniority string) types.TeamInterviewSettings {
	level := types.ExperienceLevel(strings.ToLower(strings.TrimSpace(seniority)))
	if !level.Valid() {
		level = FallbackLevel
	}
	s, _ := t.Settings(level)
	return s
}

// LevelExpectationsText renders one "criterion: expectation" line per rubric
// entry for the settings' own level. An empty rubric yields an empty string.
func LevelExpectationsText(settings types.TeamInterviewSettings) string {
	if len(settings.EvaluationRubric) == 0 {
		return ""
	}
	lines := make([]string, 0, len(settings.EvaluationRubric))
	for _, r := range settings.EvaluationRubric {
		lines = append(lines, fmt.Sprintf("%s: %s", r.Criterion, r.LevelExpectations[settings.ExperienceLevel]))
	}
	return strings.Join(lines, "\n")
}

func clone(s types.TeamInterviewSettings) types.TeamInterviewSettings {
	out := s
	out.Personas = make([]types.Persona, len(s.Personas))
	for i, p := range s.Personas {
		p.FocusAreas = slices.Clone(p.FocusAreas)
		out.Personas[i] = p
	}
	out.EvaluationRubric = make([]types.RubricCriterion, len(s.EvaluationRubric))
	for i, r := range s.EvaluationRubric {
		expectations := make(map[types.ExperienceLevel]string, len(r.LevelExpectations))
		for k, v := range r.LevelExpectations {
			expectations[k] = v
		}
		r.LevelExpectations = expectations
		out.EvaluationRubric[i] = r
	}
	return out
}
