// Package questions provides the static, leveled catalog of team interview questions.
package questions

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"github.com/jonathan/team-interview/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed bank.yaml
var bankYAML []byte

// Bank is an immutable question catalog indexed by experience level.
// All accessors return copies so callers cannot mutate the catalog.
type Bank struct {
	byLevel map[types.ExperienceLevel][]types.Question
	byID    map[string]types.Question
}

var (
	defaultOnce sync.Once
	defaultBank *Bank
	defaultErr  error
)

// Default returns the embedded catalog, decoded once per process
func Default() (*Bank, error) {
	defaultOnce.Do(func() {
		defaultBank, defaultErr = Load(bankYAML)
	})
	return defaultBank, defaultErr
}

// MustDefault is Default for callers that treat a broken embedded catalog as fatal
func MustDefault() *Bank {
	b, err := Default()
	if err != nil {
		panic(err)
	}
	return b
}

// Load decodes a YAML catalog keyed by experience level and validates it.
// Ids must be unique across levels, categories must be known and text non-empty.
func Load(data []byte) (*Bank, error) {
	var raw map[types.ExperienceLevel][]types.Question
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Message: "failed to unmarshal YAML", Cause: err}
	}
	if len(raw[types.LevelIntern]) == 0 {
		return nil, &LoadError{Message: "catalog has no intern questions"}
	}

	b := &Bank{
		byLevel: make(map[types.ExperienceLevel][]types.Question, len(raw)),
		byID:    make(map[string]types.Question),
	}
	for level, qs := range raw {
		if !level.Valid() {
			return nil, &LoadError{Message: fmt.Sprintf("unknown level %q", level)}
		}
		for _, q := range qs {
			if q.ID == "" {
				return nil, &LoadError{Message: fmt.Sprintf("question without id under %s", level)}
			}
			if _, dup := b.byID[q.ID]; dup {
				return nil, &LoadError{Message: fmt.Sprintf("duplicate question id %q", q.ID)}
			}
			if !q.Category.Valid() {
				return nil, &LoadError{Message: fmt.Sprintf("question %s has unknown category %q", q.ID, q.Category)}
			}
			if q.Text == "" {
				return nil, &LoadError{Message: fmt.Sprintf("question %s has empty text", q.ID)}
			}
			b.byID[q.ID] = q
		}
		b.byLevel[level] = qs
	}
	return b, nil
}

// Level returns only the questions tagged with exactly this level
func (b *Bank) Level(level types.ExperienceLevel) []types.Question {
	return slices.Clone(b.byLevel[level])
}

// ForLevel returns the questions eligible for an interview at the given level.
//
// Juniors get their own questions followed by the intern learning and
// collaboration questions; intern technical and curiosity items are skipped.
// Levels without a dedicated set fall back to the intern questions.
func (b *Bank) ForLevel(level types.ExperienceLevel) []types.Question {
	switch level {
	case types.LevelIntern:
		return b.Level(types.LevelIntern)
	case types.LevelJunior:
		out := b.Level(types.LevelJunior)
		for _, q := range b.byLevel[types.LevelIntern] {
			if q.Category == types.CategoryLearning || q.Category == types.CategoryCollaboration {
				out = append(out, q)
			}
		}
		return out
	default:
		if qs, ok := b.byLevel[level]; ok && len(qs) > 0 {
			return slices.Clone(qs)
		}
		return b.Level(types.LevelIntern)
	}
}

// HasDedicatedSet reports whether the level has its own questions rather than the intern fallback
func (b *Bank) HasDedicatedSet(level types.ExperienceLevel) bool {
	return len(b.byLevel[level]) > 0
}

// ForPersona filters qs to the questions a persona would naturally ask: those
// written for the persona's role, or in a category the persona focuses on.
func ForPersona(qs []types.Question, persona types.Persona) []types.Question {
	var out []types.Question
	for _, q := range qs {
		if q.PersonaRole == persona.Role || persona.Focuses(string(q.Category)) {
			out = append(out, q)
		}
	}
	return out
}

// Lookup returns the question with the given id
func (b *Bank) Lookup(id string) (types.Question, bool) {
	q, ok := b.byID[id]
	if !ok {
		return types.Question{}, false
	}
	q.FollowUps = slices.Clone(q.FollowUps)
	q.LookingFor = slices.Clone(q.LookingFor)
	q.RedFlags = slices.Clone(q.RedFlags)
	return q, true
}

// Size returns the total number of questions in the catalog
func (b *Bank) Size() int {
	return len(b.byID)
}
