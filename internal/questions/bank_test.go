package questions

import (
	"testing"

	"github.com/jonathan/team-interview/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countByCategory(qs []types.Question) map[types.Category]int {
	counts := make(map[types.Category]int)
	for _, q := range qs {
		counts[q.Category]++
	}
	return counts
}

func TestDefault_InternCatalog(t *testing.T) {
	bank, err := Default()
	require.NoError(t, err)

	intern := bank.ForLevel(types.LevelIntern)
	require.Len(t, intern, 13)

	counts := countByCategory(intern)
	assert.Equal(t, 4, counts[types.CategoryLearning])
	assert.Equal(t, 4, counts[types.CategoryCollaboration])
	assert.Equal(t, 3, counts[types.CategoryTechnical])
	assert.Equal(t, 2, counts[types.CategoryCuriosity])
}

func TestDefault_SampleArtifact(t *testing.T) {
	q, ok := MustDefault().Lookup("intern_tech_1")
	require.True(t, ok)
	assert.Contains(t, q.SampleArtifact, "showMessge")
	assert.Contains(t, q.SampleArtifact, `onclick="showMessage()"`)
}

func TestForLevel_JuniorSuperset(t *testing.T) {
	bank := MustDefault()

	junior := bank.ForLevel(types.LevelJunior)
	ids := make(map[string]bool)
	for _, q := range junior {
		ids[q.ID] = true
	}

	for _, q := range bank.Level(types.LevelJunior) {
		assert.True(t, ids[q.ID], "junior question %s missing", q.ID)
	}

	expected := len(bank.Level(types.LevelJunior))
	for _, q := range bank.Level(types.LevelIntern) {
		foundational := q.Category == types.CategoryLearning || q.Category == types.CategoryCollaboration
		assert.Equal(t, foundational, ids[q.ID], "intern question %s", q.ID)
		if foundational {
			expected++
		}
	}
	assert.Len(t, junior, expected)
}

func TestForLevel_FallbackToIntern(t *testing.T) {
	bank := MustDefault()
	intern := bank.ForLevel(types.LevelIntern)

	for _, level := range []types.ExperienceLevel{types.LevelMid, types.LevelSenior, types.LevelLead, "unknown"} {
		t.Run(string(level), func(t *testing.T) {
			assert.False(t, bank.HasDedicatedSet(level))
			assert.Equal(t, intern, bank.ForLevel(level))
		})
	}
}

func TestForLevel_ReturnsCopy(t *testing.T) {
	bank := MustDefault()

	first := bank.ForLevel(types.LevelIntern)
	first[0].Text = "mutated"

	second := bank.ForLevel(types.LevelIntern)
	require.Len(t, second, 13)
	assert.NotEqual(t, "mutated", second[0].Text)
}

func TestForPersona(t *testing.T) {
	qs := []types.Question{
		{ID: "a", Category: types.CategoryLearning, PersonaRole: "peer_engineer"},
		{ID: "b", Category: types.CategoryTechnical, PersonaRole: "tech_lead"},
		{ID: "c", Category: types.CategoryCuriosity, PersonaRole: "tech_lead"},
	}
	persona := types.Persona{ID: "p1", Role: "peer_engineer", FocusAreas: []string{"curiosity"}}

	got := ForPersona(qs, persona)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := MustDefault().Lookup("does_not_exist")
	assert.False(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{
			name:    "invalid yaml",
			yaml:    "intern: [",
			message: "failed to unmarshal YAML",
		},
		{
			name:    "no intern set",
			yaml:    "junior:\n  - id: j1\n    category: learning\n    question: hi\n",
			message: "no intern questions",
		},
		{
			name:    "duplicate id",
			yaml:    "intern:\n  - id: a\n    category: learning\n    question: one\n  - id: a\n    category: learning\n    question: two\n",
			message: "duplicate question id",
		},
		{
			name:    "unknown category",
			yaml:    "intern:\n  - id: a\n    category: trivia\n    question: one\n",
			message: "unknown category",
		},
		{
			name:    "unknown level",
			yaml:    "intern:\n  - id: a\n    category: learning\n    question: one\nprincipal:\n  - id: b\n    category: learning\n    question: two\n",
			message: "unknown level",
		},
		{
			name:    "empty text",
			yaml:    "intern:\n  - id: a\n    category: learning\n",
			message: "empty text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			require.Error(t, err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Contains(t, loadErr.Error(), tt.message)
		})
	}
}
