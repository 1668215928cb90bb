package types

// Rubric criteria used by the evaluation rubric and the turn response contract
const (
	CriterionLearningMindset      = "learning_mindset"
	CriterionCollaboration        = "collaboration"
	CriterionProblemSolving       = "problem_solving"
	CriterionTechnicalFoundations = "technical_foundations"
)

// criterionCategories maps rubric criteria onto the coverage category they advance
var criterionCategories = map[string]Category{
	CriterionLearningMindset:      CategoryLearning,
	CriterionCollaboration:        CategoryCollaboration,
	CriterionProblemSolving:       CategoryTechnical,
	CriterionTechnicalFoundations: CategoryTechnical,
	string(CategoryCuriosity):     CategoryCuriosity,
}

// CriterionCategory returns the coverage category advanced by a rubric criterion.
// Category names are accepted as criteria too.
func CriterionCategory(criterion string) (Category, bool) {
	if c, ok := criterionCategories[criterion]; ok {
		return c, true
	}
	if c := Category(criterion); c.Valid() {
		return c, true
	}
	return "", false
}

// QuestionWeights are the percentage targets per category for one interview
type QuestionWeights struct {
	Learning      int `json:"learning" yaml:"learning" validate:"min=0,max=100"`
	Collaboration int `json:"collaboration" yaml:"collaboration" validate:"min=0,max=100"`
	Technical     int `json:"technical" yaml:"technical" validate:"min=0,max=100"`
	Curiosity     int `json:"curiosity" yaml:"curiosity" validate:"min=0,max=100"`
}

// For returns the weight of a single category
func (w QuestionWeights) For(c Category) int {
	switch c {
	case CategoryLearning:
		return w.Learning
	case CategoryCollaboration:
		return w.Collaboration
	case CategoryTechnical:
		return w.Technical
	case CategoryCuriosity:
		return w.Curiosity
	default:
		return 0
	}
}

// Sum returns the total of all four weights
func (w QuestionWeights) Sum() int {
	return w.Learning + w.Collaboration + w.Technical + w.Curiosity
}

// RubricCriterion is one scored dimension with per-level expectations
type RubricCriterion struct {
	Criterion         string                     `json:"criterion" yaml:"criterion" validate:"required"`
	Weight            int                        `json:"weight" yaml:"weight" validate:"min=0,max=100"`
	LevelExpectations map[ExperienceLevel]string `json:"level_expectations" yaml:"level_expectations" validate:"required,min=1"`
}

// ArtifactComplexity is the sophistication of supporting artifacts shown to the candidate
type ArtifactComplexity string

// Artifact complexities
const (
	ComplexitySimple   ArtifactComplexity = "simple"
	ComplexityModerate ArtifactComplexity = "moderate"
	ComplexityComplex  ArtifactComplexity = "complex"
)

// TeamInterviewSettings is the preset configuration for one experience level
type TeamInterviewSettings struct {
	ExperienceLevel    ExperienceLevel    `json:"experience_level" yaml:"experience_level" validate:"required"`
	Personas           []Persona          `json:"personas" yaml:"personas" validate:"required,min=1,dive"`
	QuestionWeights    QuestionWeights    `json:"question_weights" yaml:"question_weights"`
	EvaluationRubric   []RubricCriterion  `json:"evaluation_rubric" yaml:"evaluation_rubric" validate:"required,min=1,dive"`
	ArtifactComplexity ArtifactComplexity `json:"artifact_complexity" yaml:"artifact_complexity" validate:"oneof=simple moderate complex"`
	MaxQuestions       int                `json:"max_questions" yaml:"max_questions" validate:"min=1"`
}

// Primary returns the persona that leads the interview
func (s TeamInterviewSettings) Primary() Persona {
	if len(s.Personas) == 0 {
		return Persona{}
	}
	return s.Personas[0]
}

// Secondary returns the second persona, if one is configured
func (s TeamInterviewSettings) Secondary() (Persona, bool) {
	if len(s.Personas) < 2 {
		return Persona{}, false
	}
	return s.Personas[1], true
}
