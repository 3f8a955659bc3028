package repository

import (
	"context"

	"github.com/bible-bee-api/internal/models"
)

// Get methods return (nil, nil) when the record does not exist.

// CompetitionYearRepository defines data access for competition years
type CompetitionYearRepository interface {
	Get(ctx context.Context, id string) (*models.CompetitionYear, error)
	Add(ctx context.Context, year *models.CompetitionYear) error
	// Update changes only the descriptive fields (name, description)
	Update(ctx context.Context, year *models.CompetitionYear) error
	List(ctx context.Context) ([]models.CompetitionYear, error)
}

// RuleRepository defines data access for grade rules, divisions and essay prompts
type RuleRepository interface {
	// ListGradeRules returns the year's rules ordered by (min_grade, max_grade, id);
	// a nil ruleType returns every type
	ListGradeRules(ctx context.Context, competitionYearID string, ruleType *models.RuleType) ([]models.GradeRule, error)
	AddGradeRule(ctx context.Context, rule *models.GradeRule) error

	// ListDivisions returns the year's divisions ordered by (min_grade, max_grade, id)
	ListDivisions(ctx context.Context, competitionYearID string) ([]models.Division, error)
	AddDivision(ctx context.Context, division *models.Division) error

	// ListEssayPrompts returns the year's prompts ordered by (created_at, id)
	ListEssayPrompts(ctx context.Context, competitionYearID string) ([]models.EssayPrompt, error)
	AddEssayPrompt(ctx context.Context, prompt *models.EssayPrompt) error
}

// ScriptureRepository defines data access for a year's scriptures
type ScriptureRepository interface {
	Get(ctx context.Context, id string) (*models.Scripture, error)
	// ListByYear returns scriptures ordered by (scripture_order, reference, id)
	ListByYear(ctx context.Context, competitionYearID string) ([]models.Scripture, error)
	FindByNormalizedReference(ctx context.Context, competitionYearID, normalized string) (*models.Scripture, error)
	Add(ctx context.Context, scripture *models.Scripture) error
	// Update rewrites reference, text, translation and scripture_order
	Update(ctx context.Context, scripture *models.Scripture) error
	// UpdateTexts rewrites only the translation map
	UpdateTexts(ctx context.Context, id string, texts map[string]string) error
}

// AssignmentRepository defines data access for per-child obligations
type AssignmentRepository interface {
	GetScripture(ctx context.Context, id string) (*models.StudentScripture, error)
	ListScriptures(ctx context.Context, childID, competitionYearID string) ([]models.StudentScripture, error)
	// AddScripture inserts the row unless (child, year, scripture) already
	// exists; it reports whether a row was written
	AddScripture(ctx context.Context, assignment *models.StudentScripture) (bool, error)
	UpdateScriptureStatus(ctx context.Context, id string, status models.ScriptureStatus) error

	GetEssay(ctx context.Context, id string) (*models.StudentEssay, error)
	ListEssays(ctx context.Context, childID, competitionYearID string) ([]models.StudentEssay, error)
	// AddEssay inserts the row unless (child, year, prompt) already exists
	AddEssay(ctx context.Context, essay *models.StudentEssay) (bool, error)
	MarkEssaySubmitted(ctx context.Context, id string) error
}

// ChildRepository reads children owned by the registration system
type ChildRepository interface {
	Get(ctx context.Context, id string) (*models.Child, error)
	ListActive(ctx context.Context) ([]models.Child, error)
	Add(ctx context.Context, child *models.Child) error
}

// Store bundles the repositories of one storage backend
type Store struct {
	Years       CompetitionYearRepository
	Rules       RuleRepository
	Scriptures  ScriptureRepository
	Assignments AssignmentRepository
	Children    ChildRepository
}
