package sqlstore

import (
	"context"
	"fmt"

	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/repository"
	"github.com/jmoiron/sqlx"
)

// RuleRepository implements repository.RuleRepository
type RuleRepository struct {
	db *sqlx.DB
}

// NewRuleRepository creates a grade rule / division / essay prompt repository
func NewRuleRepository(db *sqlx.DB) repository.RuleRepository {
	return &RuleRepository{db: db}
}

const (
	gradeRuleColumns   = `id, competition_year_id, min_grade, max_grade, type, target_count, instructions, created_at`
	divisionColumns    = `id, competition_year_id, name, min_grade, max_grade, minimum_required, instructions, created_at`
	essayPromptColumns = `id, competition_year_id, division_id, title, prompt, instructions, due_date, created_at`
)

// ListGradeRules returns the year's grade rules, optionally of one type
func (r *RuleRepository) ListGradeRules(ctx context.Context, competitionYearID string, ruleType *models.RuleType) ([]models.GradeRule, error) {
	query := `SELECT ` + gradeRuleColumns + ` FROM grade_rules WHERE competition_year_id = ?`
	args := []interface{}{competitionYearID}
	if ruleType != nil {
		query += ` AND type = ?`
		args = append(args, string(*ruleType))
	}
	query += ` ORDER BY min_grade, max_grade, id`

	rules := []models.GradeRule{}
	if err := r.db.SelectContext(ctx, &rules, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list grade rules: %w", err)
	}
	return rules, nil
}

// AddGradeRule inserts a grade rule
func (r *RuleRepository) AddGradeRule(ctx context.Context, rule *models.GradeRule) error {
	rule.ID = newID(rule.ID)
	stamp(&rule.CreatedAt)
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO grade_rules (`+gradeRuleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), rule.ID, rule.CompetitionYearID, rule.MinGrade, rule.MaxGrade, string(rule.Type), rule.TargetCount, rule.Instructions, rule.CreatedAt)
	if err != nil {
		return fmt.Errorf("add grade rule: %w", err)
	}
	return nil
}

// ListDivisions returns the year's divisions
func (r *RuleRepository) ListDivisions(ctx context.Context, competitionYearID string) ([]models.Division, error) {
	divisions := []models.Division{}
	err := r.db.SelectContext(ctx, &divisions, r.db.Rebind(`
		SELECT `+divisionColumns+` FROM divisions
		WHERE competition_year_id = ?
		ORDER BY min_grade, max_grade, id
	`), competitionYearID)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	return divisions, nil
}

// AddDivision inserts a division
func (r *RuleRepository) AddDivision(ctx context.Context, d *models.Division) error {
	d.ID = newID(d.ID)
	stamp(&d.CreatedAt)
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO divisions (`+divisionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), d.ID, d.CompetitionYearID, d.Name, d.MinGrade, d.MaxGrade, d.MinimumRequired, d.Instructions, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("add division: %w", err)
	}
	return nil
}

// ListEssayPrompts returns the year's essay prompts
func (r *RuleRepository) ListEssayPrompts(ctx context.Context, competitionYearID string) ([]models.EssayPrompt, error) {
	prompts := []models.EssayPrompt{}
	err := r.db.SelectContext(ctx, &prompts, r.db.Rebind(`
		SELECT `+essayPromptColumns+` FROM essay_prompts
		WHERE competition_year_id = ?
		ORDER BY created_at, id
	`), competitionYearID)
	if err != nil {
		return nil, fmt.Errorf("list essay prompts: %w", err)
	}
	return prompts, nil
}

// AddEssayPrompt inserts an essay prompt
func (r *RuleRepository) AddEssayPrompt(ctx context.Context, p *models.EssayPrompt) error {
	p.ID = newID(p.ID)
	stamp(&p.CreatedAt)
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO essay_prompts (`+essayPromptColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.CompetitionYearID, p.DivisionID, p.Title, p.Prompt, p.Instructions, p.DueDate, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("add essay prompt: %w", err)
	}
	return nil
}
