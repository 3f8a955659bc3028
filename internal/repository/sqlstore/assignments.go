package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/repository"
	"github.com/jmoiron/sqlx"
)

// AssignmentRepository implements repository.AssignmentRepository
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a student scripture / essay repository
func NewAssignmentRepository(db *sqlx.DB) repository.AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const (
	studentScriptureColumns = `id, child_id, competition_year_id, scripture_id, status, completed_at, created_at, updated_at`
	studentEssayColumns     = `id, child_id, competition_year_id, essay_prompt_id, status, submitted_at, created_at, updated_at`
)

// GetScripture loads one scripture assignment
func (r *AssignmentRepository) GetScripture(ctx context.Context, id string) (*models.StudentScripture, error) {
	var a models.StudentScripture
	err := r.db.GetContext(ctx, &a, r.db.Rebind(`SELECT `+studentScriptureColumns+` FROM student_scriptures WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student scripture: %w", err)
	}
	return &a, nil
}

// ListScriptures returns a child's scripture assignments for a year
func (r *AssignmentRepository) ListScriptures(ctx context.Context, childID, competitionYearID string) ([]models.StudentScripture, error) {
	out := []models.StudentScripture{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT `+studentScriptureColumns+` FROM student_scriptures
		WHERE child_id = ? AND competition_year_id = ?
		ORDER BY created_at, id
	`), childID, competitionYearID)
	if err != nil {
		return nil, fmt.Errorf("list student scriptures: %w", err)
	}
	return out, nil
}

// AddScripture inserts an assignment unless its natural key already exists
func (r *AssignmentRepository) AddScripture(ctx context.Context, a *models.StudentScripture) (bool, error) {
	a.ID = newID(a.ID)
	if a.Status == "" {
		a.Status = models.ScriptureNotStarted
	}
	stamp(&a.CreatedAt)
	a.UpdatedAt = a.CreatedAt

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO student_scriptures (`+studentScriptureColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (child_id, competition_year_id, scripture_id) DO NOTHING
	`), a.ID, a.ChildID, a.CompetitionYearID, a.ScriptureID, string(a.Status), a.CompletedAt, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("add student scripture: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add student scripture: %w", err)
	}
	return n > 0, nil
}

// UpdateScriptureStatus sets the progress of an assignment. completed_at is
// set when the status becomes completed and cleared otherwise.
func (r *AssignmentRepository) UpdateScriptureStatus(ctx context.Context, id string, status models.ScriptureStatus) error {
	ts := now()
	var completedAt interface{}
	if status == models.ScriptureCompleted {
		completedAt = ts
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE student_scriptures SET status = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`), string(status), completedAt, ts, id)
	if err != nil {
		return fmt.Errorf("update student scripture status: %w", err)
	}
	return requireOneRow(res, "student scripture", id)
}

// GetEssay loads one essay assignment
func (r *AssignmentRepository) GetEssay(ctx context.Context, id string) (*models.StudentEssay, error) {
	var e models.StudentEssay
	err := r.db.GetContext(ctx, &e, r.db.Rebind(`SELECT `+studentEssayColumns+` FROM student_essays WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student essay: %w", err)
	}
	return &e, nil
}

// ListEssays returns a child's essay assignments for a year
func (r *AssignmentRepository) ListEssays(ctx context.Context, childID, competitionYearID string) ([]models.StudentEssay, error) {
	out := []models.StudentEssay{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT `+studentEssayColumns+` FROM student_essays
		WHERE child_id = ? AND competition_year_id = ?
		ORDER BY created_at, id
	`), childID, competitionYearID)
	if err != nil {
		return nil, fmt.Errorf("list student essays: %w", err)
	}
	return out, nil
}

// AddEssay inserts an essay assignment unless its natural key already exists
func (r *AssignmentRepository) AddEssay(ctx context.Context, e *models.StudentEssay) (bool, error) {
	e.ID = newID(e.ID)
	if e.Status == "" {
		e.Status = models.EssayAssigned
	}
	stamp(&e.CreatedAt)
	e.UpdatedAt = e.CreatedAt

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO student_essays (`+studentEssayColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (child_id, competition_year_id, essay_prompt_id) DO NOTHING
	`), e.ID, e.ChildID, e.CompetitionYearID, e.EssayPromptID, string(e.Status), e.SubmittedAt, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("add student essay: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add student essay: %w", err)
	}
	return n > 0, nil
}

// MarkEssaySubmitted records the submission of an essay
func (r *AssignmentRepository) MarkEssaySubmitted(ctx context.Context, id string) error {
	ts := now()
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE student_essays SET status = ?, submitted_at = ?, updated_at = ?
		WHERE id = ?
	`), string(models.EssaySubmitted), ts, ts, id)
	if err != nil {
		return fmt.Errorf("mark student essay submitted: %w", err)
	}
	return requireOneRow(res, "student essay", id)
}
