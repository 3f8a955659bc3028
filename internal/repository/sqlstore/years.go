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

// CompetitionYearRepository implements repository.CompetitionYearRepository
type CompetitionYearRepository struct {
	db *sqlx.DB
}

// NewCompetitionYearRepository creates a competition year repository
func NewCompetitionYearRepository(db *sqlx.DB) repository.CompetitionYearRepository {
	return &CompetitionYearRepository{db: db}
}

const yearColumns = `id, year, name, description, created_at, updated_at`

// Get loads one competition year
func (r *CompetitionYearRepository) Get(ctx context.Context, id string) (*models.CompetitionYear, error) {
	var y models.CompetitionYear
	err := r.db.GetContext(ctx, &y, r.db.Rebind(`SELECT `+yearColumns+` FROM competition_years WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get competition year: %w", err)
	}
	return &y, nil
}

// Add inserts a competition year, assigning an ID when empty
func (r *CompetitionYearRepository) Add(ctx context.Context, y *models.CompetitionYear) error {
	y.ID = newID(y.ID)
	stamp(&y.CreatedAt)
	y.UpdatedAt = y.CreatedAt

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO competition_years (`+yearColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`), y.ID, y.Year, y.Name, y.Description, y.CreatedAt, y.UpdatedAt)
	if err != nil {
		return fmt.Errorf("add competition year: %w", err)
	}
	return nil
}

// Update changes the descriptive fields; the year number is left alone
func (r *CompetitionYearRepository) Update(ctx context.Context, y *models.CompetitionYear) error {
	y.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE competition_years SET name = ?, description = ?, updated_at = ?
		WHERE id = ?
	`), y.Name, y.Description, y.UpdatedAt, y.ID)
	if err != nil {
		return fmt.Errorf("update competition year: %w", err)
	}
	return requireOneRow(res, "competition year", y.ID)
}

// List returns every competition year, newest first
func (r *CompetitionYearRepository) List(ctx context.Context) ([]models.CompetitionYear, error) {
	years := []models.CompetitionYear{}
	if err := r.db.SelectContext(ctx, &years, `SELECT `+yearColumns+` FROM competition_years ORDER BY year DESC, id`); err != nil {
		return nil, fmt.Errorf("list competition years: %w", err)
	}
	return years, nil
}

// ErrNotFound is returned by updates that matched no row
var ErrNotFound = errors.New("record not found")

func requireOneRow(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s %s: %w", what, id, ErrNotFound)
	}
	return nil
}
