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

// ChildRepository implements repository.ChildRepository
type ChildRepository struct {
	db *sqlx.DB
}

// NewChildRepository creates a child repository
func NewChildRepository(db *sqlx.DB) repository.ChildRepository {
	return &ChildRepository{db: db}
}

const childColumns = `id, first_name, last_name, grade, is_active, created_at`

// Get loads one child
func (r *ChildRepository) Get(ctx context.Context, id string) (*models.Child, error) {
	var c models.Child
	err := r.db.GetContext(ctx, &c, r.db.Rebind(`SELECT `+childColumns+` FROM children WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}
	return &c, nil
}

// ListActive returns active children ordered by name
func (r *ChildRepository) ListActive(ctx context.Context) ([]models.Child, error) {
	children := []models.Child{}
	err := r.db.SelectContext(ctx, &children, r.db.Rebind(`
		SELECT `+childColumns+` FROM children
		WHERE is_active = ?
		ORDER BY last_name, first_name, id
	`), true)
	if err != nil {
		return nil, fmt.Errorf("list active children: %w", err)
	}
	return children, nil
}

// Add inserts a child. Registration owns this table; the engine only uses
// Add for demo seeding and tests.
func (r *ChildRepository) Add(ctx context.Context, c *models.Child) error {
	c.ID = newID(c.ID)
	stamp(&c.CreatedAt)
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO children (`+childColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`), c.ID, c.FirstName, c.LastName, c.Grade, c.IsActive, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("add child: %w", err)
	}
	return nil
}
