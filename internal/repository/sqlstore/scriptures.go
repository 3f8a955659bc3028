package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/repository"
	"github.com/jmoiron/sqlx"
)

// ScriptureRepository implements repository.ScriptureRepository
type ScriptureRepository struct {
	db *sqlx.DB
}

// NewScriptureRepository creates a scripture repository
func NewScriptureRepository(db *sqlx.DB) repository.ScriptureRepository {
	return &ScriptureRepository{db: db}
}

const scriptureColumns = `id, competition_year_id, reference, normalized_reference, text, translation, scripture_order, texts, created_at, updated_at`

// scriptureRow is the stored shape; texts is a JSON object
type scriptureRow struct {
	ID                  string    `db:"id"`
	CompetitionYearID   string    `db:"competition_year_id"`
	Reference           string    `db:"reference"`
	NormalizedReference string    `db:"normalized_reference"`
	Text                string    `db:"text"`
	Translation         string    `db:"translation"`
	ScriptureOrder      int       `db:"scripture_order"`
	Texts               string    `db:"texts"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

func (row scriptureRow) toModel() (models.Scripture, error) {
	s := models.Scripture{
		ID:                  row.ID,
		CompetitionYearID:   row.CompetitionYearID,
		Reference:           row.Reference,
		NormalizedReference: row.NormalizedReference,
		Text:                row.Text,
		Translation:         row.Translation,
		ScriptureOrder:      row.ScriptureOrder,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
	if row.Texts != "" {
		if err := json.Unmarshal([]byte(row.Texts), &s.Texts); err != nil {
			return models.Scripture{}, fmt.Errorf("decode texts of scripture %s: %w", row.ID, err)
		}
	}
	return s, nil
}

func encodeTexts(texts map[string]string) (string, error) {
	if len(texts) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(texts)
	if err != nil {
		return "", fmt.Errorf("encode texts: %w", err)
	}
	return string(b), nil
}

func (r *ScriptureRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Scripture, error) {
	var row scriptureRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get loads one scripture
func (r *ScriptureRepository) Get(ctx context.Context, id string) (*models.Scripture, error) {
	s, err := r.getOne(ctx, `SELECT `+scriptureColumns+` FROM scriptures WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get scripture: %w", err)
	}
	return s, nil
}

// FindByNormalizedReference loads the year's scripture with the given key
func (r *ScriptureRepository) FindByNormalizedReference(ctx context.Context, competitionYearID, normalized string) (*models.Scripture, error) {
	s, err := r.getOne(ctx, `
		SELECT `+scriptureColumns+` FROM scriptures
		WHERE competition_year_id = ? AND normalized_reference = ?
	`, competitionYearID, normalized)
	if err != nil {
		return nil, fmt.Errorf("find scripture by reference: %w", err)
	}
	return s, nil
}

// ListByYear returns the year's scriptures in display order
func (r *ScriptureRepository) ListByYear(ctx context.Context, competitionYearID string) ([]models.Scripture, error) {
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(`
		SELECT `+scriptureColumns+` FROM scriptures
		WHERE competition_year_id = ?
		ORDER BY scripture_order, reference, id
	`), competitionYearID)
	if err != nil {
		return nil, fmt.Errorf("list scriptures: %w", err)
	}
	defer rows.Close()

	scriptures := []models.Scripture{}
	for rows.Next() {
		var row scriptureRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("scan scripture: %w", err)
		}
		s, err := row.toModel()
		if err != nil {
			return nil, err
		}
		scriptures = append(scriptures, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scriptures: %w", err)
	}
	return scriptures, nil
}

// Add inserts a scripture
func (r *ScriptureRepository) Add(ctx context.Context, s *models.Scripture) error {
	texts, err := encodeTexts(s.Texts)
	if err != nil {
		return err
	}
	s.ID = newID(s.ID)
	stamp(&s.CreatedAt)
	s.UpdatedAt = s.CreatedAt

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO scriptures (`+scriptureColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), s.ID, s.CompetitionYearID, s.Reference, s.NormalizedReference, s.Text, s.Translation,
		s.ScriptureOrder, texts, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("add scripture: %w", err)
	}
	return nil
}

// Update rewrites the CSV-owned fields of a scripture
func (r *ScriptureRepository) Update(ctx context.Context, s *models.Scripture) error {
	s.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE scriptures
		SET reference = ?, text = ?, translation = ?, scripture_order = ?, updated_at = ?
		WHERE id = ?
	`), s.Reference, s.Text, s.Translation, s.ScriptureOrder, s.UpdatedAt, s.ID)
	if err != nil {
		return fmt.Errorf("update scripture: %w", err)
	}
	return requireOneRow(res, "scripture", s.ID)
}

// UpdateTexts replaces a scripture's translation map
func (r *ScriptureRepository) UpdateTexts(ctx context.Context, id string, texts map[string]string) error {
	encoded, err := encodeTexts(texts)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE scriptures SET texts = ?, updated_at = ? WHERE id = ?
	`), encoded, now(), id)
	if err != nil {
		return fmt.Errorf("update scripture texts: %w", err)
	}
	return requireOneRow(res, "scripture", id)
}
