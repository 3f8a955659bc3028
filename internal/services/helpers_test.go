package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/repository"
	"github.com/bible-bee-api/internal/repository/sqlstore"
	"github.com/bible-bee-api/pkg/schema/db"
)

var errStorage = errors.New("storage unavailable")

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn))
	return sqlstore.New(conn)
}

func addYear(t *testing.T, s repository.Store) string {
	t.Helper()
	y := &models.CompetitionYear{Year: 2025, Name: "2025"}
	require.NoError(t, s.Years.Add(context.Background(), y))
	return y.ID
}

func addChild(t *testing.T, s repository.Store, grade string) string {
	t.Helper()
	c := &models.Child{FirstName: "Test", LastName: grade, Grade: grade, IsActive: true}
	require.NoError(t, s.Children.Add(context.Background(), c))
	return c.ID
}

func addScriptures(t *testing.T, s repository.Store, yearID string, refs ...string) []string {
	t.Helper()
	ids := make([]string, len(refs))
	for i, ref := range refs {
		sc := &models.Scripture{
			CompetitionYearID:   yearID,
			Reference:           ref,
			NormalizedReference: ref,
			ScriptureOrder:      i + 1,
		}
		require.NoError(t, s.Scriptures.Add(context.Background(), sc))
		ids[i] = sc.ID
	}
	return ids
}

func addRule(t *testing.T, s repository.Store, yearID string, lo, hi int, typ models.RuleType, target int) string {
	t.Helper()
	r := &models.GradeRule{CompetitionYearID: yearID, MinGrade: lo, MaxGrade: hi, Type: typ, TargetCount: target}
	require.NoError(t, s.Rules.AddGradeRule(context.Background(), r))
	return r.ID
}

// countingAssignments wraps an assignment repository, counting writes and
// failing the listed operations
type countingAssignments struct {
	repository.AssignmentRepository
	failList bool
	failAdd  bool
	adds     int
}

func (c *countingAssignments) ListScriptures(ctx context.Context, childID, yearID string) ([]models.StudentScripture, error) {
	if c.failList {
		return nil, errStorage
	}
	return c.AssignmentRepository.ListScriptures(ctx, childID, yearID)
}

func (c *countingAssignments) AddScripture(ctx context.Context, a *models.StudentScripture) (bool, error) {
	c.adds++
	if c.failAdd {
		return false, errStorage
	}
	return c.AssignmentRepository.AddScripture(ctx, a)
}

// failingScriptures wraps a scripture repository and fails listed operations
type failingScriptures struct {
	repository.ScriptureRepository
	failList bool
	failAdd  bool
	writes   int
}

func (f *failingScriptures) ListByYear(ctx context.Context, yearID string) ([]models.Scripture, error) {
	if f.failList {
		return nil, errStorage
	}
	return f.ScriptureRepository.ListByYear(ctx, yearID)
}

func (f *failingScriptures) Add(ctx context.Context, s *models.Scripture) error {
	f.writes++
	if f.failAdd {
		return errStorage
	}
	return f.ScriptureRepository.Add(ctx, s)
}

func (f *failingScriptures) Update(ctx context.Context, s *models.Scripture) error {
	f.writes++
	return f.ScriptureRepository.Update(ctx, s)
}

func (f *failingScriptures) UpdateTexts(ctx context.Context, id string, texts map[string]string) error {
	f.writes++
	return f.ScriptureRepository.UpdateTexts(ctx, id, texts)
}

// failingRules fails every listing
type failingRules struct {
	repository.RuleRepository
}

func (failingRules) ListGradeRules(context.Context, string, *models.RuleType) ([]models.GradeRule, error) {
	return nil, errStorage
}

func (failingRules) ListDivisions(context.Context, string) ([]models.Division, error) {
	return nil, errStorage
}

func intPtr(n int) *int { return &n }
