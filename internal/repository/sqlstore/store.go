// Package sqlstore implements the repository interfaces on top of sqlx. The
// same queries serve the SQLite demo database and the PostgreSQL live
// database; bind variables are rebound to the driver's style.
package sqlstore

import (
	"time"

	"github.com/bible-bee-api/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// New returns every repository backed by db
func New(db *sqlx.DB) repository.Store {
	return repository.Store{
		Years:       NewCompetitionYearRepository(db),
		Rules:       NewRuleRepository(db),
		Scriptures:  NewScriptureRepository(db),
		Assignments: NewAssignmentRepository(db),
		Children:    NewChildRepository(db),
	}
}

// now is replaced in tests
var now = func() time.Time { return time.Now().UTC() }

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = now()
	}
}
