package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bible-bee-api/internal/importer"
	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/services"
	"github.com/bible-bee-api/pkg/schema/db"
)

func newTestEnv(t *testing.T) *cliEnv {
	t.Helper()
	conn, err := db.OpenSQLite(context.Background(), db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &cliEnv{
		open:        func(context.Context) (*sqlx.DB, error) { return conn, nil },
		autoMigrate: true,
		logger:      zap.NewNop(),
	}
}

func run(t *testing.T, env *cliEnv, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(env)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportAndEnroll(t *testing.T) {
	env := newTestEnv(t)

	out, err := run(t, env, "seed", "--year-number", "2025", "--children")
	require.NoError(t, err)
	var seeded seedResult
	require.NoError(t, json.Unmarshal([]byte(out), &seeded))
	assert.Equal(t, len(demoScriptures), seeded.Scriptures)
	assert.Equal(t, len(demoGrades), seeded.Children)

	csvPath := writeFile(t, "scriptures.csv", "reference,text,translation\n"+
		"john 3:16,For God so loved the world,NIV\n"+
		"Philippians 4:13,I can do all things,KJV\n"+
		",,\n")
	out, err = run(t, env, "import", "csv", "--year", seeded.CompetitionYearID, csvPath)
	require.NoError(t, err)
	var commit models.CommitResult
	require.NoError(t, json.Unmarshal([]byte(out), &commit))
	assert.Equal(t, 1, commit.Inserted)
	assert.Equal(t, 1, commit.Updated)
	assert.Len(t, commit.Skipped, 1)

	jsonPath := writeFile(t, "texts.json", `{"competition_year": "2025", "translations": ["ESV"],
		"scriptures": [{"reference": "Phil 4:13", "order": 1, "texts": {"ESV": "I can do all things through him"}}]}`)
	out, err = run(t, env, "import", "texts", "--year", seeded.CompetitionYearID, jsonPath)
	require.NoError(t, err)
	var merge models.MergeResult
	require.NoError(t, json.Unmarshal([]byte(out), &merge))
	assert.Equal(t, 1, merge.Updated)

	out, err = run(t, env, "lookup", "--year", seeded.CompetitionYearID, "Phil. 4 : 13")
	require.NoError(t, err)
	var lookup models.ScriptureLookup
	require.NoError(t, json.Unmarshal([]byte(out), &lookup))
	require.NotNil(t, lookup.Scripture)
	assert.Equal(t, "I can do all things through him", lookup.Scripture.Texts["ESV"])

	_, err = run(t, env, "lookup", "--year", seeded.CompetitionYearID, "Jude 1:24")
	assert.Equal(t, exitValidation, exitCode(err))
	assert.ErrorIs(t, err, services.ErrScriptureNotFound)

	out, err = run(t, env, "enroll", "--year", seeded.CompetitionYearID)
	require.NoError(t, err)
	var bulk models.BulkEnrollmentResult
	require.NoError(t, json.Unmarshal([]byte(out), &bulk))
	assert.Equal(t, len(demoGrades), bulk.Enrolled)
	assert.Zero(t, bulk.Skipped)

	out, err = run(t, env, "enroll", "--year", seeded.CompetitionYearID)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &bulk))
	assert.Zero(t, bulk.Created, "a second run creates nothing")
}

func TestPreview(t *testing.T) {
	env := newTestEnv(t)
	csvPath := writeFile(t, "rows.csv", "reference\nJames 1:5\nRomans 12:2\nProverbs 3:5\n")
	jsonPath := writeFile(t, "texts.json", `{"competition_year": "2025", "translations": ["NIV"],
		"scriptures": [
			{"reference": "Romans 12:2", "order": 1, "texts": {"NIV": "a"}},
			{"reference": "Proverbs 3:5", "order": 2, "texts": {"NIV": "b"}},
			{"reference": "Ruth 1:16", "order": 3, "texts": {"NIV": "c"}}
		]}`)

	out, err := run(t, env, "preview", "--csv", csvPath, "--json", jsonPath)
	require.NoError(t, err)
	var preview models.MatchPreview
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	assert.Len(t, preview.Matches, 2)
	assert.Len(t, preview.CsvOnly, 1)
	assert.Len(t, preview.JsonOnly, 1)
	assert.Nil(t, env.conn, "preview never opens storage")
}

func TestExitCodes(t *testing.T) {
	env := newTestEnv(t)

	_, err := run(t, env, "enroll")
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = run(t, env, "import", "csv", "--year", "y")
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = run(t, env, "enroll", "--bogus")
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = run(t, env, "enroll", "--year", "missing")
	assert.Equal(t, exitValidation, exitCode(err))
	assert.ErrorIs(t, err, services.ErrCompetitionYearNotFound)

	bad := writeFile(t, "bad.csv", "text\nno reference column\n")
	_, err = run(t, env, "import", "csv", "--year", "y", bad)
	assert.Equal(t, exitValidation, exitCode(err))
	assert.ErrorIs(t, err, importer.ErrInvalidFile)

	broken := &cliEnv{
		open:   func(context.Context) (*sqlx.DB, error) { return nil, errors.New("no route to host") },
		logger: zap.NewNop(),
	}
	_, err = run(t, broken, "migrate")
	assert.Equal(t, exitStorage, exitCode(err))

	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("plain")))
}
