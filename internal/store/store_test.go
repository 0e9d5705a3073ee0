package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_ReopenKeepsMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "club.db")

	s, err := Open(path)
	require.NoError(t, err)
	createTestMatch(t, s, "m1")
	require.NoError(t, s.Close())

	for i := 0; i < 2; i++ {
		s, err = Open(path)
		require.NoError(t, err, "reopen %d", i)

		rec, err := s.ReadMatch(context.Background(), "m1")
		require.NoError(t, err)
		assert.Equal(t, "Rovers", rec.Setup.Teams[0].Name)
		require.NoError(t, s.Close())
	}
}

func TestOpen_InMemorySurvivesAcrossQueries(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	createTestMatch(t, s, "m1")
	matches, err := s.ListMatches(context.Background())
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestOpen_UnwritableDirectory(t *testing.T) {
	_, err := Open("/nonexistent/dir/club.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open store /nonexistent/dir/club.db")
}

func TestClose(t *testing.T) {
	assert.NoError(t, (&Store{}).Close(), "zero store")

	s, err := Open(filepath.Join(t.TempDir(), "club.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.NotPanics(t, func() { _ = s.Close() })
}

func TestOpen_ConnectionPragmas(t *testing.T) {
	s := createTestStore(t)

	want := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1", // NORMAL
		"busy_timeout": "5000",
		"foreign_keys": "1",
	}
	for name, value := range want {
		t.Run(name, func(t *testing.T) {
			var got string
			require.NoError(t, s.db.QueryRow("PRAGMA "+name).Scan(&got))
			assert.Equal(t, value, got)
		})
	}
}

func TestSchema_Columns(t *testing.T) {
	s := createTestStore(t)

	tests := map[string][]string{
		"matches":     {"id", "first_team", "second_team", "overs", "setup", "undo_depth"},
		"commands":    {"match_id", "seq", "type", "payload"},
		"checkpoints": {"match_id", "seq", "phase", "digest", "payload"},
		"reports":     {"match_id", "result", "summary", "payload"},
	}
	for table, columns := range tests {
		t.Run(table, func(t *testing.T) {
			assert.ElementsMatch(t, columns, tableColumns(t, s.db, table))
		})
	}
}

func TestSchema_Constraints(t *testing.T) {
	tests := []struct {
		name  string
		setup bool
		stmt  string
	}{
		{
			name: "command for unknown match",
			stmt: `INSERT INTO commands (match_id, seq, type, payload) VALUES ('missing', 1, 'undo', '{}')`,
		},
		{
			name:  "command seq zero",
			setup: true,
			stmt:  `INSERT INTO commands (match_id, seq, type, payload) VALUES ('m1', 0, 'undo', '{}')`,
		},
		{
			name: "zero-over match",
			stmt: `INSERT INTO matches (id, first_team, second_team, overs, setup, undo_depth) VALUES ('m2', 'a', 'b', 0, '{}', 0)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestStore(t)
			if tt.setup {
				createTestMatch(t, s, "m1")
			}
			_, err := s.db.Exec(tt.stmt)
			assert.Error(t, err)
		})
	}
}

func TestMigrate_SetsCurrentVersion(t *testing.T) {
	s := createTestStore(t)

	assert.Equal(t, currentSchemaVersion, schemaVersion(t, s.db))
	assert.Contains(t, tableIndexes(t, s.db, "checkpoints"), "idx_checkpoints_phase")
}

func TestMigrate_UpgradesUnversionedDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "club.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(schemaSQL)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, currentSchemaVersion, schemaVersion(t, s.db))
	assert.Contains(t, tableIndexes(t, s.db, "checkpoints"), "idx_checkpoints_phase")
}

func schemaVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	var v int
	require.NoError(t, db.QueryRow("PRAGMA user_version").Scan(&v))
	return v
}

func tableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func tableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ?", table)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}
