// Package databasetest provides migrated throwaway databases for tests.
package databasetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciclored/ciclored-api/internal/database"
)

// Open returns a migrated SQLite database living in the test's temp dir.
// It is closed when the test finishes.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.OpenSQLite(t.Context(), filepath.Join(t.TempDir(), "ciclored.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.Migrate(t.Context(), db, database.SQLite)
	require.NoError(t, err)
	return db
}
