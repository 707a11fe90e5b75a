package testutil

import (
	"database/sql"
	"testing"

	"hiringMetrics/internal/db"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies the schema.
// Caller does not need to close it; t.Cleanup does.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache so that every connection from the pool sees the same DB.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// Exec runs statements against d and fails the test on the first error.
func Exec(t *testing.T, d *sql.DB, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		if _, err := d.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
}
