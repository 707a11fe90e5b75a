package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	stdfs "io/fs"
	"regexp"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is used when no database file is configured.
const DefaultPath = "database.db"

// Open opens (or creates) a local SQLite database file and makes sure the
// hiring tables exist. Schema files live under internal/db/schema and follow
// the pattern:
//
//	0001_name.sql
//
// Files are applied once, in version order, and recorded in schema_versions.
// There is no down direction.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = DefaultPath
	}
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	// journal_mode may not be supported in some contexts (e.g., in-memory). Ignore errors.
	_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
	if _, err := d.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = d.Close()
		return nil, err
	}
	if err := applySchema(d); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// WithConn checks out a dedicated connection for the duration of fn and
// returns it to the handle afterwards. Request handlers use it so every
// request works on its own storage connection.
func WithConn(ctx context.Context, d *sql.DB, fn func(conn *sql.Conn) error) error {
	conn, err := d.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

//go:embed schema/*.sql
var schemaFS embed.FS

type schemaFile struct {
	version int
	name    string
	path    string // path inside embedded FS
}

var schemaFileRe = regexp.MustCompile(`^([0-9]{4})_(.+)\.sql$`)

func loadSchemaFiles() (map[int]schemaFile, error) {
	entries := map[int]schemaFile{}
	list, err := stdfs.ReadDir(schemaFS, "schema")
	if err != nil {
		return nil, err
	}
	for _, de := range list {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		m := schemaFileRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		var ver int
		if _, err := fmt.Sscanf(m[1], "%04d", &ver); err != nil {
			continue
		}
		if prev, dup := entries[ver]; dup {
			return nil, fmt.Errorf("duplicate schema version %04d: %s and %s", ver, prev.name, m[2])
		}
		entries[ver] = schemaFile{version: ver, name: m[2], path: "schema/" + name}
	}
	return entries, nil
}

func ensureVersionsTable(d *sql.DB) error {
	_, err := d.Exec(`CREATE TABLE IF NOT EXISTS schema_versions (
        version INTEGER PRIMARY KEY,
        applied_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
    )`)
	return err
}

func appliedVersions(d *sql.DB) (map[int]bool, error) {
	if err := ensureVersionsTable(d); err != nil {
		return nil, err
	}
	rows, err := d.Query(`SELECT version FROM schema_versions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	got := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		got[v] = true
	}
	return got, rows.Err()
}

func applySchema(d *sql.DB) error {
	files, err := loadSchemaFiles()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(d)
	if err != nil {
		return err
	}
	versions := make([]int, 0, len(files))
	for v := range files {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	for _, v := range versions {
		if applied[v] {
			continue
		}
		f := files[v]
		sqlText, err := schemaFS.ReadFile(f.path)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(sqlText)) == "" {
			return fmt.Errorf("schema %04d_%s is empty", v, f.name)
		}
		tx, err := d.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlText)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("schema %04d_%s failed: %w", v, f.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_versions(version) VALUES(?)`, v); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
