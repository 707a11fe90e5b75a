package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hiringMetrics/models"
)

type TableRepository struct {
	db Querier
}

func NewTableRepository(db Querier) *TableRepository {
	return &TableRepository{db: db}
}

// Table and column names below always come from models.Table, never from
// caller input, so they are safe to place in the statement text.

// ExistingKeys returns the set of key values currently stored in the table.
func (r *TableRepository) ExistingKeys(ctx context.Context, table models.Table) (map[string]struct{}, error) {
	if _, err := models.ParseTable(table.String()); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s`, table.KeyColumn(), table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	keys := map[string]struct{}{}
	for rows.Next() {
		var k sql.NullString
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		if k.Valid {
			keys[k.String] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// InsertBatch writes rows with a single multi-row INSERT. Each row gets as many
// placeholders as it has fields; a row that does not match the column count is
// rejected by SQLite and fails the whole statement.
func (r *TableRepository) InsertBatch(ctx context.Context, table models.Table, rows [][]string) error {
	if _, err := models.ParseTable(table.String()); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, `INSERT INTO %s (%s) VALUES `, table, strings.Join(table.Columns(), ", "))
	args := make([]any, 0, len(rows)*len(table.Columns()))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j, v := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString("?")
			args = append(args, v)
		}
		b.WriteString(")")
	}

	_, err := r.db.ExecContext(ctx, b.String(), args...)
	return err
}

// All returns every row of the table keyed by column name.
func (r *TableRepository) All(ctx context.Context, table models.Table) ([]models.Row, error) {
	if _, err := models.ParseTable(table.String()); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cols := table.Columns()
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s ORDER BY rowid`, strings.Join(cols, ", "), table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Row, 0)
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(models.Row, len(cols))
		for i, c := range cols {
			if vals[i].Valid {
				v := vals[i].String
				row[c] = &v
			} else {
				row[c] = nil
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteWhere removes rows whose column equals value and reports how many went.
func (r *TableRepository) DeleteWhere(ctx context.Context, table models.Table, column, value string) (int64, error) {
	if _, err := models.ParseTable(table.String()); err != nil {
		return 0, err
	}
	col, err := table.Column(column)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table, col), value)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Truncate removes every row from the table.
func (r *TableRepository) Truncate(ctx context.Context, table models.Table) (int64, error) {
	if _, err := models.ParseTable(table.String()); err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *TableRepository) Count(ctx context.Context, table models.Table) (int64, error) {
	if _, err := models.ParseTable(table.String()); err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&n)
	return n, err
}
