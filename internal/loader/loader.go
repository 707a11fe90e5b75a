// Package loader ingests CSV data into one of the hiring tables, skipping rows
// whose key is already present in the table or earlier in the same input.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"hiringMetrics/models"
)

// DefaultBatchSize is the number of rows written per INSERT statement.
const DefaultBatchSize = 1000

// maxVariables is SQLite's limit on bound parameters in one statement.
const maxVariables = 32766

// batchLimit caps the rows per INSERT so rows*columns stays within maxVariables.
func batchLimit(table models.Table) int {
	return maxVariables / len(table.Columns())
}

// Store is the storage the loader needs.
type Store interface {
	ExistingKeys(ctx context.Context, table models.Table) (map[string]struct{}, error)
	InsertBatch(ctx context.Context, table models.Table, rows [][]string) error
}

// Stats describes the outcome of one load.
type Stats struct {
	Read     int64 // rows read from the input
	Inserted int64 // rows written to the table
	Skipped  int64 // rows dropped as duplicates
	Batches  int   // INSERT statements issued
}

// Options tunes a Loader. Zero values fall back to defaults.
type Options struct {
	BatchSize        int
	StatementTimeout time.Duration
	// Logger receives per-batch progress when set.
	Logger *log.Logger
}

type Loader struct {
	store   Store
	size    int
	timeout time.Duration
	logger  *log.Logger
}

func New(store Store, opts Options) *Loader {
	size := opts.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	timeout := opts.StatementTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Loader{store: store, size: size, timeout: timeout, logger: opts.Logger}
}

// Load reads comma-separated rows (no header) from r into table.
//
// Rows are flushed every BatchSize rows, or fewer when the table's column
// count would push a batch past SQLite's parameter limit. A failed flush stops
// the load; rows flushed before it stay in the table. Rows are not validated here, so a row
// with the wrong number of fields surfaces as a storage error.
func (l *Loader) Load(ctx context.Context, table models.Table, r io.Reader) (Stats, error) {
	var st Stats
	table, err := models.ParseTable(table.String())
	if err != nil {
		return st, err
	}
	size := l.size
	if limit := batchLimit(table); size > limit {
		size = limit
	}

	existing, err := l.store.ExistingKeys(ctx, table)
	if err != nil {
		return st, fmt.Errorf("load existing keys of %s: %w", table, err)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	pending := make([][]string, 0, size)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return st, fmt.Errorf("read csv: %w", err)
		}
		st.Read++

		key := record[0]
		if _, dup := existing[key]; dup {
			st.Skipped++
			continue
		}
		existing[key] = struct{}{}
		pending = append(pending, record)

		if len(pending) >= size {
			if err := l.flush(ctx, table, pending, &st); err != nil {
				return st, err
			}
			pending = make([][]string, 0, size)
		}
	}

	if len(pending) > 0 {
		if err := l.flush(ctx, table, pending, &st); err != nil {
			return st, err
		}
	}
	return st, nil
}

func (l *Loader) flush(ctx context.Context, table models.Table, rows [][]string, st *Stats) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := l.store.InsertBatch(ctx, table, rows); err != nil {
		return fmt.Errorf("insert batch %d into %s: %w", st.Batches+1, table, err)
	}
	st.Batches++
	st.Inserted += int64(len(rows))
	if l.logger != nil {
		l.logger.Printf("loader: %s batch %d, %d rows (%d total)", table, st.Batches, len(rows), st.Inserted)
	}
	return nil
}
