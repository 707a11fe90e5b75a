package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"hiringMetrics/internal/apperror"
	"hiringMetrics/internal/db"
	"hiringMetrics/internal/loader"
	"hiringMetrics/models"
	"hiringMetrics/repository"
)

// HiringService runs every operation on a connection checked out for that
// call only.
type HiringService struct {
	db      *sql.DB
	opts    loader.Options
	tempDir string
	logger  *log.Logger
}

var _ Manager = (*HiringService)(nil)

type Options struct {
	Loader loader.Options
	// TempDir holds uploaded files while they are loaded. Empty uses os.TempDir.
	TempDir string
}

func NewHiringService(d *sql.DB, opts Options, logger *log.Logger) *HiringService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &HiringService{
		db:      d,
		opts:    opts.Loader,
		tempDir: opts.TempDir,
		logger:  logger,
	}
}

// Upload copies the body to a temporary file, loads it into the table and
// removes the file whether or not the load succeeded. Every attempt with a
// valid table is written to the upload log.
func (s *HiringService) Upload(ctx context.Context, input UploadInput) (loader.Stats, error) {
	table, err := parseTable(input.Table)
	if err != nil {
		return loader.Stats{}, err
	}
	if input.Body == nil {
		return loader.Stats{}, apperror.New(apperror.CodeInvalidRequest, "Invalid request")
	}

	tmp, err := os.CreateTemp(s.tempDir, "upload-*-"+safeFileName(input.FileName))
	if err != nil {
		return loader.Stats{}, apperror.Wrap(apperror.CodeStorage, fmt.Errorf("create temp file: %w", err))
	}
	defer func() {
		_ = tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Printf("remove temp file %s: %v", tmp.Name(), err)
		}
	}()

	if _, err := io.Copy(tmp, input.Body); err != nil {
		return loader.Stats{}, apperror.Wrap(apperror.CodeStorage, fmt.Errorf("save upload: %w", err))
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return loader.Stats{}, apperror.Wrap(apperror.CodeStorage, err)
	}

	return s.load(ctx, table, input.FileName, tmp)
}

// Load reads CSV rows from r into the table without spooling to disk.
func (s *HiringService) Load(ctx context.Context, tableName, fileName string, r io.Reader) (loader.Stats, error) {
	table, err := parseTable(tableName)
	if err != nil {
		return loader.Stats{}, err
	}
	return s.load(ctx, table, fileName, r)
}

func (s *HiringService) load(ctx context.Context, table models.Table, fileName string, r io.Reader) (loader.Stats, error) {
	var stats loader.Stats
	err := db.WithConn(ctx, s.db, func(conn *sql.Conn) error {
		var loadErr error
		stats, loadErr = loader.New(repository.NewTableRepository(conn), s.opts).Load(ctx, table, r)

		entry := &models.Upload{
			Table:        table.String(),
			FileName:     fileName,
			RowsRead:     stats.Read,
			RowsInserted: stats.Inserted,
			RowsSkipped:  stats.Skipped,
			Status:       models.UploadStatusSucceeded,
		}
		if loadErr != nil {
			entry.Status = models.UploadStatusFailed
			entry.Error = loadErr.Error()
		}
		if _, err := repository.NewUploadRepository(conn).Record(ctx, entry); err != nil {
			s.logger.Printf("record upload of %s: %v", table, err)
		}
		return loadErr
	})
	if err != nil {
		return stats, mapError(err)
	}
	s.logger.Printf("loaded %s into %s: read=%d inserted=%d skipped=%d batches=%d",
		displayName(fileName), table, stats.Read, stats.Inserted, stats.Skipped, stats.Batches)
	return stats, nil
}

func (s *HiringService) Query(ctx context.Context, tableName string) ([]models.Row, error) {
	table, err := parseTable(tableName)
	if err != nil {
		return nil, err
	}
	var rows []models.Row
	err = db.WithConn(ctx, s.db, func(conn *sql.Conn) error {
		rows, err = repository.NewTableRepository(conn).All(ctx, table)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return rows, nil
}

func (s *HiringService) Delete(ctx context.Context, input DeleteInput) (int64, error) {
	table, err := parseTable(input.Table)
	if err != nil {
		return 0, err
	}
	if _, err := table.Column(input.Column); err != nil {
		return 0, apperror.New(apperror.CodeInvalidRequest, err.Error())
	}
	var n int64
	err = db.WithConn(ctx, s.db, func(conn *sql.Conn) error {
		n, err = repository.NewTableRepository(conn).DeleteWhere(ctx, table, input.Column, input.Value)
		return err
	})
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (s *HiringService) Truncate(ctx context.Context, tableName string) (int64, error) {
	table, err := parseTable(tableName)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.WithConn(ctx, s.db, func(conn *sql.Conn) error {
		n, err = repository.NewTableRepository(conn).Truncate(ctx, table)
		return err
	})
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (s *HiringService) EmployeesByJobDepartment(ctx context.Context) ([]models.QuarterlyHires, error) {
	var out []models.QuarterlyHires
	err := db.WithConn(ctx, s.db, func(conn *sql.Conn) error {
		var err error
		out, err = repository.NewReportRepository(conn).EmployeesByJobDepartment(ctx, ReportYear)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (s *HiringService) DepartmentsWithHighestHiring(ctx context.Context) ([]models.DepartmentHiring, error) {
	var out []models.DepartmentHiring
	err := db.WithConn(ctx, s.db, func(conn *sql.Conn) error {
		var err error
		out, err = repository.NewReportRepository(conn).DepartmentsWithHighestHiring(ctx, ReportYear)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (s *HiringService) RecentUploads(ctx context.Context, limit int) ([]models.Upload, error) {
	var out []models.Upload
	err := db.WithConn(ctx, s.db, func(conn *sql.Conn) error {
		var err error
		out, err = repository.NewUploadRepository(conn).ListRecent(ctx, limit)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (s *HiringService) Ping(ctx context.Context) error {
	return db.WithConn(ctx, s.db, func(conn *sql.Conn) error {
		return conn.PingContext(ctx)
	})
}

func parseTable(name string) (models.Table, error) {
	if strings.TrimSpace(name) == "" {
		return "", apperror.New(apperror.CodeInvalidRequest, "Invalid request")
	}
	table, err := models.ParseTable(name)
	if err != nil {
		return "", apperror.Wrap(apperror.CodeUnknownTable, err)
	}
	return table, nil
}

func mapError(err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, models.ErrUnknownTable):
		return apperror.Wrap(apperror.CodeUnknownTable, err)
	case errors.Is(err, models.ErrUnknownColumn):
		return apperror.Wrap(apperror.CodeInvalidRequest, err)
	}
	return apperror.Wrap(apperror.CodeStorage, err)
}

// safeFileName keeps only the base name so the temp file stays in tempDir.
func safeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		return "data.csv"
	}
	return strings.ReplaceAll(base, "*", "_")
}

func displayName(name string) string {
	if name == "" {
		return "<stdin>"
	}
	return name
}
