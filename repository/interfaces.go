package repository

import (
	"context"
	"database/sql"

	"hiringMetrics/models"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx, so repositories can
// run against a pooled handle or a connection scoped to one request.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TableRepositoryI defines row operations on the three hiring tables.
type TableRepositoryI interface {
	ExistingKeys(ctx context.Context, table models.Table) (map[string]struct{}, error)
	InsertBatch(ctx context.Context, table models.Table, rows [][]string) error
	All(ctx context.Context, table models.Table) ([]models.Row, error)
	DeleteWhere(ctx context.Context, table models.Table, column, value string) (int64, error)
	Truncate(ctx context.Context, table models.Table) (int64, error)
	Count(ctx context.Context, table models.Table) (int64, error)
}

// ReportRepositoryI defines the fixed aggregate reports.
type ReportRepositoryI interface {
	EmployeesByJobDepartment(ctx context.Context, year int) ([]models.QuarterlyHires, error)
	DepartmentsWithHighestHiring(ctx context.Context, year int) ([]models.DepartmentHiring, error)
}

// UploadRepositoryI defines operations on the upload log.
type UploadRepositoryI interface {
	Record(ctx context.Context, u *models.Upload) (*models.Upload, error)
	ListRecent(ctx context.Context, limit int) ([]models.Upload, error)
}

var (
	_ TableRepositoryI  = (*TableRepository)(nil)
	_ ReportRepositoryI = (*ReportRepository)(nil)
	_ UploadRepositoryI = (*UploadRepository)(nil)
)
