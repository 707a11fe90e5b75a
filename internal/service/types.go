package service

import (
	"context"
	"io"

	"hiringMetrics/internal/loader"
	"hiringMetrics/models"
)

// ReportYear is the year both HTTP reports are computed for.
const ReportYear = 2021

type DeleteInput struct {
	Table  string
	Column string
	Value  string
}

type UploadInput struct {
	Table    string
	FileName string
	Body     io.Reader
}

// Manager is the operation set exposed over HTTP and gRPC.
type Manager interface {
	Upload(ctx context.Context, input UploadInput) (loader.Stats, error)
	Query(ctx context.Context, table string) ([]models.Row, error)
	Delete(ctx context.Context, input DeleteInput) (int64, error)
	Truncate(ctx context.Context, table string) (int64, error)
	EmployeesByJobDepartment(ctx context.Context) ([]models.QuarterlyHires, error)
	DepartmentsWithHighestHiring(ctx context.Context) ([]models.DepartmentHiring, error)
	RecentUploads(ctx context.Context, limit int) ([]models.Upload, error)
	Ping(ctx context.Context) error
}
