package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hiringMetrics/models"
)

type UploadRepository struct {
	db Querier
}

func NewUploadRepository(db Querier) *UploadRepository {
	return &UploadRepository{db: db}
}

// Record stores one upload attempt. ID and CreatedAt are filled in when empty.
func (r *UploadRepository) Record(ctx context.Context, u *models.Upload) (*models.Upload, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	out := *u
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.CreatedAt == "" {
		out.CreatedAt = time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO uploads (id, table_name, file_name, rows_read, rows_inserted, rows_skipped, status, error, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.Table, out.FileName, out.RowsRead, out.RowsInserted, out.RowsSkipped, string(out.Status), out.Error, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRecent returns the newest uploads first.
func (r *UploadRepository) ListRecent(ctx context.Context, limit int) ([]models.Upload, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
SELECT id, table_name, file_name, rows_read, rows_inserted, rows_skipped, status, error, created_at
FROM uploads
ORDER BY created_at DESC, rowid DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Upload, 0)
	for rows.Next() {
		var u models.Upload
		var status string
		if err := rows.Scan(&u.ID, &u.Table, &u.FileName, &u.RowsRead, &u.RowsInserted, &u.RowsSkipped, &status, &u.Error, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Status = models.UploadStatus(status)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
