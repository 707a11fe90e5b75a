package models

// UploadStatus is the outcome of one upload attempt.
type UploadStatus string

const (
	UploadStatusSucceeded UploadStatus = "succeeded"
	UploadStatusFailed    UploadStatus = "failed"
)

// Upload is a row of the `uploads` log, one per load attempt.
type Upload struct {
	ID           string       `db:"id" json:"id"`
	Table        string       `db:"table_name" json:"table"`
	FileName     string       `db:"file_name" json:"file_name"`
	RowsRead     int64        `db:"rows_read" json:"rows_read"`
	RowsInserted int64        `db:"rows_inserted" json:"rows_inserted"`
	RowsSkipped  int64        `db:"rows_skipped" json:"rows_skipped"`
	Status       UploadStatus `db:"status" json:"status"`
	Error        string       `db:"error" json:"error,omitempty"`
	CreatedAt    string       `db:"created_at" json:"created_at"`
}
