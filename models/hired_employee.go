package models

// HiredEmployee is a row of `hired_employees`.
// All fields are stored as text. DepartmentID and JobID are not checked against
// the lookup tables, so dangling references are possible.
type HiredEmployee struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Datetime     string `db:"datetime" json:"datetime"` // ISO-8601
	DepartmentID string `db:"department_id" json:"department_id"`
	JobID        string `db:"job_id" json:"job_id"`
}
