package models

// Job is a row of the `jobs` lookup table.
type Job struct {
	ID  string `db:"id" json:"id"`
	Job string `db:"job" json:"job"`
}
