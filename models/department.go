package models

// Department is a row of the `departments` lookup table.
type Department struct {
	ID         string `db:"id" json:"id"`
	Department string `db:"department" json:"department"`
}
