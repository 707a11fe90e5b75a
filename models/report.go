package models

// QuarterlyHires counts hires per department and job for each quarter of a year.
type QuarterlyHires struct {
	Department string `json:"department"`
	Job        string `json:"job"`
	Q1         int64  `json:"Q1"`
	Q2         int64  `json:"Q2"`
	Q3         int64  `json:"Q3"`
	Q4         int64  `json:"Q4"`
}

// DepartmentHiring is a department whose yearly hire count is above the mean.
type DepartmentHiring struct {
	ID         string `json:"id"`
	Department string `json:"department"`
	Hired      int64  `json:"hired"`
}

// Row is a generic table row keyed by column name. NULL values are nil.
type Row map[string]*string
