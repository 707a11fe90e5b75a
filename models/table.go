package models

import (
	"errors"
	"fmt"
)

// Table names one of the fixed tables the service loads into.
type Table string

const (
	TableDepartments    Table = "departments"
	TableJobs           Table = "jobs"
	TableHiredEmployees Table = "hired_employees"
)

// ErrUnknownTable is returned for any table name outside the known set.
var ErrUnknownTable = errors.New("unknown table")

// ErrUnknownColumn is returned when a column is not part of the table's column list.
var ErrUnknownColumn = errors.New("unknown column")

// Column order matches the CSV layout of each table. The first column is the key.
var tableColumns = map[Table][]string{
	TableDepartments:    {"id", "department"},
	TableJobs:           {"id", "job"},
	TableHiredEmployees: {"id", "name", "datetime", "department_id", "job_id"},
}

// Tables lists the known tables in a stable order.
func Tables() []Table {
	return []Table{TableDepartments, TableJobs, TableHiredEmployees}
}

// ParseTable validates a raw table name against the known set. The match is
// exact: no case folding, no trimming.
func ParseTable(name string) (Table, error) {
	t := Table(name)
	if _, ok := tableColumns[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

// Columns returns a copy of the table's column list.
func (t Table) Columns() []string {
	cols := tableColumns[t]
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// KeyColumn is the column used for duplicate suppression.
func (t Table) KeyColumn() string {
	return tableColumns[t][0]
}

// Column validates name against the table's columns and returns it.
func (t Table) Column(name string) (string, error) {
	for _, c := range tableColumns[t] {
		if c == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q for table %s", ErrUnknownColumn, name, t)
}

func (t Table) String() string {
	return string(t)
}
