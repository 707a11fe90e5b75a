package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hiringMetrics/models"
)

type ReportRepository struct {
	db Querier
}

func NewReportRepository(db Querier) *ReportRepository {
	return &ReportRepository{db: db}
}

const employeesByJobDepartmentQuery = `
SELECT
    departments.department AS department,
    jobs.job AS job,
    SUM(CASE WHEN strftime('%Y', hired_employees.datetime) = ?1 AND strftime('%m', hired_employees.datetime) BETWEEN '01' AND '03' THEN 1 ELSE 0 END) AS q1,
    SUM(CASE WHEN strftime('%Y', hired_employees.datetime) = ?1 AND strftime('%m', hired_employees.datetime) BETWEEN '04' AND '06' THEN 1 ELSE 0 END) AS q2,
    SUM(CASE WHEN strftime('%Y', hired_employees.datetime) = ?1 AND strftime('%m', hired_employees.datetime) BETWEEN '07' AND '09' THEN 1 ELSE 0 END) AS q3,
    SUM(CASE WHEN strftime('%Y', hired_employees.datetime) = ?1 AND strftime('%m', hired_employees.datetime) BETWEEN '10' AND '12' THEN 1 ELSE 0 END) AS q4
FROM hired_employees
INNER JOIN departments ON hired_employees.department_id = departments.id
INNER JOIN jobs ON hired_employees.job_id = jobs.id
GROUP BY departments.department, jobs.job
ORDER BY departments.department ASC, jobs.job ASC`

// EmployeesByJobDepartment counts hires per department and job for each quarter
// of year. Hires outside year still produce a row (with zero counts) when the
// department/job pair has any hire at all.
func (r *ReportRepository) EmployeesByJobDepartment(ctx context.Context, year int) ([]models.QuarterlyHires, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, employeesByJobDepartmentQuery, yearText(year))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.QuarterlyHires, 0)
	for rows.Next() {
		var q models.QuarterlyHires
		var dept, job sql.NullString
		if err := rows.Scan(&dept, &job, &q.Q1, &q.Q2, &q.Q3, &q.Q4); err != nil {
			return nil, err
		}
		q.Department, q.Job = dept.String, job.String
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const departmentsWithHighestHiringQuery = `
SELECT
    departments.id AS id,
    departments.department AS department,
    COUNT(hired_employees.id) AS hired
FROM departments
INNER JOIN hired_employees ON departments.id = hired_employees.department_id
WHERE strftime('%Y', hired_employees.datetime) = ?1
GROUP BY departments.id
HAVING hired > (
    SELECT AVG(department_hiring_count) FROM (
        SELECT COUNT(id) AS department_hiring_count
        FROM hired_employees
        WHERE strftime('%Y', datetime) = ?1
        GROUP BY department_id
    )
)
ORDER BY hired DESC, departments.id ASC`

// DepartmentsWithHighestHiring lists departments that hired more people in year
// than the mean over all departments that hired that year.
func (r *ReportRepository) DepartmentsWithHighestHiring(ctx context.Context, year int) ([]models.DepartmentHiring, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, departmentsWithHighestHiringQuery, yearText(year))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DepartmentHiring, 0)
	for rows.Next() {
		var d models.DepartmentHiring
		var name sql.NullString
		if err := rows.Scan(&d.ID, &name, &d.Hired); err != nil {
			return nil, err
		}
		d.Department = name.String
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func yearText(year int) string {
	return fmt.Sprintf("%04d", year)
}
