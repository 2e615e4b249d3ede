package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// ListRecords returns every record in scope, whatever its status.
// Filtering by status is left to the aggregation.
func (r *reportRepositoryImpl) ListRecords(ctx context.Context, scope report.Scope) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.period_year = $1`
	args := []interface{}{scope.Year}
	argIdx := 2

	if scope.Month != nil {
		query += fmt.Sprintf(" AND pr.period_month = $%d", argIdx)
		args = append(args, *scope.Month)
		argIdx++
	}
	if scope.DepartmentID != nil {
		query += fmt.Sprintf(" AND pr.department_id = $%d", argIdx)
		args = append(args, *scope.DepartmentID)
	}
	query += " ORDER BY pr.period_month, e.employee_code"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report records: %w", err)
	}
	defer rows.Close()

	records := []payroll.PayrollRecord{}
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report records: %w", err)
	}
	return records, nil
}
