package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type deductionRepository struct {
	db *database.DB
}

func NewDeductionRepository(db *database.DB) payroll.DeductionRepository {
	return &deductionRepository{db: db}
}

const deductionColumns = `id, employee_id, kind, description, amount, start_month, start_year,
	end_month, end_year, is_active, created_at, updated_at`

func scanDeduction(row pgx.Row) (payroll.EmployeeDeduction, error) {
	var d payroll.EmployeeDeduction
	var endMonth, endYear *int
	err := row.Scan(
		&d.ID, &d.EmployeeID, &d.Kind, &d.Description, &d.Amount, &d.StartPeriod.Month, &d.StartPeriod.Year,
		&endMonth, &endYear, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return payroll.EmployeeDeduction{}, err
	}
	if endMonth != nil && endYear != nil {
		d.EndPeriod = &payroll.Period{Month: *endMonth, Year: *endYear}
	}
	return d, nil
}

func (r *deductionRepository) Create(ctx context.Context, deduction payroll.EmployeeDeduction) (payroll.EmployeeDeduction, error) {
	q := GetQuerier(ctx, r.db)

	var endMonth, endYear *int
	if deduction.EndPeriod != nil {
		endMonth, endYear = &deduction.EndPeriod.Month, &deduction.EndPeriod.Year
	}

	query := `
		INSERT INTO employee_deductions (id, employee_id, kind, description, amount,
			start_month, start_year, end_month, end_year, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + deductionColumns

	d, err := scanDeduction(q.QueryRow(ctx, query,
		newID(), deduction.EmployeeID, string(deduction.Kind), deduction.Description, deduction.Amount,
		deduction.StartPeriod.Month, deduction.StartPeriod.Year, endMonth, endYear, deduction.IsActive,
	))
	if err != nil {
		return payroll.EmployeeDeduction{}, fmt.Errorf("failed to create employee deduction: %w", err)
	}
	return d, nil
}

func (r *deductionRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.EmployeeDeduction, error) {
	return r.list(ctx, `SELECT `+deductionColumns+` FROM employee_deductions
		WHERE employee_id = $1 ORDER BY start_year DESC, start_month DESC`, employeeID)
}

func (r *deductionRepository) ListActive(ctx context.Context, employeeID string) ([]payroll.EmployeeDeduction, error) {
	return r.list(ctx, `SELECT `+deductionColumns+` FROM employee_deductions
		WHERE employee_id = $1 AND is_active = true ORDER BY start_year, start_month`, employeeID)
}

func (r *deductionRepository) list(ctx context.Context, query string, args ...interface{}) ([]payroll.EmployeeDeduction, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee deductions: %w", err)
	}
	defer rows.Close()

	deductions := []payroll.EmployeeDeduction{}
	for rows.Next() {
		d, err := scanDeduction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee deduction: %w", err)
		}
		deductions = append(deductions, d)
	}
	return deductions, rows.Err()
}

func (r *deductionRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employee_deductions SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee deduction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrDeductionNotFound
	}
	return nil
}
