package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.employee_code, e.full_name, e.email, e.department_id, e.grade_id, e.hire_date,
	e.employment_status, e.bank_name, e.bank_account_holder_name, e.bank_account_number,
	e.nhf_number, e.overtime_hours, e.overtime_rate, e.created_at, e.updated_at,
	d.name, g.level`

const employeeFrom = `
	FROM employees e
	LEFT JOIN departments d ON e.department_id = d.id
	LEFT JOIN salary_grades g ON e.grade_id = g.id`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.FullName, &e.Email, &e.DepartmentID, &e.GradeID, &e.HireDate,
		&e.EmploymentStatus, &e.BankName, &e.BankAccountHolderName, &e.BankAccountNumber,
		&e.NHFNumber, &e.Overtime.HoursWorked, &e.Overtime.Rate, &e.CreatedAt, &e.UpdatedAt,
		&e.DepartmentName, &e.GradeLevel,
	)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+employeeFrom+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, employee_code, full_name, email, department_id, grade_id, hire_date,
			employment_status, bank_name, bank_account_holder_name, bank_account_number,
			nhf_number, overtime_hours, overtime_rate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	newEmployee.ID = newID()
	err := q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.EmployeeCode, newEmployee.FullName, newEmployee.Email,
		newEmployee.DepartmentID, newEmployee.GradeID, newEmployee.HireDate,
		string(newEmployee.EmploymentStatus), newEmployee.BankName, newEmployee.BankAccountHolderName,
		newEmployee.BankAccountNumber, newEmployee.NHFNumber,
		newEmployee.Overtime.HoursWorked, newEmployee.Overtime.Rate,
	).Scan(&newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uk_employee_code") {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return newEmployee, nil
}

// ExistsByCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByCode(ctx context.Context, employeeCode string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE employee_code = $1)`, employeeCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee code: %w", err)
	}
	return exists, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argIdx := 2

	set := func(column string, value interface{}) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.FullName != nil {
		set("full_name", *req.FullName)
	}
	if req.Email != nil {
		set("email", *req.Email)
	}
	if req.DepartmentID != nil {
		set("department_id", *req.DepartmentID)
	}
	if req.GradeID != nil {
		set("grade_id", *req.GradeID)
	}
	if req.BankName != nil {
		set("bank_name", *req.BankName)
	}
	if req.BankAccountHolderName != nil {
		set("bank_account_holder_name", *req.BankAccountHolderName)
	}
	if req.BankAccountNumber != nil {
		set("bank_account_number", *req.BankAccountNumber)
	}
	if req.NHFNumber != nil {
		if *req.NHFNumber == "" {
			set("nhf_number", nil)
		} else {
			set("nhf_number", *req.NHFNumber)
		}
	}
	if req.OvertimeHours != nil {
		set("overtime_hours", *req.OvertimeHours)
	}
	if req.OvertimeRate != nil {
		set("overtime_rate", *req.OvertimeRate)
	}

	query := fmt.Sprintf(`UPDATE employees SET %s WHERE id = $1`, strings.Join(setParts, ", "))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdateStatus implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateStatus(ctx context.Context, id string, status employee.EmploymentStatus) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET employment_status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update employee status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)
	filter.Normalize()

	where := ` WHERE 1 = 1`
	args := []interface{}{}
	argIdx := 1

	if filter.DepartmentID != nil {
		where += fmt.Sprintf(" AND e.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND e.employment_status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		where += fmt.Sprintf(" AND (e.full_name ILIKE $%d OR e.employee_code ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+strings.TrimSpace(*filter.Search)+"%")
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees e`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY e.employee_code LIMIT $%d OFFSET $%d`,
		employeeColumns, employeeFrom, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	employees, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// GetActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActive(ctx context.Context, departmentID *string) ([]employee.Employee, error) {
	query := `SELECT ` + employeeColumns + employeeFrom + ` WHERE e.employment_status = 'active'`
	args := []interface{}{}
	if departmentID != nil {
		query += ` AND e.department_id = $1`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY e.employee_code`
	return r.query(ctx, query, args...)
}

// GetAll implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetAll(ctx context.Context) ([]employee.Employee, error) {
	return r.query(ctx, `SELECT `+employeeColumns+employeeFrom+` ORDER BY e.employee_code`)
}

func (r *employeeRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
