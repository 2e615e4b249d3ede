package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

const departmentColumns = `id, code, name, description, created_at, updated_at`

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	err := row.Scan(&d.ID, &d.Code, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// Create implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, dept department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO departments (id, code, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + departmentColumns

	created, err := scanDepartment(q.QueryRow(ctx, query, newID(), dept.Code, dept.Name, dept.Description))
	if err != nil {
		if isUniqueViolation(err, "uk_department_code") {
			return department.Department{}, department.ErrDepartmentCodeExists
		}
		return department.Department{}, fmt.Errorf("failed to create department: %w", err)
	}
	return created, nil
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDepartment(q.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return d, nil
}

// List implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	departments := []department.Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// Update implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, req department.UpdateDepartmentRequest) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE departments
		SET code = COALESCE($2, code),
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + departmentColumns

	d, err := scanDepartment(q.QueryRow(ctx, query, req.ID, req.Code, req.Name, req.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		if isUniqueViolation(err, "uk_department_code") {
			return department.Department{}, department.ErrDepartmentCodeExists
		}
		return department.Department{}, fmt.Errorf("failed to update department: %w", err)
	}
	return d, nil
}

// Delete implements department.DepartmentRepository. Departments with
// employees are kept so the department breakdown stays intact.
func (r *departmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var inUse bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE department_id = $1)`, id).Scan(&inUse); err != nil {
		return fmt.Errorf("failed to check department usage: %w", err)
	}
	if inUse {
		return department.ErrDepartmentInUse
	}

	tag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}
