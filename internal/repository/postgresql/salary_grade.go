package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type gradeRepository struct {
	db *database.DB
}

func NewGradeRepository(db *database.DB) payroll.GradeRepository {
	return &gradeRepository{db: db}
}

const gradeComponentsQuery = `
	SELECT gc.grade_id, pc.id, pc.name, pc.type, pc.method, pc.value, pc.description,
		   pc.is_taxable, pc.is_pensionable, pc.is_active, pc.created_at, pc.updated_at
	FROM grade_components gc
	JOIN payroll_components pc ON pc.id = gc.component_id
`

// Create inserts the grade and its component links; Components only need IDs.
// Callers wrap it in a transaction.
func (r *gradeRepository) Create(ctx context.Context, grade payroll.SalaryGrade) (payroll.SalaryGrade, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_grades (id, level, basic_salary, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, level, basic_salary, description, created_at, updated_at
	`

	var g payroll.SalaryGrade
	err := q.QueryRow(ctx, query, newID(), grade.Level, grade.BasicSalary, grade.Description).Scan(
		&g.ID, &g.Level, &g.BasicSalary, &g.Description, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "uk_salary_grade_level") {
			return payroll.SalaryGrade{}, payroll.ErrSalaryGradeLevelExists
		}
		return payroll.SalaryGrade{}, fmt.Errorf("failed to create salary grade: %w", err)
	}

	ids := make([]string, 0, len(grade.Components))
	for _, c := range grade.Components {
		ids = append(ids, c.ID)
	}
	if err := r.ReplaceComponents(ctx, g.ID, ids); err != nil {
		return payroll.SalaryGrade{}, err
	}
	g.Components = grade.Components

	return g, nil
}

func (r *gradeRepository) GetByID(ctx context.Context, id string) (payroll.SalaryGrade, error) {
	q := GetQuerier(ctx, r.db)

	var g payroll.SalaryGrade
	err := q.QueryRow(ctx, `
		SELECT id, level, basic_salary, description, created_at, updated_at
		FROM salary_grades WHERE id = $1
	`, id).Scan(&g.ID, &g.Level, &g.BasicSalary, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryGrade{}, payroll.ErrSalaryGradeNotFound
		}
		return payroll.SalaryGrade{}, fmt.Errorf("failed to get salary grade: %w", err)
	}

	components, err := r.loadComponents(ctx, gradeComponentsQuery+` WHERE gc.grade_id = $1 ORDER BY gc.position`, id)
	if err != nil {
		return payroll.SalaryGrade{}, err
	}
	g.Components = components[g.ID]

	return g, nil
}

func (r *gradeRepository) List(ctx context.Context) ([]payroll.SalaryGrade, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, level, basic_salary, description, created_at, updated_at
		FROM salary_grades ORDER BY basic_salary, level
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary grades: %w", err)
	}
	defer rows.Close()

	grades := []payroll.SalaryGrade{}
	for rows.Next() {
		var g payroll.SalaryGrade
		if err := rows.Scan(&g.ID, &g.Level, &g.BasicSalary, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan salary grade: %w", err)
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary grades: %w", err)
	}

	components, err := r.loadComponents(ctx, gradeComponentsQuery+` ORDER BY gc.grade_id, gc.position`)
	if err != nil {
		return nil, err
	}
	for i := range grades {
		grades[i].Components = components[grades[i].ID]
	}

	return grades, nil
}

func (r *gradeRepository) loadComponents(ctx context.Context, query string, args ...interface{}) (map[string][]payroll.PayrollComponent, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load grade components: %w", err)
	}
	defer rows.Close()

	byGrade := make(map[string][]payroll.PayrollComponent)
	for rows.Next() {
		var gradeID string
		var c payroll.PayrollComponent
		if err := rows.Scan(
			&gradeID, &c.ID, &c.Name, &c.Type, &c.Method, &c.Value, &c.Description,
			&c.IsTaxable, &c.IsPensionable, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan grade component: %w", err)
		}
		byGrade[gradeID] = append(byGrade[gradeID], c)
	}

	return byGrade, rows.Err()
}

func (r *gradeRepository) Update(ctx context.Context, grade payroll.SalaryGrade) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE salary_grades
		SET level = $2, basic_salary = $3, description = $4, updated_at = NOW()
		WHERE id = $1
	`, grade.ID, grade.Level, grade.BasicSalary, grade.Description)
	if err != nil {
		if isUniqueViolation(err, "uk_salary_grade_level") {
			return payroll.ErrSalaryGradeLevelExists
		}
		return fmt.Errorf("failed to update salary grade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrSalaryGradeNotFound
	}
	return nil
}

// ReplaceComponents rewrites the ordered component list of a grade.
func (r *gradeRepository) ReplaceComponents(ctx context.Context, gradeID string, componentIDs []string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM grade_components WHERE grade_id = $1`, gradeID); err != nil {
		return fmt.Errorf("failed to clear grade components: %w", err)
	}
	if len(componentIDs) == 0 {
		return nil
	}

	positions := make([]int32, len(componentIDs))
	for i := range componentIDs {
		positions[i] = int32(i)
	}

	_, err := q.Exec(ctx, `
		INSERT INTO grade_components (grade_id, component_id, position)
		SELECT $1, component_id, position
		FROM UNNEST($2::uuid[], $3::int[]) AS t(component_id, position)
	`, gradeID, componentIDs, positions)
	if err != nil {
		if isForeignKeyViolation(err) {
			return payroll.ErrPayrollComponentNotFound
		}
		return fmt.Errorf("failed to link grade components: %w", err)
	}
	return nil
}
