package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type componentRepository struct {
	db *database.DB
}

func NewComponentRepository(db *database.DB) payroll.ComponentRepository {
	return &componentRepository{db: db}
}

const componentColumns = `id, name, type, method, value, description, is_taxable, is_pensionable, is_active, created_at, updated_at`

func scanComponent(row pgx.Row) (payroll.PayrollComponent, error) {
	var c payroll.PayrollComponent
	err := row.Scan(
		&c.ID, &c.Name, &c.Type, &c.Method, &c.Value, &c.Description,
		&c.IsTaxable, &c.IsPensionable, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *componentRepository) Create(ctx context.Context, component payroll.PayrollComponent) (payroll.PayrollComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_components (id, name, type, method, value, description, is_taxable, is_pensionable, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + componentColumns

	c, err := scanComponent(q.QueryRow(ctx, query,
		newID(), component.Name, string(component.Type), string(component.Method), component.Value,
		component.Description, component.IsTaxable, component.IsPensionable, component.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_payroll_component_name") {
			return payroll.PayrollComponent{}, payroll.ErrPayrollComponentNameExists
		}
		return payroll.PayrollComponent{}, fmt.Errorf("failed to create payroll component: %w", err)
	}

	return c, nil
}

func (r *componentRepository) GetByID(ctx context.Context, id string) (payroll.PayrollComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + componentColumns + ` FROM payroll_components WHERE id = $1`

	c, err := scanComponent(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollComponent{}, payroll.ErrPayrollComponentNotFound
		}
		return payroll.PayrollComponent{}, fmt.Errorf("failed to get payroll component: %w", err)
	}

	return c, nil
}

func (r *componentRepository) GetByIDs(ctx context.Context, ids []string) ([]payroll.PayrollComponent, error) {
	if len(ids) == 0 {
		return []payroll.PayrollComponent{}, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + componentColumns + ` FROM payroll_components WHERE id = ANY($1)`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll components: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]payroll.PayrollComponent, len(ids))
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll component: %w", err)
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll components: %w", err)
	}

	components := make([]payroll.PayrollComponent, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", payroll.ErrPayrollComponentNotFound, id)
		}
		components = append(components, c)
	}
	return components, nil
}

func (r *componentRepository) List(ctx context.Context, activeOnly bool) ([]payroll.PayrollComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + componentColumns + ` FROM payroll_components`
	if activeOnly {
		query += " WHERE is_active = true"
	}
	query += " ORDER BY type, name"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll components: %w", err)
	}
	defer rows.Close()

	components := []payroll.PayrollComponent{}
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll component: %w", err)
		}
		components = append(components, c)
	}

	return components, rows.Err()
}

func (r *componentRepository) Update(ctx context.Context, component payroll.PayrollComponent) (payroll.PayrollComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_components
		SET name = $2, method = $3, value = $4, description = $5,
			is_taxable = $6, is_pensionable = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + componentColumns

	c, err := scanComponent(q.QueryRow(ctx, query,
		component.ID, component.Name, string(component.Method), component.Value,
		component.Description, component.IsTaxable, component.IsPensionable,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollComponent{}, payroll.ErrPayrollComponentNotFound
		}
		if isUniqueViolation(err, "uk_payroll_component_name") {
			return payroll.PayrollComponent{}, payroll.ErrPayrollComponentNameExists
		}
		return payroll.PayrollComponent{}, fmt.Errorf("failed to update payroll component: %w", err)
	}

	return c, nil
}

func (r *componentRepository) SetActive(ctx context.Context, id string, active bool) (payroll.PayrollComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_components SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + componentColumns

	c, err := scanComponent(q.QueryRow(ctx, query, id, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollComponent{}, payroll.ErrPayrollComponentNotFound
		}
		return payroll.PayrollComponent{}, fmt.Errorf("failed to toggle payroll component: %w", err)
	}

	return c, nil
}

func (r *componentRepository) IsReferenced(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var referenced bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM grade_components WHERE component_id = $1)`, id).Scan(&referenced)
	if err != nil {
		return false, fmt.Errorf("failed to check component references: %w", err)
	}
	return referenced, nil
}

func (r *componentRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_components WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return payroll.ErrComponentInUse
		}
		return fmt.Errorf("failed to delete payroll component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollComponentNotFound
	}
	return nil
}
