package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type bonusRepository struct {
	db *database.DB
}

func NewBonusRepository(db *database.DB) payroll.BonusRepository {
	return &bonusRepository{db: db}
}

const bonusColumns = `id, employee_id, type, amount, payment_date, effective_date, expiry_date,
	approval_status, is_taxable, description, reviewed_by, reviewed_at, created_at, updated_at`

func scanBonus(row pgx.Row) (payroll.Bonus, error) {
	var b payroll.Bonus
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.Type, &b.Amount, &b.PaymentDate, &b.EffectiveDate, &b.ExpiryDate,
		&b.ApprovalStatus, &b.IsTaxable, &b.Description, &b.ReviewedBy, &b.ReviewedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *bonusRepository) Create(ctx context.Context, bonus payroll.Bonus) (payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO bonuses (id, employee_id, type, amount, payment_date, effective_date, expiry_date,
			approval_status, is_taxable, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + bonusColumns

	b, err := scanBonus(q.QueryRow(ctx, query,
		newID(), bonus.EmployeeID, string(bonus.Type), bonus.Amount, bonus.PaymentDate, bonus.EffectiveDate,
		bonus.ExpiryDate, string(bonus.ApprovalStatus), bonus.IsTaxable, bonus.Description,
	))
	if err != nil {
		return payroll.Bonus{}, fmt.Errorf("failed to create bonus: %w", err)
	}
	return b, nil
}

func (r *bonusRepository) GetByID(ctx context.Context, id string) (payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	b, err := scanBonus(q.QueryRow(ctx, `SELECT `+bonusColumns+` FROM bonuses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Bonus{}, payroll.ErrBonusNotFound
		}
		return payroll.Bonus{}, fmt.Errorf("failed to get bonus: %w", err)
	}
	return b, nil
}

func (r *bonusRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Bonus, error) {
	return r.list(ctx, `SELECT `+bonusColumns+` FROM bonuses WHERE employee_id = $1 ORDER BY effective_date DESC`, employeeID)
}

// ListApproved narrows by date in SQL; the calculator applies the exact
// payment-date-over-effective-date rule.
func (r *bonusRepository) ListApproved(ctx context.Context, employeeID string, p payroll.Period) ([]payroll.Bonus, error) {
	query := `SELECT ` + bonusColumns + `
		FROM bonuses
		WHERE employee_id = $1
		  AND approval_status = 'approved'
		  AND COALESCE(payment_date, effective_date) >= $2
		  AND COALESCE(payment_date, effective_date) < $3
		ORDER BY effective_date`
	return r.list(ctx, query, employeeID, p.Start(), p.End())
}

func (r *bonusRepository) list(ctx context.Context, query string, args ...interface{}) ([]payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonuses: %w", err)
	}
	defer rows.Close()

	bonuses := []payroll.Bonus{}
	for rows.Next() {
		b, err := scanBonus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bonus: %w", err)
		}
		bonuses = append(bonuses, b)
	}
	return bonuses, rows.Err()
}

func (r *bonusRepository) Review(ctx context.Context, id string, status payroll.ApprovalStatus, reviewerID string) (payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE bonuses
		SET approval_status = $2, reviewed_by = $3, reviewed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND approval_status = 'pending'
		RETURNING ` + bonusColumns

	b, err := scanBonus(q.QueryRow(ctx, query, id, string(status), reviewerID))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return payroll.Bonus{}, fmt.Errorf("failed to review bonus: %w", err)
	}

	// Distinguish missing from already reviewed
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return payroll.Bonus{}, getErr
	}
	return payroll.Bonus{}, payroll.ErrBonusAlreadyReviewed
}
