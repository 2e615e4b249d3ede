package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollRecordColumns = `
	pr.id, pr.employee_id, pr.department_id, pr.grade_id, pr.period_month, pr.period_year, pr.frequency,
	pr.allowances, pr.bonuses, pr.deductions,
	pr.basic_salary, pr.total_allowances, pr.total_bonuses, pr.overtime_amount, pr.gross_earnings,
	pr.consolidated_relief, pr.taxable_income, pr.tax, pr.pension, pr.nhf, pr.total_loans,
	pr.other_deductions, pr.total_deductions, pr.net_pay,
	pr.status, pr.payment_date, pr.paid_by, pr.notes, pr.created_at, pr.updated_at,
	e.full_name, e.employee_code`

// Statuses that no longer count towards a period's payroll cost.
const excludedFromPeriodTotals = `('CANCELLED', 'REJECTED', 'ARCHIVED')`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	var allowances, bonuses, deductions []byte
	t := &rec.Totals
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.DepartmentID, &rec.GradeID, &rec.Period.Month, &rec.Period.Year, &rec.Frequency,
		&allowances, &bonuses, &deductions,
		&t.BasicSalary, &t.TotalAllowances, &t.TotalBonuses, &t.OvertimeAmount, &t.GrossEarnings,
		&t.ConsolidatedRelief, &t.TaxableIncome, &t.Tax, &t.Pension, &t.NHF, &t.TotalLoans,
		&t.OtherDeductions, &t.TotalDeductions, &t.NetPay,
		&rec.Status, &rec.PaymentDate, &rec.PaidBy, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	for _, col := range []struct {
		raw  []byte
		dest *[]payroll.Line
	}{
		{allowances, &rec.Allowances},
		{bonuses, &rec.Bonuses},
		{deductions, &rec.Deductions},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return payroll.PayrollRecord{}, fmt.Errorf("failed to decode payroll lines: %w", err)
		}
	}
	return rec, nil
}

func marshalLines(lines []payroll.Line) ([]byte, error) {
	if lines == nil {
		lines = []payroll.Line{}
	}
	return json.Marshal(lines)
}

// ========== PAYROLL RECORDS ==========

func (r *payrollRepository) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	allowances, err := marshalLines(record.Allowances)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to encode allowances: %w", err)
	}
	bonuses, err := marshalLines(record.Bonuses)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to encode bonuses: %w", err)
	}
	deductions, err := marshalLines(record.Deductions)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to encode deductions: %w", err)
	}

	query := `
		INSERT INTO payroll_records (
			id, employee_id, department_id, grade_id, period_month, period_year, frequency,
			allowances, bonuses, deductions,
			basic_salary, total_allowances, total_bonuses, overtime_amount, gross_earnings,
			consolidated_relief, taxable_income, tax, pension, nhf, total_loans,
			other_deductions, total_deductions, net_pay, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING created_at, updated_at
	`

	t := record.Totals
	record.ID = newID()
	err = q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.DepartmentID, record.GradeID,
		record.Period.Month, record.Period.Year, string(record.Frequency),
		allowances, bonuses, deductions,
		t.BasicSalary, t.TotalAllowances, t.TotalBonuses, t.OvertimeAmount, t.GrossEarnings,
		t.ConsolidatedRelief, t.TaxableIncome, t.Tax, t.Pension, t.NHF, t.TotalLoans,
		t.OtherDeductions, t.TotalDeductions, t.NetPay, string(record.Status), record.Notes,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uk_employee_period") {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.id = $1`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) ExistsForPeriod(ctx context.Context, employeeID string, p payroll.Period, frequency payroll.Frequency) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM payroll_records
			WHERE employee_id = $1 AND period_month = $2 AND period_year = $3 AND frequency = $4
		)
	`, employeeID, p.Month, p.Year, string(frequency)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll record: %w", err)
	}
	return exists, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE 1 = 1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.PeriodMonth != nil {
		baseQuery += fmt.Sprintf(" AND pr.period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		baseQuery += fmt.Sprintf(" AND pr.period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND pr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentID != nil {
		baseQuery += fmt.Sprintf(" AND pr.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}

	// Count query
	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	// Sort
	sortColumn := "pr.created_at"
	allowedColumns := map[string]string{
		"created_at":    "pr.created_at",
		"period":        "pr.period_year, pr.period_month",
		"employee_name": "e.full_name",
		"net_pay":       "pr.net_pay",
		"status":        "pr.status",
	}
	if col, ok := allowedColumns[filter.SortBy]; ok {
		sortColumn = col
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY %s %s, pr.id LIMIT $%d OFFSET $%d`,
		payrollRecordColumns, baseQuery, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	records, err := r.queryRecords(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	return records, totalCount, nil
}

func (r *payrollRepository) ListByPeriod(ctx context.Context, p payroll.Period) ([]payroll.PayrollRecord, error) {
	query := `SELECT ` + payrollRecordColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.period_month = $1 AND pr.period_year = $2
		ORDER BY e.employee_code`
	return r.queryRecords(ctx, query, p.Month, p.Year)
}

func (r *payrollRepository) ListByEmployee(ctx context.Context, employeeID string, statuses []payroll.PayrollStatus) ([]payroll.PayrollRecord, error) {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}
	query := `SELECT ` + payrollRecordColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.employee_id = $1 AND pr.status = ANY($2)
		ORDER BY pr.period_year DESC, pr.period_month DESC`
	return r.queryRecords(ctx, query, employeeID, names)
}

func (r *payrollRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	records := []payroll.PayrollRecord{}
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll records: %w", err)
	}
	return records, nil
}

func (r *payrollRepository) UpdateAmounts(ctx context.Context, record payroll.PayrollRecord) error {
	q := GetQuerier(ctx, r.db)

	allowances, err := marshalLines(record.Allowances)
	if err != nil {
		return fmt.Errorf("failed to encode allowances: %w", err)
	}
	bonuses, err := marshalLines(record.Bonuses)
	if err != nil {
		return fmt.Errorf("failed to encode bonuses: %w", err)
	}
	deductions, err := marshalLines(record.Deductions)
	if err != nil {
		return fmt.Errorf("failed to encode deductions: %w", err)
	}

	t := record.Totals
	tag, err := q.Exec(ctx, `
		UPDATE payroll_records SET
			department_id = $2, grade_id = $3, allowances = $4, bonuses = $5, deductions = $6,
			basic_salary = $7, total_allowances = $8, total_bonuses = $9, overtime_amount = $10,
			gross_earnings = $11, consolidated_relief = $12, taxable_income = $13, tax = $14,
			pension = $15, nhf = $16, total_loans = $17, other_deductions = $18,
			total_deductions = $19, net_pay = $20, updated_at = NOW()
		WHERE id = $1 AND status = 'DRAFT'
	`,
		record.ID, record.DepartmentID, record.GradeID, allowances, bonuses, deductions,
		t.BasicSalary, t.TotalAllowances, t.TotalBonuses, t.OvertimeAmount,
		t.GrossEarnings, t.ConsolidatedRelief, t.TaxableIncome, t.Tax,
		t.Pension, t.NHF, t.TotalLoans, t.OtherDeductions,
		t.TotalDeductions, t.NetPay,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll amounts: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotEditable
	}
	return nil
}

func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, from, to payroll.PayrollStatus, paymentDate *time.Time, paidBy *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_records
		SET status = $3,
			payment_date = COALESCE($4, payment_date),
			paid_by = COALESCE($5, paid_by),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, string(from), string(to), paymentDate, paidBy)
	if err != nil {
		return fmt.Errorf("failed to update payroll status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: record %s is no longer %s", payroll.ErrInvalidStatusTransition, id, from)
	}
	return nil
}

// ========== APPROVAL HISTORY ==========

func (r *payrollRepository) AddHistory(ctx context.Context, entry payroll.ApprovalEntry) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO payroll_approval_history (id, payroll_id, level, action, from_status, to_status, user_id, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, newID(), entry.PayrollID, entry.Level, string(entry.Action), string(entry.FromStatus), string(entry.ToStatus), entry.UserID, entry.Remarks)
	if err != nil {
		return fmt.Errorf("failed to add approval history: %w", err)
	}
	return nil
}

func (r *payrollRepository) ListHistory(ctx context.Context, payrollID string) ([]payroll.ApprovalEntry, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, payroll_id, level, action, from_status, to_status, user_id, remarks, created_at
		FROM payroll_approval_history
		WHERE payroll_id = $1
		ORDER BY created_at, id
	`, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval history: %w", err)
	}
	defer rows.Close()

	entries := []payroll.ApprovalEntry{}
	for rows.Next() {
		var e payroll.ApprovalEntry
		if err := rows.Scan(&e.ID, &e.PayrollID, &e.Level, &e.Action, &e.FromStatus, &e.ToStatus, &e.UserID, &e.Remarks, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approval history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ========== PERIODS ==========

func (r *payrollRepository) RefreshPeriod(ctx context.Context, p payroll.Period) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods (period_month, period_year, employee_count, total_net_salary, updated_at)
		SELECT $1::int, $2::int, COUNT(DISTINCT employee_id), COALESCE(SUM(net_pay), 0), NOW()
		FROM payroll_records
		WHERE period_month = $1 AND period_year = $2 AND status NOT IN ` + excludedFromPeriodTotals + `
		ON CONFLICT (period_year, period_month) DO UPDATE SET
			employee_count = EXCLUDED.employee_count,
			total_net_salary = EXCLUDED.total_net_salary,
			updated_at = NOW()
		RETURNING period_month, period_year, employee_count, total_net_salary, updated_at
	`

	var period payroll.PayrollPeriod
	err := q.QueryRow(ctx, query, p.Month, p.Year).Scan(
		&period.Month, &period.Year, &period.EmployeeCount, &period.TotalNetSalary, &period.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to refresh payroll period: %w", err)
	}
	return period, nil
}

func (r *payrollRepository) RefreshAllPeriods(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		INSERT INTO payroll_periods (period_month, period_year, employee_count, total_net_salary, updated_at)
		SELECT period_month, period_year,
			COUNT(DISTINCT employee_id) FILTER (WHERE status NOT IN `+excludedFromPeriodTotals+`),
			COALESCE(SUM(net_pay) FILTER (WHERE status NOT IN `+excludedFromPeriodTotals+`), 0),
			NOW()
		FROM payroll_records
		GROUP BY period_year, period_month
		ON CONFLICT (period_year, period_month) DO UPDATE SET
			employee_count = EXCLUDED.employee_count,
			total_net_salary = EXCLUDED.total_net_salary,
			updated_at = NOW()
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh payroll periods: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *payrollRepository) ListPeriods(ctx context.Context) ([]payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT period_month, period_year, employee_count, total_net_salary, updated_at
		FROM payroll_periods
		ORDER BY period_year DESC, period_month DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	defer rows.Close()

	periods := []payroll.PayrollPeriod{}
	for rows.Next() {
		var p payroll.PayrollPeriod
		if err := rows.Scan(&p.Month, &p.Year, &p.EmployeeCount, &p.TotalNetSalary, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payroll period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}
