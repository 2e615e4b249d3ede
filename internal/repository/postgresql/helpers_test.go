package postgresql

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 3, 29, 10, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return database.New(mock), mock
}

func strPtr(s string) *string { return &s }

var payrollRecordColumnNames = []string{
	"id", "employee_id", "department_id", "grade_id", "period_month", "period_year", "frequency",
	"allowances", "bonuses", "deductions",
	"basic_salary", "total_allowances", "total_bonuses", "overtime_amount", "gross_earnings",
	"consolidated_relief", "taxable_income", "tax", "pension", "nhf", "total_loans",
	"other_deductions", "total_deductions", "net_pay",
	"status", "payment_date", "paid_by", "notes", "created_at", "updated_at",
	"full_name", "employee_code",
}

// addRecordRow appends a record whose gross is basic plus allowances and
// whose single deduction line is tax.
func addRecordRow(rows *pgxmock.Rows, id string, departmentID *string, status payroll.PayrollStatus, basic, allowances, tax string) *pgxmock.Rows {
	return rows.AddRow(
		id, "emp-"+id, departmentID, "grade-1", 3, 2024, payroll.FrequencyMonthly,
		[]byte(`[{"name":"Housing","kind":"allowance","amount":"`+allowances+`","taxable":true}]`),
		[]byte(`[]`),
		[]byte(`[{"name":"PAYE","kind":"tax","amount":"`+tax+`"}]`),
		basic, allowances, "0", "0", "0",
		"0", "0", tax, "0", "0", "0",
		"0", tax, "0",
		status, (*time.Time)(nil), (*string)(nil), (*string)(nil), testTime, testTime,
		strPtr("Ada Obi"), strPtr("EMP-"+id),
	)
}

// anyArgs matches a statement with n arguments whose values the test
// does not care about.
func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}
