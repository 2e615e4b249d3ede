package report

import (
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func record(id, employeeID string, dept *string, status payroll.PayrollStatus, basic, allowances, net string) payroll.PayrollRecord {
	gross := money(basic).Add(money(allowances))
	return payroll.PayrollRecord{
		ID:           id,
		EmployeeID:   employeeID,
		DepartmentID: dept,
		Status:       status,
		Totals: payroll.Totals{
			BasicSalary:     money(basic),
			TotalAllowances: money(allowances),
			GrossEarnings:   gross,
			TotalDeductions: gross.Sub(money(net)),
			NetPay:          money(net),
		},
	}
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil, nil)

	assert.Equal(t, 0, stats.TotalRecords)
	assert.Equal(t, 0, stats.Skipped)
	assert.True(t, stats.PaymentRate.IsZero())
	assert.True(t, stats.ApprovalRate.IsZero())
	assert.True(t, stats.AverageNetPay.IsZero())
	assert.Empty(t, stats.Departments)
	require.Len(t, stats.StatusCounts, len(payroll.AllStatuses))
	for _, s := range payroll.AllStatuses {
		assert.Equal(t, 0, stats.StatusCounts[s], s)
	}
}

func TestAggregate_MixedStatuses(t *testing.T) {
	eng := strPtr("dept-eng")
	ops := strPtr("dept-ops")
	records := []payroll.PayrollRecord{
		record("r1", "e1", eng, payroll.StatusPaid, "300000", "60000", "280000"),
		record("r2", "e2", eng, payroll.StatusPaid, "200000", "40000", "190000"),
		record("r3", "e3", ops, payroll.StatusApproved, "150000", "0", "120000"),
		record("r4", "e4", ops, payroll.StatusDraft, "100000", "10000", "90000"),
		record("r5", "e5", nil, payroll.StatusCancelled, "999999", "0", "999999"),
	}
	names := map[string]string{"dept-eng": "Engineering", "dept-ops": "Operations"}

	stats := Aggregate(records, names)

	assert.Equal(t, 5, stats.TotalRecords)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 2, stats.StatusCounts[payroll.StatusPaid])
	assert.Equal(t, 1, stats.StatusCounts[payroll.StatusApproved])
	assert.Equal(t, 1, stats.StatusCounts[payroll.StatusDraft])
	assert.Equal(t, 1, stats.StatusCounts[payroll.StatusCancelled])
	assert.Equal(t, 0, stats.StatusCounts[payroll.StatusFailed])

	// cancelled record is counted but not summed
	assert.True(t, money("680000").Equal(stats.TotalNetPay), stats.TotalNetPay.String())
	assert.True(t, money("170000").Equal(stats.AverageNetPay), stats.AverageNetPay.String())
	assert.True(t, money("40").Equal(stats.PaymentRate), stats.PaymentRate.String())
	assert.True(t, money("60").Equal(stats.ApprovalRate), stats.ApprovalRate.String())

	require.Len(t, stats.Departments, 2)
	assert.Equal(t, "Engineering", stats.Departments[0].Name)
	assert.Equal(t, 2, stats.Departments[0].EmployeeCount)
	assert.True(t, money("600000").Equal(stats.Departments[0].TotalCost))
	assert.True(t, money("470000").Equal(stats.Departments[0].TotalNetPay))
	assert.Equal(t, "Operations", stats.Departments[1].Name)
	assert.True(t, money("260000").Equal(stats.Departments[1].TotalCost))
}

func TestAggregate_SkipsMalformed(t *testing.T) {
	negative := record("r3", "e3", nil, payroll.StatusDraft, "100", "0", "100")
	negative.TotalAllowances = money("-1")

	records := []payroll.PayrollRecord{
		record("r1", "e1", nil, payroll.StatusPaid, "100", "0", "100"),
		record("", "e2", nil, payroll.StatusPaid, "100", "0", "100"),
		negative,
		record("r4", "e4", nil, payroll.PayrollStatus("UNKNOWN"), "100", "0", "100"),
	}

	stats := Aggregate(records, nil)

	assert.Equal(t, 1, stats.TotalRecords)
	assert.Equal(t, 3, stats.Skipped)
	assert.True(t, money("100").Equal(stats.PaymentRate))
	require.Len(t, stats.Departments, 1)
	assert.Equal(t, report.UnassignedDepartment, stats.Departments[0].DepartmentID)
}

func TestAggregate_DistinctEmployeesPerDepartment(t *testing.T) {
	eng := strPtr("dept-eng")
	records := []payroll.PayrollRecord{
		record("r1", "e1", eng, payroll.StatusPaid, "100", "0", "100"),
		record("r2", "e1", eng, payroll.StatusPaid, "100", "0", "100"),
		record("r3", "e2", eng, payroll.StatusPaid, "100", "0", "100"),
	}

	stats := Aggregate(records, map[string]string{"dept-eng": "Engineering"})

	require.Len(t, stats.Departments, 1)
	assert.Equal(t, 2, stats.Departments[0].EmployeeCount)
	assert.True(t, money("300").Equal(stats.Departments[0].TotalCost))
}

func TestAggregate_RatesRoundToTwoDecimals(t *testing.T) {
	records := []payroll.PayrollRecord{
		record("r1", "e1", nil, payroll.StatusPaid, "100", "0", "100"),
		record("r2", "e2", nil, payroll.StatusDraft, "100", "0", "100"),
		record("r3", "e3", nil, payroll.StatusPending, "100", "0", "100"),
	}

	stats := Aggregate(records, nil)

	assert.Equal(t, "33.33", stats.PaymentRate.StringFixed(2))
	assert.Equal(t, "33.33", stats.ApprovalRate.StringFixed(2))
}
