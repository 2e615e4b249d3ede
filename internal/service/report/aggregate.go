package report

import (
	"sort"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/report"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// approvedStatuses have passed approval, whatever happened to the payment.
var approvedStatuses = map[payroll.PayrollStatus]bool{
	payroll.StatusApproved:       true,
	payroll.StatusPendingPayment: true,
	payroll.StatusPaid:           true,
	payroll.StatusFailed:         true,
}

// withdrawnStatuses count toward status totals but not toward money sums.
var withdrawnStatuses = map[payroll.PayrollStatus]bool{
	payroll.StatusCancelled: true,
	payroll.StatusRejected:  true,
	payroll.StatusArchived:  true,
}

type deptAcc struct {
	stat      report.DepartmentStat
	employees map[string]struct{}
}

// Aggregate summarises records in one pass. departmentNames maps
// department ids to display names; unknown ids fall back to the id.
// Malformed records are counted in Skipped and otherwise ignored.
func Aggregate(records []payroll.PayrollRecord, departmentNames map[string]string) report.Statistics {
	stats := report.Statistics{
		StatusCounts: make(map[payroll.PayrollStatus]int, len(payroll.AllStatuses)),
	}
	for _, s := range payroll.AllStatuses {
		stats.StatusCounts[s] = 0
	}

	departments := make(map[string]*deptAcc)
	live := 0
	approved := 0

	for _, r := range records {
		if malformed(r) {
			stats.Skipped++
			continue
		}
		stats.TotalRecords++
		stats.StatusCounts[r.Status]++
		if approvedStatuses[r.Status] {
			approved++
		}
		if withdrawnStatuses[r.Status] {
			continue
		}

		live++
		stats.TotalGross = stats.TotalGross.Add(r.GrossEarnings)
		stats.TotalDeductions = stats.TotalDeductions.Add(r.TotalDeductions)
		stats.TotalNetPay = stats.TotalNetPay.Add(r.NetPay)

		key := report.UnassignedDepartment
		if r.DepartmentID != nil && *r.DepartmentID != "" {
			key = *r.DepartmentID
		}
		acc, ok := departments[key]
		if !ok {
			name, known := departmentNames[key]
			if !known {
				name = key
			}
			acc = &deptAcc{
				stat:      report.DepartmentStat{DepartmentID: key, Name: name},
				employees: make(map[string]struct{}),
			}
			departments[key] = acc
		}
		acc.employees[r.EmployeeID] = struct{}{}
		acc.stat.TotalCost = acc.stat.TotalCost.Add(r.BasicSalary).Add(r.TotalAllowances)
		acc.stat.TotalNetPay = acc.stat.TotalNetPay.Add(r.NetPay)
	}

	if live > 0 {
		stats.AverageNetPay = stats.TotalNetPay.Div(decimal.NewFromInt(int64(live))).Round(2)
	}
	stats.PaymentRate = rate(stats.StatusCounts[payroll.StatusPaid], stats.TotalRecords)
	stats.ApprovalRate = rate(approved, stats.TotalRecords)

	stats.Departments = make([]report.DepartmentStat, 0, len(departments))
	for _, acc := range departments {
		acc.stat.EmployeeCount = len(acc.employees)
		stats.Departments = append(stats.Departments, acc.stat)
	}
	sort.Slice(stats.Departments, func(i, j int) bool {
		a, b := stats.Departments[i], stats.Departments[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.DepartmentID < b.DepartmentID
	})

	return stats
}

// rate is part/total as a percentage with two decimals; zero when total is zero.
func rate(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(2)
}

func malformed(r payroll.PayrollRecord) bool {
	if r.ID == "" || r.EmployeeID == "" || !r.Status.IsValid() {
		return true
	}
	for _, amount := range []decimal.Decimal{
		r.BasicSalary, r.TotalAllowances, r.TotalBonuses, r.OvertimeAmount,
		r.GrossEarnings, r.TotalDeductions, r.NetPay,
	} {
		if amount.IsNegative() {
			return true
		}
	}
	return false
}
