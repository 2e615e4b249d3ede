package report

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// UnassignedDepartment keys records whose employee has no department.
const UnassignedDepartment = "unassigned"

// Scope selects the payroll records a report covers.
type Scope struct {
	Year         int
	Month        *int
	DepartmentID *string
}

// Statistics summarises a set of payroll records.
type Statistics struct {
	TotalRecords    int
	Skipped         int
	StatusCounts    map[payroll.PayrollStatus]int
	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNetPay     decimal.Decimal
	AverageNetPay   decimal.Decimal
	PaymentRate     decimal.Decimal
	ApprovalRate    decimal.Decimal
	Departments     []DepartmentStat
}

// DepartmentStat is one row of the department breakdown. Cost is basic
// salary plus allowances.
type DepartmentStat struct {
	DepartmentID  string
	Name          string
	EmployeeCount int
	TotalCost     decimal.Decimal
	TotalNetPay   decimal.Decimal
}
