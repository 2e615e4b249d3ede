package payroll

import (
	"context"
	"time"
)

type ComponentRepository interface {
	Create(ctx context.Context, component PayrollComponent) (PayrollComponent, error)
	GetByID(ctx context.Context, id string) (PayrollComponent, error)
	// GetByIDs returns components in the order of ids; a missing id is ErrPayrollComponentNotFound.
	GetByIDs(ctx context.Context, ids []string) ([]PayrollComponent, error)
	List(ctx context.Context, activeOnly bool) ([]PayrollComponent, error)
	Update(ctx context.Context, component PayrollComponent) (PayrollComponent, error)
	SetActive(ctx context.Context, id string, active bool) (PayrollComponent, error)
	IsReferenced(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type GradeRepository interface {
	Create(ctx context.Context, grade SalaryGrade) (SalaryGrade, error)
	// GetByID loads the grade with its components in position order.
	GetByID(ctx context.Context, id string) (SalaryGrade, error)
	List(ctx context.Context) ([]SalaryGrade, error)
	Update(ctx context.Context, grade SalaryGrade) error
	ReplaceComponents(ctx context.Context, gradeID string, componentIDs []string) error
}

type BonusRepository interface {
	Create(ctx context.Context, bonus Bonus) (Bonus, error)
	GetByID(ctx context.Context, id string) (Bonus, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Bonus, error)
	// ListApproved returns approved bonuses of the employee that may fall in p.
	ListApproved(ctx context.Context, employeeID string, p Period) ([]Bonus, error)
	// Review moves a pending bonus to status; ErrBonusAlreadyReviewed otherwise.
	Review(ctx context.Context, id string, status ApprovalStatus, reviewerID string) (Bonus, error)
}

type DeductionRepository interface {
	Create(ctx context.Context, deduction EmployeeDeduction) (EmployeeDeduction, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]EmployeeDeduction, error)
	ListActive(ctx context.Context, employeeID string) ([]EmployeeDeduction, error)
	Deactivate(ctx context.Context, id string) error
}

// PayrollRepository defines data access methods for payroll records,
// their approval history and the cached period totals.
type PayrollRepository interface {
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	ExistsForPeriod(ctx context.Context, employeeID string, p Period, frequency Frequency) (bool, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)
	ListByPeriod(ctx context.Context, p Period) ([]PayrollRecord, error)
	ListByEmployee(ctx context.Context, employeeID string, statuses []PayrollStatus) ([]PayrollRecord, error)
	// UpdateAmounts overwrites lines and totals of a DRAFT record.
	UpdateAmounts(ctx context.Context, record PayrollRecord) error
	// UpdateStatus is a compare-and-set on the current status.
	UpdateStatus(ctx context.Context, id string, from, to PayrollStatus, paymentDate *time.Time, paidBy *string) error

	AddHistory(ctx context.Context, entry ApprovalEntry) error
	ListHistory(ctx context.Context, payrollID string) ([]ApprovalEntry, error)

	RefreshPeriod(ctx context.Context, p Period) (PayrollPeriod, error)
	RefreshAllPeriods(ctx context.Context) (int64, error)
	ListPeriods(ctx context.Context) ([]PayrollPeriod, error)
}
