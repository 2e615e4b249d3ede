package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType enum
type ComponentType string

const (
	ComponentTypeAllowance ComponentType = "allowance"
	ComponentTypeDeduction ComponentType = "deduction"
)

type CalculationMethod string

const (
	CalculationFixed      CalculationMethod = "fixed"
	CalculationPercentage CalculationMethod = "percentage"
)

// PayrollComponent - Master allowance/deduction definition
type PayrollComponent struct {
	ID            string
	Name          string
	Type          ComponentType
	Method        CalculationMethod
	Value         decimal.Decimal
	Description   *string
	IsTaxable     bool
	IsPensionable bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SalaryGrade - Basic salary plus its ordered components
type SalaryGrade struct {
	ID          string
	Level       string
	BasicSalary decimal.Decimal
	Description *string
	Components  []PayrollComponent
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BonusType string

const (
	BonusTypePerformance     BonusType = "performance"
	BonusTypeThirteenthMonth BonusType = "thirteenth_month"
	BonusTypeSpecial         BonusType = "special"
	BonusTypeOther           BonusType = "other"
)

func (t BonusType) IsValid() bool {
	switch t {
	case BonusTypePerformance, BonusTypeThirteenthMonth, BonusTypeSpecial, BonusTypeOther:
		return true
	}
	return false
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type Bonus struct {
	ID             string
	EmployeeID     string
	Type           BonusType
	Amount         decimal.Decimal
	PaymentDate    *time.Time
	EffectiveDate  time.Time
	ExpiryDate     *time.Time
	ApprovalStatus ApprovalStatus
	IsTaxable      bool
	Description    *string
	ReviewedBy     *string
	ReviewedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PayableIn reports whether the bonus is approved and dated inside p.
// The payment date wins over the effective date when both are set.
func (b Bonus) PayableIn(p Period) bool {
	if b.ApprovalStatus != ApprovalApproved {
		return false
	}
	date := b.EffectiveDate
	if b.PaymentDate != nil {
		date = *b.PaymentDate
	}
	if !p.Contains(date) {
		return false
	}
	if b.ExpiryDate != nil && PeriodOf(*b.ExpiryDate).Before(p) {
		return false
	}
	return true
}

type DeductionKind string

const (
	DeductionKindLoan      DeductionKind = "loan"
	DeductionKindUnionDues DeductionKind = "union_dues"
	DeductionKindOther     DeductionKind = "other"
)

func (k DeductionKind) IsValid() bool {
	switch k {
	case DeductionKindLoan, DeductionKindUnionDues, DeductionKindOther:
		return true
	}
	return false
}

// EmployeeDeduction - recurring per-employee deduction (loan repayment, dues)
type EmployeeDeduction struct {
	ID          string
	EmployeeID  string
	Kind        DeductionKind
	Description string
	Amount      decimal.Decimal
	StartPeriod Period
	EndPeriod   *Period
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AppliesTo reports whether the deduction is charged in p.
func (d EmployeeDeduction) AppliesTo(p Period) bool {
	if !d.IsActive {
		return false
	}
	if p.Before(d.StartPeriod) {
		return false
	}
	if d.EndPeriod != nil && d.EndPeriod.Before(p) {
		return false
	}
	return true
}

type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
)

// Period is a calendar month.
type Period struct {
	Month int
	Year  int
}

func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End is exclusive.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// PeriodOf is the period holding the calendar date of t.
func PeriodOf(t time.Time) Period {
	y, m, _ := t.Date()
	return Period{Month: int(m), Year: y}
}

// Contains compares on the calendar date of t in its own location.
func (p Period) Contains(t time.Time) bool {
	return PeriodOf(t) == p
}

func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

type LineKind string

const (
	LineAllowance LineKind = "allowance"
	LineBonus     LineKind = "bonus"
	LineOvertime  LineKind = "overtime"
	LineTax       LineKind = "tax"
	LinePension   LineKind = "pension"
	LineNHF       LineKind = "nhf"
	LineLoan      LineKind = "loan"
	LineOther     LineKind = "other"
)

// Line is one computed amount on a payroll record.
type Line struct {
	Name    string          `json:"name"`
	Kind    LineKind        `json:"kind"`
	Amount  decimal.Decimal `json:"amount"`
	Taxable bool            `json:"taxable,omitempty"`
}

type Totals struct {
	BasicSalary        decimal.Decimal
	TotalAllowances    decimal.Decimal
	TotalBonuses       decimal.Decimal
	OvertimeAmount     decimal.Decimal
	GrossEarnings      decimal.Decimal
	ConsolidatedRelief decimal.Decimal
	TaxableIncome      decimal.Decimal
	Tax                decimal.Decimal
	Pension            decimal.Decimal
	NHF                decimal.Decimal
	TotalLoans         decimal.Decimal
	OtherDeductions    decimal.Decimal
	TotalDeductions    decimal.Decimal
	NetPay             decimal.Decimal
}

// PayrollRecord - one employee, one period, one frequency
type PayrollRecord struct {
	ID           string
	EmployeeID   string
	DepartmentID *string
	GradeID      string
	Period       Period
	Frequency    Frequency
	Allowances   []Line
	Bonuses      []Line
	Deductions   []Line
	Totals
	Status      PayrollStatus
	PaymentDate *time.Time
	PaidBy      *string
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
	History      []ApprovalEntry
}

// Reconciles checks the totals identities exactly.
func (r PayrollRecord) Reconciles() bool {
	t := r.Totals
	gross := t.BasicSalary.Add(t.TotalAllowances).Add(t.TotalBonuses).Add(t.OvertimeAmount)
	return gross.Equal(t.GrossEarnings) && t.GrossEarnings.Sub(t.TotalDeductions).Equal(t.NetPay)
}

// ApprovalEntry - audit trail of status changes
type ApprovalEntry struct {
	ID         string
	PayrollID  string
	Level      int
	Action     Action
	FromStatus PayrollStatus
	ToStatus   PayrollStatus
	UserID     string
	Remarks    *string
	CreatedAt  time.Time
}

// PayrollPeriod caches per-period totals for dashboards.
type PayrollPeriod struct {
	Period
	EmployeeCount  int
	TotalNetSalary decimal.Decimal
	UpdatedAt      time.Time
}
