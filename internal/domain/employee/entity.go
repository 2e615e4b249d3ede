package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                    string
	EmployeeCode          string
	FullName              string
	Email                 *string
	DepartmentID          *string
	GradeID               *string
	HireDate              time.Time
	EmploymentStatus      EmploymentStatus
	BankName              string
	BankAccountHolderName *string
	BankAccountNumber     string
	NHFNumber             *string
	Overtime              Overtime
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Joined fields
	DepartmentName *string
	GradeLevel     *string
}

// Overtime is the record for the current period.
type Overtime struct {
	HoursWorked decimal.Decimal
	Rate        decimal.Decimal
}

// Amount is hours worked times rate.
func (o Overtime) Amount() decimal.Decimal {
	return o.HoursWorked.Mul(o.Rate)
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusInactive   EmploymentStatus = "inactive"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (s EmploymentStatus) IsValid() bool {
	switch s {
	case EmploymentStatusActive, EmploymentStatusInactive, EmploymentStatusTerminated:
		return true
	}
	return false
}

func (e *Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}

// HasNHF reports whether an NHF number is on file.
func (e *Employee) HasNHF() bool {
	return e.NHFNumber != nil && *e.NHFNumber != ""
}
