package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	EmployeeCode          string           `json:"employee_code"`
	FullName              string           `json:"full_name"`
	Email                 *string          `json:"email,omitempty"`
	DepartmentID          *string          `json:"department_id,omitempty"`
	GradeID               *string          `json:"grade_id,omitempty"`
	HireDate              string           `json:"hire_date"`
	BankName              string           `json:"bank_name"`
	BankAccountHolderName *string          `json:"bank_account_holder_name,omitempty"`
	BankAccountNumber     string           `json:"bank_account_number"`
	NHFNumber             *string          `json:"nhf_number,omitempty"`
	OvertimeHours         *decimal.Decimal `json:"overtime_hours,omitempty"`
	OvertimeRate          *decimal.Decimal `json:"overtime_rate,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "must look like EMP-001"})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email format"})
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "must be YYYY-MM-DD"})
	}
	errs = append(errs, validateBank(r.BankName, r.BankAccountNumber)...)
	errs = append(errs, validateNHF(r.NHFNumber)...)
	errs = append(errs, validateOvertime(r.OvertimeHours, r.OvertimeRate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID                    string           `json:"-"`
	FullName              *string          `json:"full_name,omitempty"`
	Email                 *string          `json:"email,omitempty"`
	DepartmentID          *string          `json:"department_id,omitempty"`
	GradeID               *string          `json:"grade_id,omitempty"`
	BankName              *string          `json:"bank_name,omitempty"`
	BankAccountHolderName *string          `json:"bank_account_holder_name,omitempty"`
	BankAccountNumber     *string          `json:"bank_account_number,omitempty"`
	NHFNumber             *string          `json:"nhf_number,omitempty"`
	OvertimeHours         *decimal.Decimal `json:"overtime_hours,omitempty"`
	OvertimeRate          *decimal.Decimal `json:"overtime_rate,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "must not be empty"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email format"})
	}
	if r.BankAccountNumber != nil && !validator.IsValidAccountNumber(*r.BankAccountNumber) {
		errs = append(errs, validator.ValidationError{Field: "bank_account_number", Message: "must be 10 digits"})
	}
	errs = append(errs, validateNHF(r.NHFNumber)...)
	errs = append(errs, validateOvertime(r.OvertimeHours, r.OvertimeRate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateBank(name, account string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if validator.IsEmpty(name) {
		errs = append(errs, validator.ValidationError{Field: "bank_name", Message: "is required"})
	}
	if !validator.IsValidAccountNumber(account) {
		errs = append(errs, validator.ValidationError{Field: "bank_account_number", Message: "must be 10 digits"})
	}
	return errs
}

func validateNHF(nhf *string) validator.ValidationErrors {
	if nhf == nil || *nhf == "" || validator.IsValidNHFNumber(*nhf) {
		return nil
	}
	return validator.ValidationErrors{{Field: "nhf_number", Message: "must be 6-20 letters or digits"}}
}

func validateOvertime(hours, rate *decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if hours != nil && hours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_hours", Message: "must be non-negative"})
	}
	if rate != nil && rate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_rate", Message: "must be non-negative"})
	}
	return errs
}

type EmployeeFilter struct {
	DepartmentID *string `json:"department_id,omitempty"`
	Status       *string `json:"status,omitempty"`
	Search       *string `json:"search,omitempty"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

func (f *EmployeeFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type EmployeeResponse struct {
	ID                    string          `json:"id"`
	EmployeeCode          string          `json:"employee_code"`
	FullName              string          `json:"full_name"`
	Email                 *string         `json:"email,omitempty"`
	DepartmentID          *string         `json:"department_id,omitempty"`
	DepartmentName        *string         `json:"department_name,omitempty"`
	GradeID               *string         `json:"grade_id,omitempty"`
	GradeLevel            *string         `json:"grade_level,omitempty"`
	HireDate              string          `json:"hire_date"`
	EmploymentStatus      string          `json:"employment_status"`
	BankName              string          `json:"bank_name"`
	BankAccountHolderName *string         `json:"bank_account_holder_name,omitempty"`
	BankAccountNumber     string          `json:"bank_account_number"`
	NHFNumber             *string         `json:"nhf_number,omitempty"`
	OvertimeHours         decimal.Decimal `json:"overtime_hours"`
	OvertimeRate          decimal.Decimal `json:"overtime_rate"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                    e.ID,
		EmployeeCode:          e.EmployeeCode,
		FullName:              e.FullName,
		Email:                 e.Email,
		DepartmentID:          e.DepartmentID,
		DepartmentName:        e.DepartmentName,
		GradeID:               e.GradeID,
		GradeLevel:            e.GradeLevel,
		HireDate:              e.HireDate.Format(time.DateOnly),
		EmploymentStatus:      string(e.EmploymentStatus),
		BankName:              e.BankName,
		BankAccountHolderName: e.BankAccountHolderName,
		BankAccountNumber:     e.BankAccountNumber,
		NHFNumber:             e.NHFNumber,
		OvertimeHours:         e.Overtime.HoursWorked,
		OvertimeRate:          e.Overtime.Rate,
	}
}

type ListEmployeeResponse struct {
	Data       []EmployeeResponse `json:"data"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}
