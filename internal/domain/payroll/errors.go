package payroll

import "errors"

var (
	ErrPayrollComponentNotFound   = errors.New("payroll component not found")
	ErrPayrollComponentNameExists = errors.New("payroll component name already exists")
	ErrComponentInUse             = errors.New("payroll component is referenced by a salary grade")
	ErrSalaryGradeNotFound        = errors.New("salary grade not found")
	ErrSalaryGradeLevelExists     = errors.New("salary grade level already exists")
	ErrBonusNotFound              = errors.New("bonus not found")
	ErrBonusAlreadyReviewed       = errors.New("bonus already approved or rejected")
	ErrDeductionNotFound          = errors.New("employee deduction not found")
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollRecordNotEditable   = errors.New("payroll record is no longer a draft")
	ErrInvalidStatusTransition    = errors.New("invalid payroll status transition")
	ErrInvalidAction              = errors.New("invalid payroll action")
	ErrInvalidPeriod              = errors.New("invalid payroll period")
	ErrPayslipNotFound            = errors.New("payslip not found")

	// Computation failures
	ErrGradeRequired       = errors.New("employee has no salary grade")
	ErrInvalidBasicSalary  = errors.New("salary grade has no valid basic salary")
	ErrInvalidComponent    = errors.New("component has an invalid method or value")
	ErrInvalidTaxBrackets  = errors.New("tax bracket table is invalid")
	ErrInvalidRate         = errors.New("statutory rate is invalid")
	ErrInvalidAmount       = errors.New("amount must be non-negative")
	ErrNegativeNetPay      = errors.New("total deductions exceed gross earnings")
	ErrEmployeeNotEligible = errors.New("employee is not active")
)
