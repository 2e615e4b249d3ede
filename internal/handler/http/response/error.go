package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountInactive), errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "Account is inactive")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrInvalidRole), errors.Is(err, user.ErrUnknownPermission):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrSuperAdminRequired), errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrInvalidEmployeeCode):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, "Employee is already inactive")
	case errors.Is(err, employee.ErrEmployeeLinkRequired):
		Forbidden(w, err.Error())

	// Department errors
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentCodeExists):
		Conflict(w, "Department code already exists")
	case errors.Is(err, department.ErrDepartmentInUse):
		Conflict(w, "Department still has employees")

	// Payroll structure and adjustments
	case errors.Is(err, payroll.ErrPayrollComponentNotFound):
		NotFound(w, "Payroll component not found")
	case errors.Is(err, payroll.ErrPayrollComponentNameExists):
		Conflict(w, "Payroll component name already exists")
	case errors.Is(err, payroll.ErrComponentInUse):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrSalaryGradeNotFound):
		NotFound(w, "Salary grade not found")
	case errors.Is(err, payroll.ErrSalaryGradeLevelExists):
		Conflict(w, "Salary grade level already exists")
	case errors.Is(err, payroll.ErrBonusNotFound):
		NotFound(w, "Bonus not found")
	case errors.Is(err, payroll.ErrBonusAlreadyReviewed):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrDeductionNotFound):
		NotFound(w, "Employee deduction not found")

	// Payroll records
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrPayrollRecordNotEditable),
		errors.Is(err, payroll.ErrInvalidStatusTransition):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrInvalidAction),
		errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Computation errors
	case errors.Is(err, payroll.ErrGradeRequired),
		errors.Is(err, payroll.ErrInvalidBasicSalary),
		errors.Is(err, payroll.ErrInvalidComponent),
		errors.Is(err, payroll.ErrInvalidAmount),
		errors.Is(err, payroll.ErrNegativeNetPay),
		errors.Is(err, payroll.ErrEmployeeNotEligible):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, payroll.ErrInvalidTaxBrackets),
		errors.Is(err, payroll.ErrInvalidRate):
		InternalServerError(w, "Payroll rules are misconfigured")

	// Report errors
	case errors.Is(err, report.ErrInvalidMonth), errors.Is(err, report.ErrInvalidYear):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
