package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	departmentRepo department.DepartmentRepository
	gradeRepo      payroll.GradeRepository
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	departmentRepo department.DepartmentRepository,
	gradeRepo payroll.GradeRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		gradeRepo:      gradeRepo,
	}
}

// checkReferences verifies that department and grade ids point at rows.
func (s *EmployeeServiceImpl) checkReferences(ctx context.Context, departmentID, gradeID *string) error {
	var errs validator.ValidationErrors
	if departmentID != nil && *departmentID != "" {
		if _, err := s.departmentRepo.GetByID(ctx, *departmentID); err != nil {
			if !errors.Is(err, department.ErrDepartmentNotFound) {
				return err
			}
			errs = append(errs, validator.ValidationError{Field: "department_id", Message: "department does not exist"})
		}
	}
	if gradeID != nil && *gradeID != "" {
		if _, err := s.gradeRepo.GetByID(ctx, *gradeID); err != nil {
			if !errors.Is(err, payroll.ErrSalaryGradeNotFound) {
				return err
			}
			errs = append(errs, validator.ValidationError{Field: "grade_id", Message: "salary grade does not exist"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.checkReferences(ctx, req.DepartmentID, req.GradeID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.EmployeeCode))
	exists, err := s.employeeRepo.ExistsByCode(ctx, code)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee code: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmployeeCodeExists
	}

	hireDate, _ := validator.IsValidDate(req.HireDate)
	newEmployee := employee.Employee{
		EmployeeCode:          code,
		FullName:              strings.TrimSpace(req.FullName),
		Email:                 req.Email,
		DepartmentID:          req.DepartmentID,
		GradeID:               req.GradeID,
		HireDate:              hireDate,
		EmploymentStatus:      employee.EmploymentStatusActive,
		BankName:              req.BankName,
		BankAccountHolderName: req.BankAccountHolderName,
		BankAccountNumber:     req.BankAccountNumber,
		NHFNumber:             req.NHFNumber,
		Overtime: employee.Overtime{
			HoursWorked: valueOrZero(req.OvertimeHours),
			Rate:        valueOrZero(req.OvertimeRate),
		},
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	// Reload to pick up the joined department and grade labels.
	full, err := s.employeeRepo.GetByID(ctx, created.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(full), nil
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	filter.Normalize()
	if filter.Status != nil && !employee.EmploymentStatus(*filter.Status).IsValid() {
		return employee.ListEmployeeResponse{}, validator.ValidationErrors{
			{Field: "status", Message: "must be one of active, inactive, terminated"},
		}
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	data := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		data = append(data, employee.ToResponse(e))
	}
	return employee.ListEmployeeResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.checkReferences(ctx, req.DepartmentID, req.GradeID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.employeeRepo.Update(ctx, req.ID, req); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

// Deactivate implements employee.EmployeeService. Employees are never
// deleted so their payroll history stays intact.
func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, id string) error {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !emp.IsActive() {
		return employee.ErrEmployeeAlreadyInactive
	}
	if err := s.employeeRepo.UpdateStatus(ctx, id, employee.EmploymentStatusInactive); err != nil {
		return err
	}
	slog.Info("employee deactivated", "employee_id", id, "employee_code", emp.EmployeeCode)
	return nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
