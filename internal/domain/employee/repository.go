package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	ExistsByCode(ctx context.Context, employeeCode string) (bool, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) error
	UpdateStatus(ctx context.Context, id string, status EmploymentStatus) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	GetActive(ctx context.Context, departmentID *string) ([]Employee, error)
	// GetAll includes inactive employees; used by department reporting.
	GetAll(ctx context.Context) ([]Employee, error)
}
