package master

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/master/department"
)

type MasterService interface {
	// Department operations
	CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	GetDepartment(ctx context.Context, id string) (department.DepartmentResponse, error)
	ListDepartments(ctx context.Context) ([]department.DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, id string) error
}

type masterServiceImpl struct {
	departmentRepo department.DepartmentRepository
}

func NewMasterService(departmentRepo department.DepartmentRepository) MasterService {
	return &masterServiceImpl{departmentRepo: departmentRepo}
}

// ==================== DEPARTMENT OPERATIONS ====================

func (s *masterServiceImpl) CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	created, err := s.departmentRepo.Create(ctx, department.Department{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, department.ErrDepartmentCodeExists) {
			return department.DepartmentResponse{}, err
		}
		return department.DepartmentResponse{}, fmt.Errorf("failed to create department: %w", err)
	}

	return department.ToResponse(created), nil
}

func (s *masterServiceImpl) GetDepartment(ctx context.Context, id string) (department.DepartmentResponse, error) {
	d, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.ToResponse(d), nil
}

func (s *masterServiceImpl) ListDepartments(ctx context.Context) ([]department.DepartmentResponse, error) {
	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, department.ToResponse(d))
	}
	return responses, nil
}

func (s *masterServiceImpl) UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	updated, err := s.departmentRepo.Update(ctx, req)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.ToResponse(updated), nil
}

func (s *masterServiceImpl) DeleteDepartment(ctx context.Context, id string) error {
	return s.departmentRepo.Delete(ctx, id)
}
