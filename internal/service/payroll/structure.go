package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
)

type StructureServiceImpl struct {
	db            *database.DB
	componentRepo payroll.ComponentRepository
	gradeRepo     payroll.GradeRepository
}

func NewStructureService(db *database.DB, componentRepo payroll.ComponentRepository, gradeRepo payroll.GradeRepository) payroll.StructureService {
	return &StructureServiceImpl{
		db:            db,
		componentRepo: componentRepo,
		gradeRepo:     gradeRepo,
	}
}

// ========== COMPONENTS ==========

func (s *StructureServiceImpl) CreateComponent(ctx context.Context, req payroll.CreateComponentRequest) (payroll.ComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ComponentResponse{}, err
	}

	component := payroll.PayrollComponent{
		Name:          strings.TrimSpace(req.Name),
		Type:          payroll.ComponentType(req.Type),
		Method:        payroll.CalculationMethod(req.Method),
		Value:         req.Value,
		Description:   req.Description,
		IsTaxable:     req.Type == string(payroll.ComponentTypeAllowance),
		IsPensionable: false,
		IsActive:      true,
	}
	if req.IsTaxable != nil {
		component.IsTaxable = *req.IsTaxable
	}
	if req.IsPensionable != nil {
		component.IsPensionable = *req.IsPensionable
	}

	created, err := s.componentRepo.Create(ctx, component)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}
	return payroll.ToComponentResponse(created), nil
}

func (s *StructureServiceImpl) ListComponents(ctx context.Context, activeOnly bool) ([]payroll.ComponentResponse, error) {
	components, err := s.componentRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]payroll.ComponentResponse, 0, len(components))
	for _, c := range components {
		resp = append(resp, payroll.ToComponentResponse(c))
	}
	return resp, nil
}

func (s *StructureServiceImpl) UpdateComponent(ctx context.Context, req payroll.UpdateComponentRequest) (payroll.ComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ComponentResponse{}, err
	}

	existing, err := s.componentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}
	merged, err := req.Apply(existing)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}

	updated, err := s.componentRepo.Update(ctx, merged)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}
	return payroll.ToComponentResponse(updated), nil
}

// SetComponentActive toggles a component. Inactive components stay on
// their grades but are ignored by the calculator.
func (s *StructureServiceImpl) SetComponentActive(ctx context.Context, req payroll.SetComponentActiveRequest) (payroll.ComponentResponse, error) {
	updated, err := s.componentRepo.SetActive(ctx, req.ID, req.IsActive)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}
	return payroll.ToComponentResponse(updated), nil
}

func (s *StructureServiceImpl) DeleteComponent(ctx context.Context, id string) error {
	if _, err := s.componentRepo.GetByID(ctx, id); err != nil {
		return err
	}
	referenced, err := s.componentRepo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return payroll.ErrComponentInUse
	}
	return s.componentRepo.Delete(ctx, id)
}

// ========== SALARY GRADES ==========

func (s *StructureServiceImpl) CreateGrade(ctx context.Context, req payroll.CreateGradeRequest) (payroll.GradeResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GradeResponse{}, err
	}

	components, err := s.componentRepo.GetByIDs(ctx, req.ComponentIDs)
	if err != nil {
		return payroll.GradeResponse{}, err
	}

	var created payroll.SalaryGrade
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		created, err = s.gradeRepo.Create(txCtx, payroll.SalaryGrade{
			Level:       strings.TrimSpace(req.Level),
			BasicSalary: req.BasicSalary,
			Description: req.Description,
			Components:  components,
		})
		return err
	})
	if err != nil {
		return payroll.GradeResponse{}, err
	}

	slog.Info("salary grade created", "grade_id", created.ID, "level", created.Level, "components", len(components))
	return s.GetGrade(ctx, created.ID)
}

func (s *StructureServiceImpl) GetGrade(ctx context.Context, id string) (payroll.GradeResponse, error) {
	grade, err := s.gradeRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.GradeResponse{}, err
	}
	return payroll.ToGradeResponse(grade), nil
}

func (s *StructureServiceImpl) ListGrades(ctx context.Context) ([]payroll.GradeResponse, error) {
	grades, err := s.gradeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]payroll.GradeResponse, 0, len(grades))
	for _, g := range grades {
		resp = append(resp, payroll.ToGradeResponse(g))
	}
	return resp, nil
}

func (s *StructureServiceImpl) UpdateGrade(ctx context.Context, req payroll.UpdateGradeRequest) (payroll.GradeResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GradeResponse{}, err
	}

	grade, err := s.gradeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.GradeResponse{}, err
	}
	if req.Level != nil {
		grade.Level = strings.TrimSpace(*req.Level)
	}
	if req.BasicSalary != nil {
		grade.BasicSalary = *req.BasicSalary
	}
	if req.Description != nil {
		grade.Description = req.Description
	}

	if req.ComponentIDs != nil {
		if _, err := s.componentRepo.GetByIDs(ctx, req.ComponentIDs); err != nil {
			return payroll.GradeResponse{}, err
		}
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.gradeRepo.Update(txCtx, grade); err != nil {
			return err
		}
		if req.ComponentIDs != nil {
			if err := s.gradeRepo.ReplaceComponents(txCtx, grade.ID, req.ComponentIDs); err != nil {
				return fmt.Errorf("failed to replace grade components: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.GradeResponse{}, err
	}

	return s.GetGrade(ctx, grade.ID)
}
