package payroll

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

type AdjustmentServiceImpl struct {
	bonusRepo     payroll.BonusRepository
	deductionRepo payroll.DeductionRepository
	employeeRepo  employee.EmployeeRepository
}

func NewAdjustmentService(bonusRepo payroll.BonusRepository, deductionRepo payroll.DeductionRepository, employeeRepo employee.EmployeeRepository) payroll.AdjustmentService {
	return &AdjustmentServiceImpl{
		bonusRepo:     bonusRepo,
		deductionRepo: deductionRepo,
		employeeRepo:  employeeRepo,
	}
}

// ========== BONUSES ==========

func (s *AdjustmentServiceImpl) CreateBonus(ctx context.Context, req payroll.CreateBonusRequest) (payroll.BonusResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BonusResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.BonusResponse{}, err
	}

	created, err := s.bonusRepo.Create(ctx, req.ToBonus())
	if err != nil {
		return payroll.BonusResponse{}, err
	}
	return payroll.ToBonusResponse(created), nil
}

func (s *AdjustmentServiceImpl) ListBonuses(ctx context.Context, employeeID string) ([]payroll.BonusResponse, error) {
	bonuses, err := s.bonusRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]payroll.BonusResponse, 0, len(bonuses))
	for _, b := range bonuses {
		resp = append(resp, payroll.ToBonusResponse(b))
	}
	return resp, nil
}

func (s *AdjustmentServiceImpl) ApproveBonus(ctx context.Context, id string) (payroll.BonusResponse, error) {
	return s.review(ctx, id, payroll.ApprovalApproved)
}

func (s *AdjustmentServiceImpl) RejectBonus(ctx context.Context, id string) (payroll.BonusResponse, error) {
	return s.review(ctx, id, payroll.ApprovalRejected)
}

func (s *AdjustmentServiceImpl) review(ctx context.Context, id string, status payroll.ApprovalStatus) (payroll.BonusResponse, error) {
	claims, err := requirePermission(ctx, user.PermissionBonusApprove)
	if err != nil {
		return payroll.BonusResponse{}, err
	}

	reviewed, err := s.bonusRepo.Review(ctx, id, status, claims.UserID)
	if err != nil {
		return payroll.BonusResponse{}, err
	}

	slog.Info("bonus reviewed", "bonus_id", id, "status", status, "reviewer", claims.UserID)
	return payroll.ToBonusResponse(reviewed), nil
}

// ========== EMPLOYEE DEDUCTIONS ==========

func (s *AdjustmentServiceImpl) CreateDeduction(ctx context.Context, req payroll.CreateDeductionRequest) (payroll.DeductionResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.DeductionResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.DeductionResponse{}, err
	}

	created, err := s.deductionRepo.Create(ctx, req.ToDeduction())
	if err != nil {
		return payroll.DeductionResponse{}, err
	}
	return payroll.ToDeductionResponse(created), nil
}

func (s *AdjustmentServiceImpl) ListDeductions(ctx context.Context, employeeID string) ([]payroll.DeductionResponse, error) {
	deductions, err := s.deductionRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]payroll.DeductionResponse, 0, len(deductions))
	for _, d := range deductions {
		resp = append(resp, payroll.ToDeductionResponse(d))
	}
	return resp, nil
}

func (s *AdjustmentServiceImpl) DeactivateDeduction(ctx context.Context, id string) error {
	return s.deductionRepo.Deactivate(ctx, id)
}
