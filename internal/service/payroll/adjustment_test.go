package payroll

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewBonuses struct {
	payroll.BonusRepository
	rows map[string]payroll.Bonus
}

func (r *reviewBonuses) Create(_ context.Context, b payroll.Bonus) (payroll.Bonus, error) {
	b.ID = newID()
	r.rows[b.ID] = b
	return b, nil
}

func (r *reviewBonuses) Review(_ context.Context, id string, status payroll.ApprovalStatus, reviewerID string) (payroll.Bonus, error) {
	b, ok := r.rows[id]
	if !ok {
		return payroll.Bonus{}, payroll.ErrBonusNotFound
	}
	if b.ApprovalStatus != payroll.ApprovalPending {
		return payroll.Bonus{}, payroll.ErrBonusAlreadyReviewed
	}
	b.ApprovalStatus = status
	b.ReviewedBy = &reviewerID
	r.rows[id] = b
	return b, nil
}

type recordingDeductions struct {
	payroll.DeductionRepository
	created []payroll.EmployeeDeduction
}

func (r *recordingDeductions) Create(_ context.Context, d payroll.EmployeeDeduction) (payroll.EmployeeDeduction, error) {
	d.ID = newID()
	r.created = append(r.created, d)
	return d, nil
}

func TestAdjustmentService_BonusLifecycle(t *testing.T) {
	emp := employee.Employee{ID: newID(), EmploymentStatus: employee.EmploymentStatusActive}
	bonuses := &reviewBonuses{rows: map[string]payroll.Bonus{}}
	svc := NewAdjustmentService(bonuses, &recordingDeductions{}, &memoryEmployees{rows: []employee.Employee{emp}})

	created, err := svc.CreateBonus(context.Background(), payroll.CreateBonusRequest{
		EmployeeID:    emp.ID,
		Type:          "performance",
		Amount:        money("50000"),
		EffectiveDate: "2024-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.ApprovalStatus)
	assert.True(t, created.IsTaxable)

	_, err = svc.ApproveBonus(ctxWith(t, nil, user.PermissionBonusManage), created.ID)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	approved, err := svc.ApproveBonus(ctxWith(t, nil, user.PermissionBonusApprove), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.ApprovalStatus)

	_, err = svc.RejectBonus(ctxWith(t, nil, user.PermissionBonusApprove), created.ID)
	assert.ErrorIs(t, err, payroll.ErrBonusAlreadyReviewed)
}

func TestAdjustmentService_CreateBonus_UnknownEmployee(t *testing.T) {
	svc := NewAdjustmentService(&reviewBonuses{rows: map[string]payroll.Bonus{}}, &recordingDeductions{}, &memoryEmployees{})

	_, err := svc.CreateBonus(context.Background(), payroll.CreateBonusRequest{
		EmployeeID:    newID(),
		Type:          "special",
		Amount:        money("1000"),
		EffectiveDate: "2024-03-01",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAdjustmentService_CreateDeduction_UnknownEmployee(t *testing.T) {
	deductions := &recordingDeductions{}
	svc := NewAdjustmentService(&reviewBonuses{rows: map[string]payroll.Bonus{}}, deductions, &memoryEmployees{})

	_, err := svc.CreateDeduction(context.Background(), payroll.CreateDeductionRequest{
		EmployeeID:  newID(),
		Kind:        "loan",
		Description: "Car loan",
		Amount:      money("10000"),
		StartMonth:  1,
		StartYear:   2024,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Empty(t, deductions.created)
}
