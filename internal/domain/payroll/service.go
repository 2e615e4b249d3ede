package payroll

import "context"

// StructureService manages components and salary grades.
type StructureService interface {
	CreateComponent(ctx context.Context, req CreateComponentRequest) (ComponentResponse, error)
	ListComponents(ctx context.Context, activeOnly bool) ([]ComponentResponse, error)
	UpdateComponent(ctx context.Context, req UpdateComponentRequest) (ComponentResponse, error)
	SetComponentActive(ctx context.Context, req SetComponentActiveRequest) (ComponentResponse, error)
	DeleteComponent(ctx context.Context, id string) error

	CreateGrade(ctx context.Context, req CreateGradeRequest) (GradeResponse, error)
	GetGrade(ctx context.Context, id string) (GradeResponse, error)
	ListGrades(ctx context.Context) ([]GradeResponse, error)
	UpdateGrade(ctx context.Context, req UpdateGradeRequest) (GradeResponse, error)
}

// AdjustmentService manages bonuses and per-employee deductions.
type AdjustmentService interface {
	CreateBonus(ctx context.Context, req CreateBonusRequest) (BonusResponse, error)
	ListBonuses(ctx context.Context, employeeID string) ([]BonusResponse, error)
	ApproveBonus(ctx context.Context, id string) (BonusResponse, error)
	RejectBonus(ctx context.Context, id string) (BonusResponse, error)

	CreateDeduction(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error)
	ListDeductions(ctx context.Context, employeeID string) ([]DeductionResponse, error)
	DeactivateDeduction(ctx context.Context, id string) error
}

type PayrollService interface {
	RunPayroll(ctx context.Context, req RunPayrollRequest) (RunPayrollResult, error)
	GetRecord(ctx context.Context, id string) (PayrollRecordResponse, error)
	ListRecords(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
	Recompute(ctx context.Context, id string) (PayrollRecordResponse, error)
	Transition(ctx context.Context, req TransitionRequest) (PayrollRecordResponse, error)
	MarkAsPaid(ctx context.Context, req MarkAsPaidRequest) (BatchResult, error)
	GetHistory(ctx context.Context, id string) ([]ApprovalEntryResponse, error)

	ListMyPayslips(ctx context.Context) ([]PayslipResponse, error)
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	// RenderPayslipPDF returns the PDF bytes and a download file name.
	RenderPayslipPDF(ctx context.Context, id string) ([]byte, string, error)

	ListPeriods(ctx context.Context) ([]PayrollPeriodResponse, error)
	RefreshPeriods(ctx context.Context) (int64, error)
}
