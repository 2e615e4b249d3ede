package report

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
)

type ReportServiceImpl struct {
	reportRepo     report.ReportRepository
	departmentRepo department.DepartmentRepository
	payrollRepo    payroll.PayrollRepository
}

func NewReportService(reportRepo report.ReportRepository, departmentRepo department.DepartmentRepository, payrollRepo payroll.PayrollRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo:     reportRepo,
		departmentRepo: departmentRepo,
		payrollRepo:    payrollRepo,
	}
}

func requireReportsView(ctx context.Context) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return user.ErrInsufficientPermissions
	}
	if !user.NewPermissionSet(claims.Permissions...).Has(user.PermissionReportsView) {
		return user.ErrInsufficientPermissions
	}
	return nil
}

// PeriodStatistics aggregates one month, optionally narrowed to a department.
func (s *ReportServiceImpl) PeriodStatistics(ctx context.Context, req report.StatisticsRequest) (report.StatisticsResponse, error) {
	if err := requireReportsView(ctx); err != nil {
		return report.StatisticsResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return report.StatisticsResponse{}, err
	}

	stats, err := s.aggregate(ctx, req.Scope())
	if err != nil {
		return report.StatisticsResponse{}, err
	}

	resp := report.ToStatisticsResponse(stats)
	resp.Period = payroll.Period{Month: req.Month, Year: req.Year}.String()
	return resp, nil
}

func (s *ReportServiceImpl) DepartmentBreakdown(ctx context.Context, req report.StatisticsRequest) ([]report.DepartmentStatResponse, error) {
	if err := requireReportsView(ctx); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	stats, err := s.aggregate(ctx, req.Scope())
	if err != nil {
		return nil, err
	}
	return report.ToDepartmentResponses(stats.Departments), nil
}

// OrganizationSummary aggregates a whole year and lists its cached periods.
func (s *ReportServiceImpl) OrganizationSummary(ctx context.Context, req report.SummaryRequest) (report.SummaryResponse, error) {
	if err := requireReportsView(ctx); err != nil {
		return report.SummaryResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return report.SummaryResponse{}, err
	}

	stats, err := s.aggregate(ctx, report.Scope{Year: req.Year})
	if err != nil {
		return report.SummaryResponse{}, err
	}

	periods, err := s.payrollRepo.ListPeriods(ctx)
	if err != nil {
		return report.SummaryResponse{}, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	yearPeriods := []payroll.PayrollPeriodResponse{}
	for _, p := range periods {
		if p.Year == req.Year {
			yearPeriods = append(yearPeriods, payroll.ToPeriodResponse(p))
		}
	}

	return report.SummaryResponse{
		Year:       req.Year,
		Statistics: report.ToStatisticsResponse(stats),
		Periods:    yearPeriods,
	}, nil
}

func (s *ReportServiceImpl) aggregate(ctx context.Context, scope report.Scope) (report.Statistics, error) {
	records, err := s.reportRepo.ListRecords(ctx, scope)
	if err != nil {
		return report.Statistics{}, fmt.Errorf("failed to load payroll records: %w", err)
	}

	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return report.Statistics{}, fmt.Errorf("failed to list departments: %w", err)
	}
	names := make(map[string]string, len(departments)+1)
	for _, d := range departments {
		names[d.ID] = d.Name
	}
	names[report.UnassignedDepartment] = "Unassigned"

	return Aggregate(records, names), nil
}
