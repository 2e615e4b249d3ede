package report

import "context"

// ReportService defines the interface for payroll reporting
type ReportService interface {
	PeriodStatistics(ctx context.Context, req StatisticsRequest) (StatisticsResponse, error)
	DepartmentBreakdown(ctx context.Context, req StatisticsRequest) ([]DepartmentStatResponse, error)
	OrganizationSummary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)
}
