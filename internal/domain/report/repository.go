package report

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
)

// ReportRepository reads payroll records for reporting.
type ReportRepository interface {
	ListRecords(ctx context.Context, scope Scope) ([]payroll.PayrollRecord, error)
}
