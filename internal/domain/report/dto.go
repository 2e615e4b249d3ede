package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type StatisticsRequest struct {
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	DepartmentID *string `json:"department_id,omitempty"`
}

func (r *StatisticsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	errs = append(errs, validateYear(r.Year)...)
	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department_id",
			Message: "department_id must be a valid id",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *StatisticsRequest) Scope() Scope {
	month := r.Month
	return Scope{Year: r.Year, Month: &month, DepartmentID: r.DepartmentID}
}

type SummaryRequest struct {
	Year int `json:"year"`
}

func (r *SummaryRequest) Validate() error {
	if errs := validateYear(r.Year); len(errs) > 0 {
		return errs
	}
	return nil
}

func validateYear(year int) validator.ValidationErrors {
	currentYear := time.Now().Year()
	if year < 2000 || year > currentYear+1 {
		return validator.ValidationErrors{{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2000 and %d", currentYear+1),
		}}
	}
	return nil
}

type DepartmentStatResponse struct {
	DepartmentID  string          `json:"department_id"`
	Name          string          `json:"name"`
	EmployeeCount int             `json:"employee_count"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalNetPay   decimal.Decimal `json:"total_net_pay"`
}

type StatisticsResponse struct {
	Period          string                   `json:"period,omitempty"`
	TotalRecords    int                      `json:"total_records"`
	Skipped         int                      `json:"skipped"`
	StatusCounts    map[string]int           `json:"status_counts"`
	TotalGross      decimal.Decimal          `json:"total_gross"`
	TotalDeductions decimal.Decimal          `json:"total_deductions"`
	TotalNetPay     decimal.Decimal          `json:"total_net_pay"`
	AverageNetPay   decimal.Decimal          `json:"average_net_pay"`
	PaymentRate     decimal.Decimal          `json:"payment_rate"`
	ApprovalRate    decimal.Decimal          `json:"approval_rate"`
	Departments     []DepartmentStatResponse `json:"departments"`
}

func ToStatisticsResponse(s Statistics) StatisticsResponse {
	counts := make(map[string]int, len(s.StatusCounts))
	for status, n := range s.StatusCounts {
		counts[string(status)] = n
	}
	return StatisticsResponse{
		TotalRecords:    s.TotalRecords,
		Skipped:         s.Skipped,
		StatusCounts:    counts,
		TotalGross:      s.TotalGross,
		TotalDeductions: s.TotalDeductions,
		TotalNetPay:     s.TotalNetPay,
		AverageNetPay:   s.AverageNetPay,
		PaymentRate:     s.PaymentRate,
		ApprovalRate:    s.ApprovalRate,
		Departments:     ToDepartmentResponses(s.Departments),
	}
}

func ToDepartmentResponses(stats []DepartmentStat) []DepartmentStatResponse {
	out := make([]DepartmentStatResponse, 0, len(stats))
	for _, d := range stats {
		out = append(out, DepartmentStatResponse{
			DepartmentID:  d.DepartmentID,
			Name:          d.Name,
			EmployeeCount: d.EmployeeCount,
			TotalCost:     d.TotalCost,
			TotalNetPay:   d.TotalNetPay,
		})
	}
	return out
}

type SummaryResponse struct {
	Year       int                             `json:"year"`
	Statistics StatisticsResponse              `json:"statistics"`
	Periods    []payroll.PayrollPeriodResponse `json:"periods"`
}
