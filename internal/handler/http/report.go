package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
)

type ReportHandler interface {
	PeriodStatistics(w http.ResponseWriter, r *http.Request)
	DepartmentBreakdown(w http.ResponseWriter, r *http.Request)
	OrganizationSummary(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// statisticsRequest reads month, year and department_id from the query.
// Month and year default to the current period.
func statisticsRequest(r *http.Request) (report.StatisticsRequest, bool) {
	now := time.Now()
	req := report.StatisticsRequest{Month: int(now.Month()), Year: now.Year()}

	query := r.URL.Query()
	if monthStr := query.Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil {
			return req, false
		}
		req.Month = month
	}
	if yearStr := query.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return req, false
		}
		req.Year = year
	}
	if departmentID := query.Get("department_id"); departmentID != "" {
		req.DepartmentID = &departmentID
	}
	return req, true
}

// PeriodStatistics handles GET /reports/statistics
func (h *reportHandlerImpl) PeriodStatistics(w http.ResponseWriter, r *http.Request) {
	req, ok := statisticsRequest(r)
	if !ok {
		response.BadRequest(w, "Invalid month or year parameter", nil)
		return
	}

	result, err := h.reportService.PeriodStatistics(r.Context(), req)
	if err != nil {
		slog.Error("PeriodStatistics service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DepartmentBreakdown handles GET /reports/departments
func (h *reportHandlerImpl) DepartmentBreakdown(w http.ResponseWriter, r *http.Request) {
	req, ok := statisticsRequest(r)
	if !ok {
		response.BadRequest(w, "Invalid month or year parameter", nil)
		return
	}

	result, err := h.reportService.DepartmentBreakdown(r.Context(), req)
	if err != nil {
		slog.Error("DepartmentBreakdown service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// OrganizationSummary handles GET /reports/summary
func (h *reportHandlerImpl) OrganizationSummary(w http.ResponseWriter, r *http.Request) {
	req := report.SummaryRequest{Year: time.Now().Year()}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			response.BadRequest(w, "Invalid year parameter", nil)
			return
		}
		req.Year = year
	}

	result, err := h.reportService.OrganizationSummary(r.Context(), req)
	if err != nil {
		slog.Error("OrganizationSummary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
