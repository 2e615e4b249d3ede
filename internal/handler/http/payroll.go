package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Components
	CreateComponent(w http.ResponseWriter, r *http.Request)
	ListComponents(w http.ResponseWriter, r *http.Request)
	UpdateComponent(w http.ResponseWriter, r *http.Request)
	SetComponentActive(w http.ResponseWriter, r *http.Request)
	DeleteComponent(w http.ResponseWriter, r *http.Request)

	// Salary grades
	CreateGrade(w http.ResponseWriter, r *http.Request)
	GetGrade(w http.ResponseWriter, r *http.Request)
	ListGrades(w http.ResponseWriter, r *http.Request)
	UpdateGrade(w http.ResponseWriter, r *http.Request)

	// Bonuses and deductions
	CreateBonus(w http.ResponseWriter, r *http.Request)
	ListBonuses(w http.ResponseWriter, r *http.Request)
	ApproveBonus(w http.ResponseWriter, r *http.Request)
	RejectBonus(w http.ResponseWriter, r *http.Request)
	CreateDeduction(w http.ResponseWriter, r *http.Request)
	ListDeductions(w http.ResponseWriter, r *http.Request)
	DeactivateDeduction(w http.ResponseWriter, r *http.Request)

	// Payroll records
	RunPayroll(w http.ResponseWriter, r *http.Request)
	GetPayrollRecord(w http.ResponseWriter, r *http.Request)
	ListPayrollRecords(w http.ResponseWriter, r *http.Request)
	RecomputePayrollRecord(w http.ResponseWriter, r *http.Request)
	Transition(w http.ResponseWriter, r *http.Request)
	MarkAsPaid(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)

	// Payslips
	ListMyPayslips(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	DownloadPayslip(w http.ResponseWriter, r *http.Request)

	// Periods
	ListPeriods(w http.ResponseWriter, r *http.Request)
	RefreshPeriods(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	structureService  payroll.StructureService
	adjustmentService payroll.AdjustmentService
	payrollService    payroll.PayrollService
}

func NewPayrollHandler(structureService payroll.StructureService, adjustmentService payroll.AdjustmentService, payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		structureService:  structureService,
		adjustmentService: adjustmentService,
		payrollService:    payrollService,
	}
}

// ========== PAYROLL RECORDS ==========

func (h *payrollHandlerImpl) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.RunPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.RunPayroll(r.Context(), req)
	if err != nil {
		slog.Error("RunPayroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run completed", result)
}

func (h *payrollHandlerImpl) GetPayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	result, err := h.payrollService.GetRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayrollRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := payroll.PayrollFilter{
		Page:      1,
		Limit:     20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	if pageStr := query.Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if monthStr := query.Get("period_month"); monthStr != "" {
		if month, err := strconv.Atoi(monthStr); err == nil {
			filter.PeriodMonth = &month
		}
	}
	if yearStr := query.Get("period_year"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			filter.PeriodYear = &year
		}
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if employeeID := query.Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if departmentID := query.Get("department_id"); departmentID != "" {
		filter.DepartmentID = &departmentID
	}
	if sortBy := query.Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := query.Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	result, err := h.payrollService.ListRecords(r.Context(), filter)
	if err != nil {
		slog.Error("ListPayrollRecords service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, pageMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *payrollHandlerImpl) RecomputePayrollRecord(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Recompute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Recompute service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record recomputed", result)
}

// Transition applies the action named in the URL, e.g. POST /{id}/approve.
func (h *payrollHandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	req := payroll.TransitionRequest{
		ID:     chi.URLParam(r, "id"),
		Action: chi.URLParam(r, "action"),
	}

	if r.ContentLength != 0 {
		var body struct {
			Remarks *string `json:"remarks,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
		req.Remarks = body.Remarks
	}

	result, err := h.payrollService.Transition(r.Context(), req)
	if err != nil {
		slog.Error("Transition service error", "error", err, "action", req.Action)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record updated", result)
}

func (h *payrollHandlerImpl) MarkAsPaid(w http.ResponseWriter, r *http.Request) {
	var req payroll.MarkAsPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.MarkAsPaid(r.Context(), req)
	if err != nil {
		slog.Error("MarkAsPaid service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== PAYSLIPS ==========

func (h *payrollHandlerImpl) ListMyPayslips(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListMyPayslips(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPayslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	body, filename, err := h.payrollService.RenderPayslipPDF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("DownloadPayslip service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Binary(w, "application/pdf", filename, body)
}

// ========== PERIODS ==========

func (h *payrollHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPeriods(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RefreshPeriods(w http.ResponseWriter, r *http.Request) {
	count, err := h.payrollService.RefreshPeriods(r.Context())
	if err != nil {
		slog.Error("RefreshPeriods service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll periods refreshed", map[string]int64{"periods": count})
}
