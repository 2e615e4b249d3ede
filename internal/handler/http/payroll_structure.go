package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// ========== COMPONENTS ==========

func (h *payrollHandlerImpl) CreateComponent(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.structureService.CreateComponent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll component created", result)
}

func (h *payrollHandlerImpl) ListComponents(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	result, err := h.structureService.ListComponents(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.structureService.UpdateComponent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) SetComponentActive(w http.ResponseWriter, r *http.Request) {
	var req payroll.SetComponentActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.structureService.SetComponentActive(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	if err := h.structureService.DeleteComponent(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll component deleted", nil)
}

// ========== SALARY GRADES ==========

func (h *payrollHandlerImpl) CreateGrade(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.structureService.CreateGrade(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary grade created", result)
}

func (h *payrollHandlerImpl) GetGrade(w http.ResponseWriter, r *http.Request) {
	result, err := h.structureService.GetGrade(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListGrades(w http.ResponseWriter, r *http.Request) {
	result, err := h.structureService.ListGrades(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateGrade(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.structureService.UpdateGrade(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== BONUSES ==========

func (h *payrollHandlerImpl) CreateBonus(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.adjustmentService.CreateBonus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Bonus created", result)
}

func (h *payrollHandlerImpl) ListBonuses(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}

	result, err := h.adjustmentService.ListBonuses(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ApproveBonus(w http.ResponseWriter, r *http.Request) {
	result, err := h.adjustmentService.ApproveBonus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bonus approved", result)
}

func (h *payrollHandlerImpl) RejectBonus(w http.ResponseWriter, r *http.Request) {
	result, err := h.adjustmentService.RejectBonus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bonus rejected", result)
}

// ========== EMPLOYEE DEDUCTIONS ==========

func (h *payrollHandlerImpl) CreateDeduction(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.adjustmentService.CreateDeduction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee deduction created", result)
}

func (h *payrollHandlerImpl) ListDeductions(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}

	result, err := h.adjustmentService.ListDeductions(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DeactivateDeduction(w http.ResponseWriter, r *http.Request) {
	if err := h.adjustmentService.DeactivateDeduction(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deduction deactivated", nil)
}
