package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/pdf"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
)

// payslipStatuses are the record states an employee can see as a payslip.
var payslipStatuses = []payroll.PayrollStatus{
	payroll.StatusApproved,
	payroll.StatusPendingPayment,
	payroll.StatusPaid,
	payroll.StatusFailed,
}

type PayrollServiceImpl struct {
	db            *database.DB
	payrollRepo   payroll.PayrollRepository
	employeeRepo  employee.EmployeeRepository
	gradeRepo     payroll.GradeRepository
	bonusRepo     payroll.BonusRepository
	deductionRepo payroll.DeductionRepository
	rules         payroll.StatutoryRules
	files         storage.FileStorage
	renderer      pdf.PayslipRenderer
	now           func() time.Time
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	gradeRepo payroll.GradeRepository,
	bonusRepo payroll.BonusRepository,
	deductionRepo payroll.DeductionRepository,
	rules payroll.StatutoryRules,
	files storage.FileStorage,
	renderer pdf.PayslipRenderer,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:            db,
		payrollRepo:   payrollRepo,
		employeeRepo:  employeeRepo,
		gradeRepo:     gradeRepo,
		bonusRepo:     bonusRepo,
		deductionRepo: deductionRepo,
		rules:         rules,
		files:         files,
		renderer:      renderer,
		now:           time.Now,
	}
}

// ========== PAYROLL RUN ==========

// RunPayroll prices every targeted employee for the period. Each employee
// is independent and reported as processed, skipped or failed.
func (s *PayrollServiceImpl) RunPayroll(ctx context.Context, req payroll.RunPayrollRequest) (payroll.RunPayrollResult, error) {
	if _, err := requirePermission(ctx, user.PermissionPayrollCreate); err != nil {
		return payroll.RunPayrollResult{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.RunPayrollResult{}, err
	}

	period := req.Period()
	frequency := payroll.Frequency(req.Frequency)
	if frequency == "" {
		frequency = payroll.FrequencyMonthly
	}

	result := payroll.RunPayrollResult{
		Period:    period.String(),
		RecordIDs: []string{},
		Result:    payroll.BatchResult{Items: []payroll.BatchItem{}},
	}

	employees, err := s.targetEmployees(ctx, req, &result.Result)
	if err != nil {
		return payroll.RunPayrollResult{}, err
	}

	grades := make(map[string]*payroll.SalaryGrade)
	for _, emp := range employees {
		record, status, reason := s.runOne(ctx, emp, period, frequency, grades)
		result.Result.Add(emp.ID, status, reason)
		if status == payroll.ItemProcessed {
			result.RecordIDs = append(result.RecordIDs, record.ID)
		}
	}

	if result.Result.Processed > 0 {
		s.refreshPeriod(ctx, period)
	}

	slog.Info("payroll run finished",
		"period", result.Period,
		"processed", result.Result.Processed,
		"skipped", result.Result.Skipped,
		"failed", result.Result.Failed,
	)
	return result, nil
}

// targetEmployees resolves the run scope. Explicit ids that do not exist
// are recorded as skipped rather than failing the run.
func (s *PayrollServiceImpl) targetEmployees(ctx context.Context, req payroll.RunPayrollRequest, batch *payroll.BatchResult) ([]employee.Employee, error) {
	if len(req.EmployeeIDs) == 0 {
		employees, err := s.employeeRepo.GetActive(ctx, req.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load active employees: %w", err)
		}
		return employees, nil
	}

	employees := make([]employee.Employee, 0, len(req.EmployeeIDs))
	for _, id := range req.EmployeeIDs {
		emp, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				batch.Add(id, payroll.ItemSkipped, employee.ErrEmployeeNotFound.Error())
				continue
			}
			batch.Add(id, payroll.ItemFailed, err.Error())
			continue
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func (s *PayrollServiceImpl) runOne(ctx context.Context, emp employee.Employee, period payroll.Period, frequency payroll.Frequency, grades map[string]*payroll.SalaryGrade) (payroll.PayrollRecord, payroll.ItemStatus, string) {
	if !emp.IsActive() {
		return payroll.PayrollRecord{}, payroll.ItemSkipped, payroll.ErrEmployeeNotEligible.Error()
	}
	if emp.GradeID == nil {
		return payroll.PayrollRecord{}, payroll.ItemSkipped, payroll.ErrGradeRequired.Error()
	}

	exists, err := s.payrollRepo.ExistsForPeriod(ctx, emp.ID, period, frequency)
	if err != nil {
		return payroll.PayrollRecord{}, payroll.ItemFailed, err.Error()
	}
	if exists {
		return payroll.PayrollRecord{}, payroll.ItemSkipped, payroll.ErrPayrollRecordAlreadyExists.Error()
	}

	record, err := s.compute(ctx, emp, period, frequency, grades)
	if err != nil {
		slog.Warn("payroll computation failed", "employee_id", emp.ID, "period", period.String(), "error", err)
		return payroll.PayrollRecord{}, payroll.ItemFailed, err.Error()
	}

	created, err := s.payrollRepo.Create(ctx, record)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
			return payroll.PayrollRecord{}, payroll.ItemSkipped, err.Error()
		}
		return payroll.PayrollRecord{}, payroll.ItemFailed, err.Error()
	}
	return created, payroll.ItemProcessed, ""
}

// compute gathers the inputs for one employee and prices them. grades
// caches salary grades across a run; pass nil to always reload.
func (s *PayrollServiceImpl) compute(ctx context.Context, emp employee.Employee, period payroll.Period, frequency payroll.Frequency, grades map[string]*payroll.SalaryGrade) (payroll.PayrollRecord, error) {
	var grade *payroll.SalaryGrade
	if emp.GradeID != nil {
		if cached, ok := grades[*emp.GradeID]; ok {
			grade = cached
		} else {
			g, err := s.gradeRepo.GetByID(ctx, *emp.GradeID)
			if err != nil {
				return payroll.PayrollRecord{}, err
			}
			grade = &g
			if grades != nil {
				grades[g.ID] = grade
			}
		}
	}

	bonuses, err := s.bonusRepo.ListApproved(ctx, emp.ID, period)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	deductions, err := s.deductionRepo.ListActive(ctx, emp.ID)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	return Compute(ComputeInput{
		Employee:   emp,
		Grade:      grade,
		Period:     period,
		Frequency:  frequency,
		Bonuses:    bonuses,
		Deductions: deductions,
		Rules:      s.rules,
	})
}

// ========== RECORDS ==========

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	record.History, err = s.payrollRepo.ListHistory(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return payroll.ToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}
	filter.Normalize()

	records, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	data := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, payroll.ToRecordResponse(r))
	}
	return payroll.ListPayrollRecordResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Recompute prices a DRAFT record again from current grade, bonus and
// deduction data.
func (s *PayrollServiceImpl) Recompute(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	if _, err := requirePermission(ctx, user.PermissionPayrollEdit); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	existing, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if !existing.Status.IsEditable() {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotEditable
	}

	emp, err := s.employeeRepo.GetByID(ctx, existing.EmployeeID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	record, err := s.compute(ctx, emp, existing.Period, existing.Frequency, nil)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	record.ID = existing.ID

	if err := s.payrollRepo.UpdateAmounts(ctx, record); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	s.refreshPeriod(ctx, existing.Period)

	return s.GetRecord(ctx, id)
}

// ========== STATUS TRANSITIONS ==========

func (s *PayrollServiceImpl) Transition(ctx context.Context, req payroll.TransitionRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	action := payroll.Action(req.Action)
	claims, err := requirePermission(ctx, actionPermissions[action])
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if action.IsPayment() {
		if err := requirePaymentProcessing(claims); err != nil {
			return payroll.PayrollRecordResponse{}, err
		}
	}

	record, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	var paymentDate *time.Time
	if action == payroll.ActionMarkPaid {
		today := s.today()
		paymentDate = &today
	}

	if err := s.applyTransition(ctx, record, action, claims.UserID, req.Remarks, paymentDate); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	s.refreshPeriod(ctx, record.Period)

	return s.GetRecord(ctx, req.ID)
}

// applyTransition moves one record and writes its history entry in a
// single transaction.
func (s *PayrollServiceImpl) applyTransition(ctx context.Context, record payroll.PayrollRecord, action payroll.Action, userID string, remarks *string, paymentDate *time.Time) error {
	target, err := action.Apply(record.Status)
	if err != nil {
		return err
	}

	var paidBy *string
	if target == payroll.StatusPaid {
		paidBy = &userID
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.payrollRepo.UpdateStatus(txCtx, record.ID, record.Status, target, paymentDate, paidBy); err != nil {
			return err
		}
		return s.payrollRepo.AddHistory(txCtx, payroll.ApprovalEntry{
			PayrollID:  record.ID,
			Level:      action.Level(),
			Action:     action,
			FromStatus: record.Status,
			ToStatus:   target,
			UserID:     userID,
			Remarks:    remarks,
		})
	})
	if err != nil {
		return err
	}

	slog.Info("payroll status changed",
		"record_id", record.ID,
		"action", action,
		"from", record.Status,
		"to", target,
		"user_id", userID,
	)
	return nil
}

// MarkAsPaid settles PENDING_PAYMENT records one by one. A record in any
// other state is skipped; a storage error fails only that record.
func (s *PayrollServiceImpl) MarkAsPaid(ctx context.Context, req payroll.MarkAsPaidRequest) (payroll.BatchResult, error) {
	claims, err := requirePermission(ctx, user.PermissionPayrollProcess)
	if err != nil {
		return payroll.BatchResult{}, err
	}
	if err := requirePaymentProcessing(claims); err != nil {
		return payroll.BatchResult{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.BatchResult{}, err
	}

	paymentDate := s.today()
	if req.PaymentDate != nil {
		paymentDate, _ = time.Parse(time.DateOnly, *req.PaymentDate)
	}

	result := payroll.BatchResult{Items: []payroll.BatchItem{}}
	touched := make(map[payroll.Period]struct{})

	for _, id := range req.RecordIDs {
		record, err := s.payrollRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
				result.Add(id, payroll.ItemSkipped, err.Error())
			} else {
				result.Add(id, payroll.ItemFailed, err.Error())
			}
			continue
		}
		if record.Status != payroll.StatusPendingPayment {
			result.Add(id, payroll.ItemSkipped, fmt.Sprintf("status is %s, expected %s", record.Status, payroll.StatusPendingPayment))
			continue
		}

		err = s.applyTransition(ctx, record, payroll.ActionMarkPaid, claims.UserID, req.Remarks, &paymentDate)
		switch {
		case err == nil:
			result.Add(id, payroll.ItemProcessed, "")
			touched[record.Period] = struct{}{}
		case errors.Is(err, payroll.ErrInvalidStatusTransition):
			// Moved by someone else between the read and the update.
			result.Add(id, payroll.ItemSkipped, err.Error())
		default:
			slog.Error("mark as paid failed", "record_id", id, "error", err)
			result.Add(id, payroll.ItemFailed, err.Error())
		}
	}

	for p := range touched {
		s.refreshPeriod(ctx, p)
	}

	slog.Info("batch mark as paid finished",
		"requested", len(req.RecordIDs),
		"processed", result.Processed,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *PayrollServiceImpl) GetHistory(ctx context.Context, id string) ([]payroll.ApprovalEntryResponse, error) {
	if _, err := s.payrollRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.payrollRepo.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := make([]payroll.ApprovalEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, payroll.ToApprovalEntryResponse(e))
	}
	return resp, nil
}

// ========== PAYSLIPS ==========

func (s *PayrollServiceImpl) ListMyPayslips(ctx context.Context) ([]payroll.PayslipResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, user.ErrInsufficientPermissions
	}
	if claims.EmployeeID == nil {
		return nil, employee.ErrEmployeeLinkRequired
	}

	records, err := s.payrollRepo.ListByEmployee(ctx, *claims.EmployeeID, payslipStatuses)
	if err != nil {
		return nil, err
	}
	slips := make([]payroll.PayslipResponse, 0, len(records))
	for _, r := range records {
		slips = append(slips, payroll.ToPayslip(r, s.rules.Currency))
	}
	return slips, nil
}

// GetPayslip returns a record as a payslip. Owners see their own approved
// records; holders of payroll.view see any record. Everything else looks
// like a missing payslip.
func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, user.ErrInsufficientPermissions
	}

	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return payroll.PayslipResponse{}, payroll.ErrPayslipNotFound
		}
		return payroll.PayslipResponse{}, err
	}

	if !canViewPayslip(claims, record) {
		return payroll.PayslipResponse{}, payroll.ErrPayslipNotFound
	}
	return payroll.ToPayslip(record, s.rules.Currency), nil
}

func canViewPayslip(claims jwt.Claims, record payroll.PayrollRecord) bool {
	if user.NewPermissionSet(claims.Permissions...).Has(user.PermissionPayrollView) {
		return true
	}
	if claims.EmployeeID == nil || *claims.EmployeeID != record.EmployeeID {
		return false
	}
	for _, st := range payslipStatuses {
		if record.Status == st {
			return true
		}
	}
	return false
}

// RenderPayslipPDF serves a cached PDF when one exists for the record in
// its current status, rendering and storing it otherwise.
func (s *PayrollServiceImpl) RenderPayslipPDF(ctx context.Context, id string) ([]byte, string, error) {
	slip, err := s.GetPayslip(ctx, id)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("payslip-%s-%s.pdf", slip.EmployeeCode, slip.Period)
	key := fmt.Sprintf("payslips/%s/%s-%s.pdf", slip.Period, slip.RecordID, slip.Status)

	if cached, err := s.readCached(ctx, key); err == nil {
		return cached, filename, nil
	} else if !errors.Is(err, storage.ErrObjectNotFound) {
		slog.Warn("payslip cache read failed", "key", key, "error", err)
	}

	doc, err := s.renderer.Render(slip)
	if err != nil {
		return nil, "", err
	}
	if err := s.files.Put(ctx, key, bytes.NewReader(doc), "application/pdf"); err != nil {
		slog.Warn("payslip cache write failed", "key", key, "error", err)
	}
	return doc, filename, nil
}

func (s *PayrollServiceImpl) readCached(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.files.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ========== PERIODS ==========

func (s *PayrollServiceImpl) ListPeriods(ctx context.Context) ([]payroll.PayrollPeriodResponse, error) {
	periods, err := s.payrollRepo.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]payroll.PayrollPeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp = append(resp, payroll.ToPeriodResponse(p))
	}
	return resp, nil
}

// RefreshPeriods recomputes every cached period total. Used by the
// background job.
func (s *PayrollServiceImpl) RefreshPeriods(ctx context.Context) (int64, error) {
	n, err := s.payrollRepo.RefreshAllPeriods(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh payroll periods: %w", err)
	}
	return n, nil
}

// refreshPeriod updates one cached period. The cache is also rebuilt by the
// background job, so a failure here is logged and not returned.
func (s *PayrollServiceImpl) refreshPeriod(ctx context.Context, p payroll.Period) {
	if _, err := s.payrollRepo.RefreshPeriod(ctx, p); err != nil {
		slog.Error("failed to refresh payroll period", "period", p.String(), "error", err)
	}
}

func (s *PayrollServiceImpl) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
