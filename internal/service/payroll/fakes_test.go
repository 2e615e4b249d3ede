package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/storage"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func ctxWith(t *testing.T, employeeID *string, perms ...user.Permission) context.Context {
	t.Helper()
	return ctxAs(t, user.RoleAdmin, employeeID, perms...)
}

// payerCtx is a SUPER_ADMIN allowed to process payments.
func payerCtx(t *testing.T) context.Context {
	t.Helper()
	return ctxAs(t, user.RoleSuperAdmin, nil, user.PermissionPayrollProcess)
}

func ctxAs(t *testing.T, role user.Role, employeeID *string, perms ...user.Permission) context.Context {
	t.Helper()
	svc := jwt.NewJWTService("test-secret", "1h", "168h")
	token, _, err := svc.GenerateAccessToken("user-1", "officer@pms.test", employeeID, role, perms)
	require.NoError(t, err)
	parsed, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), parsed, nil)
}

// ========== payroll records ==========

type memoryPayrollRepo struct {
	mu            sync.Mutex
	records       map[string]payroll.PayrollRecord
	history       []payroll.ApprovalEntry
	refreshed     []payroll.Period
	failStatusFor map[string]error
}

func newMemoryPayrollRepo() *memoryPayrollRepo {
	return &memoryPayrollRepo{
		records:       map[string]payroll.PayrollRecord{},
		failStatusFor: map[string]error{},
	}
}

func (m *memoryPayrollRepo) put(r payroll.PayrollRecord) payroll.PayrollRecord {
	if r.ID == "" {
		r.ID = newID()
	}
	m.records[r.ID] = r
	return r
}

func (m *memoryPayrollRepo) Create(_ context.Context, r payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if existing.EmployeeID == r.EmployeeID && existing.Period == r.Period && existing.Frequency == r.Frequency {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
	}
	return m.put(r), nil
}

func (m *memoryPayrollRepo) GetByID(_ context.Context, id string) (payroll.PayrollRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (m *memoryPayrollRepo) ExistsForPeriod(_ context.Context, employeeID string, p payroll.Period, f payroll.Frequency) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.EmployeeID == employeeID && r.Period == p && r.Frequency == f {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryPayrollRepo) List(_ context.Context, _ payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]payroll.PayrollRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (m *memoryPayrollRepo) ListByPeriod(_ context.Context, p payroll.Period) ([]payroll.PayrollRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payroll.PayrollRecord
	for _, r := range m.records {
		if r.Period == p {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryPayrollRepo) ListByEmployee(_ context.Context, employeeID string, statuses []payroll.PayrollStatus) ([]payroll.PayrollRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payroll.PayrollRecord
	for _, r := range m.records {
		if r.EmployeeID != employeeID {
			continue
		}
		for _, s := range statuses {
			if r.Status == s {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (m *memoryPayrollRepo) UpdateAmounts(_ context.Context, r payroll.PayrollRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.records[r.ID]
	if !ok || existing.Status != payroll.StatusDraft {
		return payroll.ErrPayrollRecordNotEditable
	}
	r.Status = existing.Status
	m.records[r.ID] = r
	return nil
}

func (m *memoryPayrollRepo) UpdateStatus(_ context.Context, id string, from, to payroll.PayrollStatus, paymentDate *time.Time, paidBy *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failStatusFor[id]; err != nil {
		return err
	}
	r, ok := m.records[id]
	if !ok || r.Status != from {
		return fmt.Errorf("%w: record %s is no longer %s", payroll.ErrInvalidStatusTransition, id, from)
	}
	r.Status = to
	if paymentDate != nil {
		r.PaymentDate = paymentDate
	}
	if paidBy != nil {
		r.PaidBy = paidBy
	}
	m.records[id] = r
	return nil
}

func (m *memoryPayrollRepo) AddHistory(_ context.Context, e payroll.ApprovalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, e)
	return nil
}

func (m *memoryPayrollRepo) ListHistory(_ context.Context, payrollID string) ([]payroll.ApprovalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payroll.ApprovalEntry
	for _, e := range m.history {
		if e.PayrollID == payrollID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryPayrollRepo) RefreshPeriod(_ context.Context, p payroll.Period) (payroll.PayrollPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshed = append(m.refreshed, p)
	return payroll.PayrollPeriod{Period: p}, nil
}

func (m *memoryPayrollRepo) RefreshAllPeriods(context.Context) (int64, error) {
	return 0, nil
}

func (m *memoryPayrollRepo) ListPeriods(context.Context) ([]payroll.PayrollPeriod, error) {
	return nil, nil
}

// ========== supporting repositories ==========

type memoryEmployees struct {
	employee.EmployeeRepository
	rows []employee.Employee
}

func (m *memoryEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range m.rows {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memoryEmployees) GetActive(_ context.Context, departmentID *string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range m.rows {
		if !e.IsActive() {
			continue
		}
		if departmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *departmentID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type memoryGrades struct {
	payroll.GradeRepository
	grades map[string]payroll.SalaryGrade
	loads  int
}

func (m *memoryGrades) GetByID(_ context.Context, id string) (payroll.SalaryGrade, error) {
	m.loads++
	g, ok := m.grades[id]
	if !ok {
		return payroll.SalaryGrade{}, payroll.ErrSalaryGradeNotFound
	}
	return g, nil
}

type memoryBonuses struct {
	payroll.BonusRepository
	rows []payroll.Bonus
}

func (m *memoryBonuses) ListApproved(_ context.Context, employeeID string, p payroll.Period) ([]payroll.Bonus, error) {
	var out []payroll.Bonus
	for _, b := range m.rows {
		if b.EmployeeID == employeeID && b.ApprovalStatus == payroll.ApprovalApproved {
			out = append(out, b)
		}
	}
	return out, nil
}

type memoryDeductions struct {
	payroll.DeductionRepository
	rows []payroll.EmployeeDeduction
}

func (m *memoryDeductions) ListActive(_ context.Context, employeeID string) ([]payroll.EmployeeDeduction, error) {
	var out []payroll.EmployeeDeduction
	for _, d := range m.rows {
		if d.EmployeeID == employeeID && d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

// ========== documents ==========

type memoryStorage struct {
	objects map[string][]byte
	putErr  error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Put(_ context.Context, key string, r io.Reader, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *memoryStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

type countingRenderer struct {
	calls int
	err   error
}

func (c *countingRenderer) Render(slip payroll.PayslipResponse) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []byte("%PDF-" + slip.RecordID), nil
}

var errStorageDown = errors.New("connection refused")

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
