package report

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	records []payroll.PayrollRecord
	scopes  []report.Scope
	err     error
}

func (f *fakeReportRepo) ListRecords(_ context.Context, scope report.Scope) ([]payroll.PayrollRecord, error) {
	f.scopes = append(f.scopes, scope)
	return f.records, f.err
}

type fakeDepartments struct {
	department.DepartmentRepository
	list []department.Department
}

func (f *fakeDepartments) List(context.Context) ([]department.Department, error) {
	return f.list, nil
}

type fakePeriods struct {
	payroll.PayrollRepository
	periods []payroll.PayrollPeriod
}

func (f *fakePeriods) ListPeriods(context.Context) ([]payroll.PayrollPeriod, error) {
	return f.periods, nil
}

func ctxWith(t *testing.T, perms ...user.Permission) context.Context {
	t.Helper()
	svc := jwt.NewJWTService("test-secret", "1h", "168h")
	token, _, err := svc.GenerateAccessToken("user-1", "analyst@pms.test", nil, user.RoleAdmin, perms)
	require.NoError(t, err)
	parsed, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), parsed, nil)
}

func newFixture() (*fakeReportRepo, *ReportServiceImpl) {
	eng := "dept-eng"
	repo := &fakeReportRepo{records: []payroll.PayrollRecord{
		record("r1", "e1", &eng, payroll.StatusPaid, "300000", "60000", "280000"),
		record("r2", "e2", nil, payroll.StatusApproved, "100000", "0", "90000"),
	}}
	depts := &fakeDepartments{list: []department.Department{{ID: "dept-eng", Name: "Engineering"}}}
	periods := &fakePeriods{periods: []payroll.PayrollPeriod{
		{Period: payroll.Period{Month: 1, Year: 2024}, EmployeeCount: 2},
		{Period: payroll.Period{Month: 12, Year: 2023}, EmployeeCount: 5},
	}}
	svc := NewReportService(repo, depts, periods).(*ReportServiceImpl)
	return repo, svc
}

func TestPeriodStatistics(t *testing.T) {
	repo, svc := newFixture()
	ctx := ctxWith(t, user.PermissionReportsView)

	resp, err := svc.PeriodStatistics(ctx, report.StatisticsRequest{Month: 1, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, "2024-01", resp.Period)
	assert.Equal(t, 2, resp.TotalRecords)
	assert.Equal(t, 1, resp.StatusCounts["PAID"])
	require.Len(t, resp.Departments, 2)
	assert.Equal(t, "Engineering", resp.Departments[0].Name)
	assert.Equal(t, "Unassigned", resp.Departments[1].Name)

	require.Len(t, repo.scopes, 1)
	require.NotNil(t, repo.scopes[0].Month)
	assert.Equal(t, 1, *repo.scopes[0].Month)
}

func TestPeriodStatistics_RequiresPermission(t *testing.T) {
	_, svc := newFixture()

	_, err := svc.PeriodStatistics(context.Background(), report.StatisticsRequest{Month: 1, Year: 2024})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = svc.PeriodStatistics(ctxWith(t, user.PermissionPayrollView), report.StatisticsRequest{Month: 1, Year: 2024})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestPeriodStatistics_Validation(t *testing.T) {
	_, svc := newFixture()
	ctx := ctxWith(t, user.PermissionReportsView)
	bad := "not-an-id"

	_, err := svc.PeriodStatistics(ctx, report.StatisticsRequest{Month: 13, Year: 1999, DepartmentID: &bad})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}

func TestDepartmentBreakdown_PassesDepartmentScope(t *testing.T) {
	repo, svc := newFixture()
	deptID := uuid.Must(uuid.NewV7()).String()

	_, err := svc.DepartmentBreakdown(ctxWith(t, user.PermissionReportsView),
		report.StatisticsRequest{Month: 2, Year: 2024, DepartmentID: &deptID})
	require.NoError(t, err)

	require.Len(t, repo.scopes, 1)
	require.NotNil(t, repo.scopes[0].DepartmentID)
	assert.Equal(t, deptID, *repo.scopes[0].DepartmentID)
}

func TestOrganizationSummary(t *testing.T) {
	repo, svc := newFixture()

	resp, err := svc.OrganizationSummary(ctxWith(t, user.PermissionReportsView), report.SummaryRequest{Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, 2024, resp.Year)
	assert.Nil(t, repo.scopes[0].Month)
	require.Len(t, resp.Periods, 1)
	assert.Equal(t, "2024-01", resp.Periods[0].Period)
}

func TestOrganizationSummary_RepositoryError(t *testing.T) {
	repo, svc := newFixture()
	repo.err = errors.New("connection reset")

	_, err := svc.OrganizationSummary(ctxWith(t, user.PermissionReportsView), report.SummaryRequest{Year: 2024})
	assert.ErrorContains(t, err, "connection reset")
}
