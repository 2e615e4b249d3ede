package http

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/service/master"
)

// Stubs embed the service interfaces; a call to a method that is not
// overridden panics on the nil embedded value.

type stubAuth struct {
	auth.AuthService
	loginErr error
	logouts  []string
}

func (s *stubAuth) Login(_ context.Context, req auth.LoginRequest, _ auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if s.loginErr != nil {
		return auth.TokenResponse{}, s.loginErr
	}
	return auth.TokenResponse{
		AccessToken:           "access-" + req.Email,
		AccessTokenExpiresIn:  3600,
		RefreshToken:          "refresh-" + req.Email,
		RefreshTokenExpiresIn: 4102444800,
	}, nil
}

func (s *stubAuth) Logout(_ context.Context, refreshToken string) error {
	s.logouts = append(s.logouts, refreshToken)
	return nil
}

type stubUserService struct{ user.UserService }

type stubEmployeeService struct{ employee.EmployeeService }

type stubMasterService struct{ master.MasterService }

type stubStructureService struct{ payroll.StructureService }

type stubAdjustmentService struct{ payroll.AdjustmentService }

type stubPayrollService struct {
	payroll.PayrollService
	markReq     *payroll.MarkAsPaidRequest
	markResult  payroll.BatchResult
	transitions []payroll.TransitionRequest
	transErr    error
	pdf         []byte
	pdfErr      error
	list        payroll.ListPayrollRecordResponse
	lastFilter  payroll.PayrollFilter
}

func (s *stubPayrollService) MarkAsPaid(_ context.Context, req payroll.MarkAsPaidRequest) (payroll.BatchResult, error) {
	s.markReq = &req
	return s.markResult, nil
}

func (s *stubPayrollService) Transition(_ context.Context, req payroll.TransitionRequest) (payroll.PayrollRecordResponse, error) {
	s.transitions = append(s.transitions, req)
	if s.transErr != nil {
		return payroll.PayrollRecordResponse{}, s.transErr
	}
	return payroll.PayrollRecordResponse{ID: req.ID}, nil
}

func (s *stubPayrollService) RenderPayslipPDF(_ context.Context, id string) ([]byte, string, error) {
	return s.pdf, "payslip-" + id + ".pdf", s.pdfErr
}

func (s *stubPayrollService) ListRecords(_ context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	s.lastFilter = filter
	return s.list, nil
}

type stubReportService struct {
	report.ReportService
	lastReq report.StatisticsRequest
	err     error
}

func (s *stubReportService) PeriodStatistics(_ context.Context, req report.StatisticsRequest) (report.StatisticsResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return report.StatisticsResponse{}, s.err
	}
	return report.StatisticsResponse{TotalRecords: 3}, nil
}
