package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	authzService "github.com/cmlabs-hris/hris-payroll-go/internal/service/authz"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

type testServer struct {
	jwt     jwt.Service
	router  *chi.Mux
	payroll *stubPayrollService
	reports *stubReportService
	auth    *stubAuth
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	jwtSvc := jwt.NewJWTService(handlerTestSecret, "1h", "24h")
	ts := &testServer{
		jwt:     jwtSvc,
		payroll: &stubPayrollService{},
		reports: &stubReportService{},
		auth:    &stubAuth{},
	}

	h := Handlers{
		Auth:     NewAuthHandler(jwtSvc, ts.auth),
		Authz:    NewAuthzHandler(authzService.NewAuthzService()),
		User:     NewUserHandler(stubUserService{}),
		Employee: NewEmployeeHandler(stubEmployeeService{}),
		Master:   NewMasterHandler(stubMasterService{}),
		Payroll:  NewPayrollHandler(stubStructureService{}, stubAdjustmentService{}, ts.payroll),
		Report:   NewReportHandler(ts.reports),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts.router = NewRouter(logger, []string{"http://localhost:3000"}, jwtSvc, h)
	return ts
}

func (ts *testServer) token(t *testing.T, role user.Role, perms ...user.Permission) string {
	t.Helper()
	employeeID := "0190a6b4-0000-7000-8000-000000000001"
	token, _, err := ts.jwt.GenerateAccessToken("user-1", "someone@pms.test", &employeeID, role, perms)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func newRequestWithCookie(method, path, name, value string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: name, Value: value})
	return req
}

func serve(ts *testServer, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}
