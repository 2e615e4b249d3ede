package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/authz"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth     AuthHandler
	Authz    AuthzHandler
	User     UserHandler
	Employee EmployeeHandler
	Master   MasterHandler
	Payroll  PayrollHandler
	Report   ReportHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Token optional: anonymous callers get a sign-in decision.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader))
			r.Post("/authz/resolve", h.Authz.Resolve)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRouteAccess("/pms/settings/users"))
				r.Get("/", h.User.ListUsers)
				r.Post("/", h.User.CreateUser)
				r.Put("/{id}/access", h.User.UpdateAccess)
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequireRouteAccess("/pms/employees")).Get("/", h.Employee.ListEmployees)
				r.With(middleware.RequireRouteAccess("/pms/employees")).Get("/{id}", h.Employee.GetEmployee)
				r.With(middleware.RequireRouteAccess("/pms/employees/create")).Post("/", h.Employee.CreateEmployee)
				r.With(middleware.RequireAccess("/pms/employees", permissions(user.PermissionEmployeeEdit))).
					Put("/{id}", h.Employee.UpdateEmployee)
				r.With(middleware.RequireAccess("/pms/employees", permissions(user.PermissionEmployeeDeactivate))).
					Post("/{id}/deactivate", h.Employee.DeactivateEmployee)
			})

			r.Route("/departments", func(r chi.Router) {
				r.With(middleware.RequireRouteAccess("/pms/employees")).Get("/", h.Master.ListDepartments)
				r.With(middleware.RequireRouteAccess("/pms/employees")).Get("/{id}", h.Master.GetDepartment)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAccess("/pms/settings", permissions(user.PermissionSettingsEdit)))
					r.Post("/", h.Master.CreateDepartment)
					r.Put("/{id}", h.Master.UpdateDepartment)
					r.Delete("/{id}", h.Master.DeleteDepartment)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/components", func(r chi.Router) {
					r.Use(middleware.RequireRouteAccess("/pms/payroll/structure"))
					r.Get("/", h.Payroll.ListComponents)
					r.Post("/", h.Payroll.CreateComponent)
					r.Put("/{id}", h.Payroll.UpdateComponent)
					r.Patch("/{id}/active", h.Payroll.SetComponentActive)
					r.Delete("/{id}", h.Payroll.DeleteComponent)
				})

				r.Route("/grades", func(r chi.Router) {
					r.Use(middleware.RequireRouteAccess("/pms/payroll/structure"))
					r.Get("/", h.Payroll.ListGrades)
					r.Post("/", h.Payroll.CreateGrade)
					r.Get("/{id}", h.Payroll.GetGrade)
					r.Put("/{id}", h.Payroll.UpdateGrade)
				})

				r.Route("/bonuses", func(r chi.Router) {
					r.Use(middleware.RequireRouteAccess("/pms/payroll/bonuses"))
					r.Get("/", h.Payroll.ListBonuses)
					r.Post("/", h.Payroll.CreateBonus)
					r.Post("/{id}/approve", h.Payroll.ApproveBonus)
					r.Post("/{id}/reject", h.Payroll.RejectBonus)
				})

				r.Route("/deductions", func(r chi.Router) {
					r.Use(middleware.RequireRouteAccess("/pms/payroll/deductions"))
					r.Get("/", h.Payroll.ListDeductions)
					r.Post("/", h.Payroll.CreateDeduction)
					r.Post("/{id}/deactivate", h.Payroll.DeactivateDeduction)
				})

				r.With(middleware.RequireRouteAccess("/pms/payroll/run")).Post("/runs", h.Payroll.RunPayroll)
				r.With(middleware.RequireRouteAccess("/pms/payroll/process")).Post("/mark-paid", h.Payroll.MarkAsPaid)

				r.Route("/records", func(r chi.Router) {
					r.Use(middleware.RequireRouteAccess("/pms/payroll"))
					r.Get("/", h.Payroll.ListPayrollRecords)
					r.Get("/{id}", h.Payroll.GetPayrollRecord)
					r.Get("/{id}/history", h.Payroll.GetHistory)
					r.Get("/{id}/payslip.pdf", h.Payroll.DownloadPayslip)
					r.Post("/{id}/recompute", h.Payroll.RecomputePayrollRecord)
					r.With(middleware.RequireRouteAccess("/pms/payroll/process")).
						Post("/{id}/{action:(?:initiate_payment|mark_paid|mark_failed|retry_payment)}", h.Payroll.Transition)
					r.Post("/{id}/{action}", h.Payroll.Transition)
				})

				r.Route("/periods", func(r chi.Router) {
					r.Use(middleware.RequireRouteAccess("/pms/payroll"))
					r.Get("/", h.Payroll.ListPeriods)
					r.With(middleware.RequireAccess("/pms/payroll", permissions(user.PermissionPayrollProcess))).
						Post("/refresh", h.Payroll.RefreshPeriods)
				})
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Use(middleware.RequireRouteAccess("/pms/payroll/my-payslips"))
				r.Get("/", h.Payroll.ListMyPayslips)
				r.Get("/{id}", h.Payroll.GetPayslip)
				r.Get("/{id}/pdf", h.Payroll.DownloadPayslip)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequireRouteAccess("/pms/reports"))
				r.Get("/statistics", h.Report.PeriodStatistics)
				r.Get("/departments", h.Report.DepartmentBreakdown)
				r.Get("/summary", h.Report.OrganizationSummary)
			})
		})
	})
	return r
}

func permissions(perms ...user.Permission) authz.Requirement {
	return authz.Requirement{RequiredPermissions: perms}
}
