package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/pdf"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/hris-payroll-go/internal/service/auth"
	authzService "github.com/cmlabs-hris/hris-payroll-go/internal/service/authz"
	employeeService "github.com/cmlabs-hris/hris-payroll-go/internal/service/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/service/master"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/hris-payroll-go/internal/service/report"
	userService "github.com/cmlabs-hris/hris-payroll-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-payroll"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	rules, err := config.LoadRules(cfg.Payroll.RulesPath)
	if err != nil {
		return err
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}
	renderer := pdf.NewPayslipRenderer(cfg.App.CompanyName)

	// ========== Repositories ==========
	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	componentRepo := postgresql.NewComponentRepository(db)
	gradeRepo := postgresql.NewGradeRepository(db)
	bonusRepo := postgresql.NewBonusRepository(db)
	deductionRepo := postgresql.NewDeductionRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	// ========== Services ==========
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration.String(), cfg.JWT.RefreshExpiration.String())
	authService := serviceAuth.NewAuthService(userRepo, employeeRepo, JWTService, JWTRepository)
	authzSvc := authzService.NewAuthzService()
	userSvc := userService.NewUserService(userRepo, JWTRepository)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, departmentRepo, gradeRepo)
	masterService := master.NewMasterService(departmentRepo)
	structureSvc := payrollService.NewStructureService(db, componentRepo, gradeRepo)
	adjustmentSvc := payrollService.NewAdjustmentService(bonusRepo, deductionRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		employeeRepo,
		gradeRepo,
		bonusRepo,
		deductionRepo,
		rules,
		fileStorage,
		renderer,
	)
	reportSvc := reportService.NewReportService(reportRepo, departmentRepo, payrollRepo)

	if cfg.Payroll.SeedAdminEmail != "" {
		created, err := userService.EnsureSuperAdmin(ctx, userRepo, cfg.Payroll.SeedAdminEmail, cfg.Payroll.SeedAdminPass)
		if err != nil {
			return err
		}
		if created {
			slog.Info("seeded super admin", "email", cfg.Payroll.SeedAdminEmail)
		}
	}

	// ========== Background jobs ==========
	scheduler := cron.NewScheduler()
	cron.NewPayrollJobs(payrollSvc, cfg.Payroll.RefreshInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	// ========== HTTP ==========
	router := appHTTP.NewRouter(logger, cfg.App.AllowedOrigins, JWTService, appHTTP.Handlers{
		Auth:     appHTTP.NewAuthHandler(JWTService, authService),
		Authz:    appHTTP.NewAuthzHandler(authzSvc),
		User:     appHTTP.NewUserHandler(userSvc),
		Employee: appHTTP.NewEmployeeHandler(employeeSvc),
		Master:   appHTTP.NewMasterHandler(masterService),
		Payroll:  appHTTP.NewPayrollHandler(structureSvc, adjustmentSvc, payrollSvc),
		Report:   appHTTP.NewReportHandler(reportSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
