package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PeriodRefresher rebuilds the cached per-period payroll totals.
type PeriodRefresher interface {
	RefreshPeriods(ctx context.Context) (int64, error)
}

type PayrollJobs struct {
	refresher PeriodRefresher
	interval  time.Duration
}

func NewPayrollJobs(refresher PeriodRefresher, interval time.Duration) *PayrollJobs {
	return &PayrollJobs{refresher: refresher, interval: interval}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("refresh_payroll_periods", j.interval, j.RefreshPeriods)
}

// RefreshPeriods recomputes employee count and total net salary for every
// period with records.
func (j *PayrollJobs) RefreshPeriods(ctx context.Context) error {
	count, err := j.refresher.RefreshPeriods(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh payroll periods: %w", err)
	}
	slog.Info("Cron: payroll periods refreshed", "periods", count)
	return nil
}
