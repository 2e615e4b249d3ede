package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) RefreshPeriods(context.Context) (int64, error) {
	c.calls.Add(1)
	return 3, c.err
}

func TestPayrollJobs_RunOnce(t *testing.T) {
	refresher := &countingRefresher{}
	scheduler := NewScheduler()
	NewPayrollJobs(refresher, time.Hour).RegisterJobs(scheduler)

	scheduler.RunOnce(context.Background())

	assert.Equal(t, int32(1), refresher.calls.Load())
}

func TestPayrollJobs_WrapsError(t *testing.T) {
	refresher := &countingRefresher{err: errors.New("db down")}

	err := NewPayrollJobs(refresher, time.Hour).RefreshPeriods(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "db down")
}

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	refresher := &countingRefresher{}
	scheduler := NewScheduler()
	NewPayrollJobs(refresher, time.Hour).RegisterJobs(scheduler)

	scheduler.Start()
	require.Eventually(t, func() bool { return refresher.calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	scheduler.Stop()

	assert.Equal(t, int32(1), refresher.calls.Load())
}

func TestScheduler_RecoversPanics(t *testing.T) {
	scheduler := NewScheduler()
	ran := false
	scheduler.AddJob("panics", time.Hour, func(context.Context) error { panic("boom") })
	scheduler.AddJob("after", time.Hour, func(context.Context) error { ran = true; return nil })

	assert.NotPanics(t, func() { scheduler.RunOnce(context.Background()) })
	assert.True(t, ran)
}
