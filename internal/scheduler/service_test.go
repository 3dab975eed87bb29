package scheduler

import (
	"sync/atomic"
	"testing"

	"github.com/newsloom/newsloom/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs int32
}

func (j *countingJob) Run() error {
	atomic.AddInt32(&j.runs, 1)
	return nil
}

func TestService_StartAndStop(t *testing.T) {
	for _, schedule := range []string{"hourly", "daily"} {
		t.Run(schedule, func(t *testing.T) {
			svc := NewService(&config.Config{RefreshSchedule: schedule}, &countingJob{})

			require.NoError(t, svc.Start())
			svc.Stop()
		})
	}
}

func TestService_UnknownScheduleStillStarts(t *testing.T) {
	svc := NewService(&config.Config{RefreshSchedule: "sometimes"}, &countingJob{})

	require.NoError(t, svc.Start())
	svc.Stop()
}

func TestService_StopWithoutStart(t *testing.T) {
	svc := NewService(&config.Config{RefreshSchedule: "hourly"}, &countingJob{})
	assert.NotPanics(t, func() { svc.Stop() })
}
