package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalSchedulerRunsImmediatelyAndRepeats(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("test", 3*60*60)
	s := NewIntervalScheduler(10*time.Millisecond, loc)

	var runs atomic.Int32
	var zoneOK atomic.Bool
	zoneOK.Store(true)
	job := func(tick time.Time) {
		if tick.Location() != loc {
			zoneOK.Store(false)
		}
		runs.Add(1)
	}

	require.NoError(t, s.Start(context.Background(), job))
	require.NoError(t, s.Start(context.Background(), job))
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
	assert.True(t, zoneOK.Load())

	require.NoError(t, s.Stop(context.Background()))
}

func TestIntervalSchedulerStopsWithContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewIntervalScheduler(time.Hour, nil)

	started := make(chan struct{}, 1)
	require.NoError(t, s.Start(ctx, func(time.Time) { started <- struct{}{} }))
	<-started
	cancel()

	require.NoError(t, s.Stop(context.Background()))
}

func TestIntervalSchedulerStopTimesOutOnSlowJob(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	s := NewIntervalScheduler(time.Hour, time.UTC)
	require.NoError(t, s.Start(context.Background(), func(time.Time) {
		close(started)
		<-release
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Stop(ctx), context.DeadlineExceeded)
	close(release)
}

func TestIntervalSchedulerRejectsBadInterval(t *testing.T) {
	t.Parallel()

	assert.Error(t, NewIntervalScheduler(0, nil).Start(context.Background(), func(time.Time) {}))
	assert.NoError(t, NewIntervalScheduler(0, nil).Start(context.Background(), nil))
}
