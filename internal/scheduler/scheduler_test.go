package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/storefront/internal/testing/leaktest"
	"github.com/osse101/storefront/internal/worker"
)

// MockJob is a simple job for testing
type MockJob struct {
	RunCount int32
	Done     chan struct{}
}

func (m *MockJob) Process(ctx context.Context) error {
	atomic.AddInt32(&m.RunCount, 1)
	// Signal that job ran
	select {
	case m.Done <- struct{}{}:
	default:
	}
	return nil
}

func waitRuns(t *testing.T, job *MockJob, n int) {
	t.Helper()
	timeout := time.After(time.Second)
	for runs := 0; runs < n; runs++ {
		select {
		case <-job.Done:
		case <-timeout:
			t.Fatal("Timeout waiting for job execution")
		}
	}
}

func TestScheduler(t *testing.T) {
	// Create worker pool
	pool := worker.NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)
	defer sched.Stop()

	job := &MockJob{Done: make(chan struct{}, 10)}

	// Schedule job every 10ms
	sched.Schedule(10*time.Millisecond, job)

	waitRuns(t, job, 2)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&job.RunCount), int32(2))
}

func TestScheduleKeyed_OnePerKey(t *testing.T) {
	pool := worker.NewPool(1, 10)
	pool.Start()
	defer pool.Stop()
	sched := New(pool)
	defer sched.Stop()

	job := &MockJob{Done: make(chan struct{}, 10)}

	assert.True(t, sched.ScheduleKeyed("price_check:u1", 10*time.Millisecond, job))
	assert.False(t, sched.ScheduleKeyed("price_check:u1", 10*time.Millisecond, job))
	assert.True(t, sched.Scheduled("price_check:u1"))

	waitRuns(t, job, 1)
}

func TestScheduleKeyed_Cancel(t *testing.T) {
	pool := worker.NewPool(1, 10)
	pool.Start()
	defer pool.Stop()
	sched := New(pool)
	defer sched.Stop()

	job := &MockJob{Done: make(chan struct{}, 100)}
	sched.ScheduleKeyed("k", 5*time.Millisecond, job)
	waitRuns(t, job, 1)

	assert.True(t, sched.Cancel("k"))
	assert.False(t, sched.Cancel("k"))
	assert.False(t, sched.Scheduled("k"))

	// let any tick already queued drain, then verify no further runs
	time.Sleep(20 * time.Millisecond)
	before := atomic.LoadInt32(&job.RunCount)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, before, atomic.LoadInt32(&job.RunCount))

	// the key can be scheduled again
	assert.True(t, sched.ScheduleKeyed("k", 5*time.Millisecond, job))
}

func TestScheduler_StopReleasesGoroutines(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	pool := worker.NewPool(2, 10)
	pool.Start()
	sched := New(pool)
	job := &MockJob{Done: make(chan struct{}, 10)}
	sched.Schedule(time.Millisecond, job)
	sched.ScheduleKeyed("a", time.Millisecond, job)
	sched.ScheduleKeyed("b", time.Millisecond, job)

	sched.Stop()
	sched.Stop()
	pool.Stop()

	assert.False(t, sched.ScheduleKeyed("c", time.Millisecond, job))
	checker.Check(0)
}
