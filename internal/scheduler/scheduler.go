package scheduler

import (
	"sync"
	"time"

	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/worker"
)

// Scheduler manages scheduled jobs
type Scheduler struct {
	workerPool *worker.Pool
	quit       chan struct{}
	wg         sync.WaitGroup

	mu      sync.Mutex
	keyed   map[string]chan struct{}
	stopped bool
}

// New creates a new scheduler
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
		keyed:      make(map[string]chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval until Stop
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.start(interval, job, nil)
}

// ScheduleKeyed registers a job under key. It returns false when key is
// already scheduled or the scheduler is stopped.
func (s *Scheduler) ScheduleKeyed(key string, interval time.Duration, job worker.Job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	if _, exists := s.keyed[key]; exists {
		return false
	}
	cancel := make(chan struct{})
	s.keyed[key] = cancel
	s.start(interval, job, cancel)
	logger.Debug(LogMsgJobScheduled, "key", key, "interval", interval)
	return true
}

// Cancel stops the job registered under key
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancel, ok := s.keyed[key]
	if !ok {
		return false
	}
	close(cancel)
	delete(s.keyed, key)
	logger.Debug(LogMsgJobCancelled, "key", key)
	return true
}

// Scheduled reports whether key has a live registration
func (s *Scheduler) Scheduled(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keyed[key]
	return ok
}

// start runs the ticker loop; cancel may be nil. Callers hold s.mu.
func (s *Scheduler) start(interval time.Duration, job worker.Job, cancel <-chan struct{}) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				// Skip the tick rather than pile up behind a slow pool
				if !s.workerPool.TryEnqueue(job) {
					logger.Warn(LogMsgTickSkipped, "interval", interval)
				}
			case <-cancel:
				return
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.keyed = make(map[string]chan struct{})
	close(s.quit)
	s.mu.Unlock()
	s.wg.Wait()
}
