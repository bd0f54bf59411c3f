// Package worker runs the periodic background sweeps: trial expiry,
// scheduled campaign launches, and due report generation. One scheduler per
// process; a distributed lock keeps multi-instance deployments from double
// running a sweep.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/pkg/distlock"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/pkg/logger"
)

// DefaultPollInterval is how often the scheduler wakes up.
const DefaultPollInterval = time.Minute

// SweepFunc is one pass of a background job. It returns how many items it
// acted on.
type SweepFunc func(ctx context.Context) (int, error)

type sweep struct {
	name string
	run  SweepFunc
}

// Scheduler polls on a fixed interval, takes the cluster lock, and runs its
// sweeps in registration order. A failing sweep is logged and does not stop
// the others.
type Scheduler struct {
	lock         distlock.Lock
	pollInterval time.Duration
	sweeps       []sweep

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(lock distlock.Lock, pollInterval time.Duration) *Scheduler {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Scheduler{lock: lock, pollInterval: pollInterval}
}

// AddSweep registers a named job. Call before Start.
func (s *Scheduler) AddSweep(name string, fn SweepFunc) {
	s.sweeps = append(s.sweeps, sweep{name: name, run: fn})
}

// Start begins the polling loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(context.Background())

	logger.Info("scheduler starting", "poll_interval", s.pollInterval.String(), "sweeps", len(s.sweeps))
	s.wg.Add(1)
	go s.loop()
	return nil
}

// Stop cancels the loop and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	logger.Info("scheduler stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(s.ctx)
		}
	}
}

// RunOnce executes one full pass under the cluster lock. Exported so tests
// and operational tooling can trigger a pass without the ticker.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ok, err := s.lock.TryAcquire(ctx)
	if err != nil {
		logger.Warn("scheduler lock error", "error", err.Error())
		return
	}
	if !ok {
		// Another instance holds the lock this round.
		return
	}
	defer func() {
		if err := s.lock.Release(ctx); err != nil {
			logger.Warn("scheduler lock release failed", "error", err.Error())
		}
	}()

	for _, sw := range s.sweeps {
		n, err := sw.run(ctx)
		if err != nil {
			logger.Warn("sweep failed", "sweep", sw.name, "error", err.Error())
			continue
		}
		if n > 0 {
			logger.Info("sweep done", "sweep", sw.name, "acted_on", n)
		}
	}
}
