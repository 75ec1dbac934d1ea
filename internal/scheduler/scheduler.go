package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"trd/internal/models"
	"trd/internal/providers"
	"trd/internal/scheduler/interfaces"
	"trd/internal/structures"
)

const (
	MinIntervalMinutes = 5
	MaxIntervalMinutes = 1440
)

var ErrIntervalOutOfRange = fmt.Errorf("interval must be between %d and %d minutes", MinIntervalMinutes, MaxIntervalMinutes)

// Scheduler drives periodic ingestion: one cycle right away, then a fixed
// delay measured from the end of each cycle. At most one loop exists.
type Scheduler struct {
	state   *State
	runner  interfaces.CycleRunnerInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	unit    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(state *State, runner interfaces.CycleRunnerInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Scheduler {
	return &Scheduler{
		state:   state,
		runner:  runner,
		logger:  logger,
		metrics: metrics,
		unit:    time.Minute,
	}
}

func NewState(conf *structures.Config) *State {
	return newState(conf.Scheduler.IntervalMinutes)
}

func ValidateInterval(minutes int) error {
	if minutes < MinIntervalMinutes || minutes > MaxIntervalMinutes {
		return fmt.Errorf("%w: got %d", ErrIntervalOutOfRange, minutes)
	}
	return nil
}

// Start launches the loop. It returns false without error when a loop is
// already running; the running interval is left unchanged in that case.
func (s *Scheduler) Start(intervalMinutes int) (bool, error) {
	if err := ValidateInterval(intervalMinutes); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return false, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.state.setRunning(true, intervalMinutes)
	s.metrics.SetSchedulerRunning(true)

	go s.loop(ctx, time.Duration(intervalMinutes)*s.unit, done)

	s.logger.Infof(providers.TypeScheduler, "Scheduler started, interval %d minutes", intervalMinutes)
	return true, nil
}

// Stop cancels the pending wait. A cycle already in flight finishes but is
// not followed by another one. Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.state.setRunning(false, 0)
	s.metrics.SetSchedulerRunning(false)
	s.logger.Infof(providers.TypeScheduler, "Scheduler stopped")
}

func (s *Scheduler) Status() models.SchedulerStatus {
	return s.state.Snapshot()
}

// Shutdown stops the scheduler and waits for the loop goroutine, including
// any in-flight cycle, to finish or for ctx to expire.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stopLocked()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("scheduler loop did not exit"), ctx.Err())
	}
}

func (s *Scheduler) loop(ctx context.Context, delay time.Duration, done chan struct{}) {
	defer close(done)

	for {
		s.runOnce(context.WithoutCancel(ctx))
		if ctx.Err() != nil {
			return
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf(providers.TypeScheduler, "Scheduled cycle panicked: %v", r)
		}
	}()

	result := s.runner.RunCycle(ctx)
	if !result.Success {
		s.logger.Warnf(providers.TypeScheduler, "Scheduled cycle failed: %s", result.Error)
		return
	}
	s.logger.Infof(providers.TypeScheduler, "Scheduled cycle done: %d sources, %d items", result.Sources, result.ItemsCount)
}
