package rate

import (
	"context"
	"errors"
	"fxsync/internal/domain"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultSyncInterval = 6 * time.Hour
	cycleStopTimeout    = 5 * time.Minute
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

type Status struct {
	State       State
	LastSuccess *time.Time
	NextRun     *time.Time
}

// Scheduler runs the basket sync on a fixed interval and on demand.
type Scheduler struct {
	svc      *Service
	interval time.Duration

	mu          sync.Mutex
	running     bool
	stopped     bool
	lastSuccess time.Time
	sched       gocron.Scheduler
	job         gocron.Job
	cycles      sync.WaitGroup
}

// RunCycle runs one sync cycle on ctx. It fails with domain.ErrCycleInProgress
// when another cycle has not finished yet and with domain.ErrSchedulerStopped
// once Shutdown was called.
func (s *Scheduler) RunCycle(ctx context.Context) (CycleReport, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return CycleReport{}, domain.ErrSchedulerStopped
	}
	if s.running {
		s.mu.Unlock()
		return CycleReport{}, domain.ErrCycleInProgress
	}
	s.running = true
	s.cycles.Add(1)
	s.mu.Unlock()
	defer s.cycles.Done()

	execID := uuid.NewString()
	report, err := syncBasket(ctx, execID, s.svc)
	result := report.Result()
	if err != nil {
		result = "failed"
		logrus.WithError(err).WithField("exec_id", execID).Error("Rate sync cycle failed")
	}

	finishedAt := s.svc.now()
	s.svc.metrics.RecordCycle(result, finishedAt)

	s.mu.Lock()
	s.running = false
	if result != "failed" {
		s.lastSuccess = finishedAt
	}
	s.mu.Unlock()
	return report, err
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{State: StateIdle}
	if s.running {
		st.State = StateRunning
	}
	if !s.lastSuccess.IsZero() {
		last := s.lastSuccess
		st.LastSuccess = &last
	}
	if s.job != nil {
		if next, err := s.job.NextRun(); err == nil && !next.IsZero() {
			st.NextRun = &next
		}
	}
	return st
}

// Start schedules the periodic cycle. The first run happens immediately when the
// freshest stored rate is older than the interval, otherwise one interval after it.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return domain.ErrSchedulerStopped
	}

	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithStopTimeout(cycleStopTimeout),
	)
	if err != nil {
		return err
	}

	startAt := s.firstRun(ctx)
	startOpt := gocron.WithStartImmediately()
	if !startAt.IsZero() {
		startOpt = gocron.WithStartDateTime(startAt)
		logrus.Infof("Rates are fresh, first sync at %s", startAt.Format(time.RFC3339))
	} else {
		logrus.Info("Rates are stale or missing, syncing now")
	}

	job, err := scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.scheduledCycle),
		gocron.WithName("exchange-rate-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(startOpt),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	s.mu.Lock()
	s.sched = scheduler
	s.job = job
	s.mu.Unlock()
	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) scheduledCycle(jobCtx context.Context) {
	// shutdown must not cut an in-flight cycle short
	ctx := context.WithoutCancel(jobCtx)
	_, err := s.RunCycle(ctx)
	switch {
	case errors.Is(err, domain.ErrCycleInProgress):
		logrus.Info("Previous sync cycle still running, tick skipped")
	case errors.Is(err, domain.ErrSchedulerStopped):
		logrus.Debug("Scheduler stopped, tick skipped")
	}
}

// firstRun returns the zero time when a cycle should start right away.
func (s *Scheduler) firstRun(ctx context.Context) time.Time {
	last, ok, err := s.svc.store.LatestUpdate(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read latest rate update, syncing now")
		return time.Time{}
	}
	return nextStart(last, ok, s.svc.now(), s.interval)
}

func nextStart(lastUpdate time.Time, ok bool, now time.Time, interval time.Duration) time.Time {
	if !ok {
		return time.Time{}
	}
	next := lastUpdate.Add(interval)
	// gocron rejects start times in the past
	if next.Sub(now) < time.Second {
		return time.Time{}
	}
	return next
}

// Shutdown stops future ticks and waits for a running cycle. Cycles requested
// afterwards are refused. It is safe to call more than once.
func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	s.stopped = true
	sched := s.sched
	s.sched = nil
	s.job = nil
	s.mu.Unlock()

	var err error
	if sched != nil {
		err = sched.Shutdown()
	}
	s.cycles.Wait()
	return err
}

func NewScheduler(svc *Service, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &Scheduler{svc: svc, interval: interval}
}
