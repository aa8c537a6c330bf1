package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// Scheduler drives the pipeline jobs from a single tick loop. Each tick it
// walks the jobs in JobOrder and runs the ones whose interval has elapsed
// since their last successful run. A job that fails keeps its previous
// last-run timestamp, so it is retried on every subsequent tick until it
// succeeds.
type Scheduler struct {
	store  RunStateStore
	tick   time.Duration
	logger *zap.SugaredLogger

	// onTrainingSuccess is invoked after the training job succeeds, so the
	// serving path picks up the newly registered model.
	onTrainingSuccess func(ctx context.Context) error

	clock func() time.Time

	mu     sync.Mutex
	jobs   map[JobName]*Job
	states map[JobName]RunState

	trigger chan JobName

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// New creates a scheduler over the given jobs. Execution order always
// follows JobOrder regardless of the slice order.
func New(store RunStateStore, jobs []Job, tick time.Duration, logger *zap.SugaredLogger) *Scheduler {
	byName := make(map[JobName]*Job, len(jobs))
	for i := range jobs {
		job := jobs[i]
		byName[job.Name] = &job
	}
	return &Scheduler{
		store:   store,
		tick:    tick,
		logger:  logger,
		clock:   time.Now,
		jobs:    byName,
		states:  make(map[JobName]RunState),
		trigger: make(chan JobName, len(JobOrder)),
	}
}

// SetReloadHook registers the callback invoked after each training success.
// Must be called before Start.
func (s *Scheduler) SetReloadHook(hook func(ctx context.Context) error) {
	s.onTrainingSuccess = hook
}

// Start loads persisted run state and launches the tick loop. A store that
// cannot be read is logged and treated as empty: scheduling degrades to
// running everything rather than running nothing.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("scheduler already started")
	}
	s.started = true
	s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(context.Background())

	states, err := s.store.Load(s.ctx)
	if err != nil {
		s.logger.Warnw("Failed to load run state, starting fresh", "error", err)
		states = make(map[JobName]RunState)
	}
	s.mu.Lock()
	for name, state := range states {
		if _, known := s.jobs[name]; known {
			s.states[name] = state
		}
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop()

	s.logger.Infow("Scheduler started", "tick", s.tick, "jobs", len(s.jobs))
	return nil
}

// Stop cancels the loop and waits for any in-flight job to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.logger.Infow("Scheduler stopped")
}

// TriggerJob requests an immediate run of one job, bypassing its interval.
// The run happens on the scheduler goroutine, never concurrently with a
// scheduled run.
func (s *Scheduler) TriggerJob(name JobName) error {
	s.mu.Lock()
	_, known := s.jobs[name]
	started := s.started
	s.mu.Unlock()

	if !known {
		return errors.Wrapf(errors.ErrInvalidRequest, "unknown job %q", name)
	}
	if !started {
		return errors.New("scheduler not running")
	}

	select {
	case s.trigger <- name:
		return nil
	default:
		return errors.Wrapf(errors.ErrServiceUnavailable, "trigger queue full for %q", name)
	}
}

// UpdateInterval changes a job's interval. Takes effect from the next tick.
func (s *Scheduler) UpdateInterval(name JobName, interval time.Duration) error {
	if interval <= 0 {
		return errors.Wrapf(errors.ErrInvalidRequest, "interval must be positive, got %s", interval)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	job, known := s.jobs[name]
	if !known {
		return errors.Wrapf(errors.ErrInvalidRequest, "unknown job %q", name)
	}
	job.Interval = interval
	return nil
}

// Status reports every job's interval, last run and next due time, in
// execution order. NextDueAt is nil for jobs that have never run.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for _, name := range JobOrder {
		job, known := s.jobs[name]
		if !known {
			continue
		}
		status := JobStatus{
			Name:       name,
			Interval:   job.Interval.String(),
			LastStatus: StatusNever,
		}
		if state, ok := s.states[name]; ok {
			status.LastStatus = state.LastStatus
			if state.LastRunAt != nil {
				last := *state.LastRunAt
				status.LastRunAt = &last
				next := last.Add(job.Interval)
				status.NextDueAt = &next
			}
		}
		out = append(out, status)
	}
	return out
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	// Run once immediately so jobs that were due while the process was
	// down catch up at startup instead of waiting a full tick.
	s.runDue(s.ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runDue(s.ctx)
		case name := <-s.trigger:
			s.logger.Infow("Manual trigger", "job", name)
			s.runJob(s.ctx, name)
		}
	}
}

// runDue walks the jobs in order and runs each one that is due. The context
// is checked between jobs so shutdown never starts another job.
func (s *Scheduler) runDue(ctx context.Context) {
	now := s.clock()
	for _, name := range JobOrder {
		if ctx.Err() != nil {
			return
		}
		if s.isDue(name, now) {
			s.runJob(ctx, name)
		}
	}
}

// isDue reports whether the job's interval has elapsed since its last
// successful run. A job with no recorded run is always due.
func (s *Scheduler) isDue(name JobName, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, known := s.jobs[name]
	if !known {
		return false
	}
	state, ok := s.states[name]
	if !ok || state.LastRunAt == nil {
		return true
	}
	return now.Sub(*state.LastRunAt) >= job.Interval
}

func (s *Scheduler) runJob(ctx context.Context, name JobName) {
	s.mu.Lock()
	job, known := s.jobs[name]
	s.mu.Unlock()
	if !known {
		return
	}

	start := s.clock()
	err := job.Action(ctx)
	elapsed := s.clock().Sub(start)

	s.mu.Lock()
	state := s.states[name]
	state.JobName = name
	prevLastRun := state.LastRunAt
	if err != nil {
		// Keep the previous last-run timestamp: the job stays due and is
		// retried next tick.
		state.LastStatus = StatusFailure
	} else {
		completed := s.clock()
		state.LastRunAt = &completed
		state.LastStatus = StatusSuccess
	}
	state.UpdatedAt = s.clock()
	s.states[name] = state
	s.mu.Unlock()

	if err != nil {
		s.logger.Errorw("Job failed", "job", name, "elapsed", elapsed, "error", err)
	} else {
		s.logger.Infow("Job complete", "job", name, "elapsed", elapsed)
	}

	// The durable copy is the source of truth. An advance that cannot be
	// persisted is rolled back, so the job stays due on every tick until a
	// save goes through. While the store is unreachable there is no
	// interval throttling; that is the cost of failing open.
	if saveErr := s.store.Save(ctx, state); saveErr != nil {
		s.logger.Warnw("Failed to persist run state, keeping job due", "job", name, "error", saveErr)
		if err == nil {
			s.mu.Lock()
			st := s.states[name]
			st.LastRunAt = prevLastRun
			s.states[name] = st
			s.mu.Unlock()
		}
	}

	if err == nil && name == JobTraining && s.onTrainingSuccess != nil {
		if hookErr := s.onTrainingSuccess(ctx); hookErr != nil {
			s.logger.Errorw("Model reload after training failed", "error", hookErr)
		} else {
			s.logger.Infow("Model reloaded after training")
		}
	}
}
