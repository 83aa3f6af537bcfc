// internal/app/system/tasks/runner.go
//
// Package tasks runs the site's periodic maintenance work: pruning OAuth
// state and mailing the pending-inquiry digest.
package tasks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrJobNotFound is returned by RunOnce for an unregistered job name.
var ErrJobNotFound = errors.New("job not found")

// defaultRunTimeout bounds a single run when the job sets no Timeout.
const defaultRunTimeout = 5 * time.Minute

// Job is one periodic task. It runs after Delay, then every Interval.
// A non-positive Interval disables the job.
type Job struct {
	Name     string
	Interval time.Duration
	Delay    time.Duration
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

func (j Job) timeout() time.Duration {
	if j.Timeout > 0 {
		return j.Timeout
	}
	return defaultRunTimeout
}

// Result is the outcome of a job's most recent run.
type Result struct {
	At       time.Time
	Duration time.Duration
	Err      error
}

// Runner schedules registered jobs on their own goroutines.
type Runner struct {
	logger *zap.Logger
	jobs   []Job
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu      sync.Mutex
	active  map[string]struct{}
	results map[string]Result
}

// New creates an empty runner.
func New(logger *zap.Logger) *Runner {
	return &Runner{
		logger:  logger,
		active:  make(map[string]struct{}),
		results: make(map[string]Result),
	}
}

// Register adds job. Disabled jobs are logged and dropped.
func (r *Runner) Register(job Job) {
	if job.Interval <= 0 {
		r.logger.Info("background job disabled", zap.String("job", job.Name))
		return
	}
	r.jobs = append(r.jobs, job)
}

// Jobs lists the registered job names in registration order.
func (r *Runner) Jobs() []string {
	names := make([]string, 0, len(r.jobs))
	for _, j := range r.jobs {
		names = append(names, j.Name)
	}
	return names
}

// Start schedules every registered job.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}
	r.logger.Info("background task runner started", zap.Strings("jobs", r.Jobs()))
}

// Stop cancels the schedule and waits for in-flight runs until ctx is
// done, in which case it returns ctx.Err().
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("background task runner stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("background task runner shutdown timed out",
			zap.Strings("still_running", r.Active()))
		return ctx.Err()
	}
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	wait := job.Delay
	for {
		if wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		} else if ctx.Err() != nil {
			return
		}
		r.execute(ctx, job)
		wait = job.Interval
	}
}

func (r *Runner) execute(ctx context.Context, job Job) {
	r.mu.Lock()
	r.active[job.Name] = struct{}{}
	r.mu.Unlock()

	log := r.logger.With(zap.String("job", job.Name))
	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, job.timeout())
	err := job.Run(runCtx)
	cancel()
	res := Result{At: start, Duration: time.Since(start), Err: err}

	r.mu.Lock()
	delete(r.active, job.Name)
	r.results[job.Name] = res
	r.mu.Unlock()

	switch {
	case err == nil:
		log.Debug("job completed", zap.Duration("duration", res.Duration))
	case ctx.Err() != nil:
		log.Debug("job cancelled during shutdown", zap.Duration("duration", res.Duration))
	default:
		log.Error("job failed", zap.Duration("duration", res.Duration), zap.Error(err))
	}
}

// Active returns the sorted names of jobs running right now.
func (r *Runner) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.active))
	for n := range r.active {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LastResult returns the outcome of the most recent scheduled run of name.
func (r *Runner) LastResult(name string) (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[name]
	return res, ok
}

// RunOnce runs the named job now, outside the schedule.
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			runCtx, cancel := context.WithTimeout(ctx, job.timeout())
			defer cancel()
			return job.Run(runCtx)
		}
	}
	return ErrJobNotFound
}
