package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Status is the position of a run in its lifecycle:
// NotStarted -> Running -> Completed | Failed.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusRunning    Status = "running"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	// StatusSkipped marks steps that never ran because an earlier step failed.
	StatusSkipped Status = "skipped"
)

// ErrAlreadyStarted is returned when Run is called more than once.
var ErrAlreadyStarted = errors.New("bootstrap run already started")

// StepError reports which step ended a run.
type StepError struct {
	Position int // 1-based
	Name     string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Position, e.Name, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// StepResult is the outcome of one step.
type StepResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
	// Ignored is set when the step failed but continue_on_error applied.
	Ignored bool `json:"ignored,omitempty"`
}

// Report summarizes a run.
type Report struct {
	ID       string       `json:"id"`
	Plan     string       `json:"plan"`
	Status   Status       `json:"status"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
	Steps    []StepResult `json:"steps"`
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Runner executes bootstrap steps sequentially. A Runner is single-use.
type Runner struct {
	plan    string
	steps   []Step
	exec    Executor
	log     logr.Logger
	metrics *Metrics
	ignore  map[string]bool
	now     func() time.Time

	mu     sync.Mutex
	status Status
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(log logr.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithMetrics records step durations and results.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithContinueOnError lets the named steps fail without ending the run.
func WithContinueOnError(names ...string) Option {
	return func(r *Runner) {
		for _, n := range names {
			r.ignore[n] = true
		}
	}
}

// WithPlanName labels the report.
func WithPlanName(name string) Option {
	return func(r *Runner) { r.plan = name }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a runner for steps, executed through exec.
func NewRunner(exec Executor, steps []Step, opts ...Option) *Runner {
	r := &Runner{
		steps:  steps,
		exec:   exec,
		log:    logr.Discard(),
		ignore: make(map[string]bool),
		now:    time.Now,
		status: StatusNotStarted,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Status returns the current lifecycle position.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Runner) setStatus(s Status) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

// Run executes every step in order. It stops at the first failure that is
// not covered by continue_on_error and returns a *StepError for it. The
// returned report is always non-nil once the run has started.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	r.mu.Lock()
	if r.status != StatusNotStarted {
		r.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	r.status = StatusRunning
	r.mu.Unlock()

	report := &Report{
		ID:      uuid.NewString(),
		Plan:    r.plan,
		Status:  StatusRunning,
		Started: r.now(),
		Steps:   make([]StepResult, len(r.steps)),
	}
	for i, step := range r.steps {
		report.Steps[i] = StepResult{Name: step.Name(), Status: StatusNotStarted}
	}

	log := r.log.WithValues("run", report.ID)
	log.Info("starting bootstrap", "steps", len(r.steps))

	runErr := r.runSteps(ctx, log, report)

	report.Finished = r.now()
	if runErr != nil {
		report.Status = StatusFailed
		log.Error(runErr, "bootstrap failed", "duration", report.Duration().Round(time.Millisecond))
	} else {
		report.Status = StatusCompleted
		log.Info("bootstrap completed", "duration", report.Duration().Round(time.Millisecond))
	}
	r.setStatus(report.Status)
	r.metrics.observeRun(report.Status)

	return report, runErr
}

func (r *Runner) runSteps(ctx context.Context, log logr.Logger, report *Report) error {
	sc := &StepContext{Exec: r.exec}

	for i, step := range r.steps {
		name := step.Name()
		if err := ctx.Err(); err != nil {
			markSkipped(report.Steps[i:])
			return &StepError{Position: i + 1, Name: name, Err: err}
		}

		stepLog := log.WithValues("step", name, "position", fmt.Sprintf("%d/%d", i+1, len(r.steps)))
		sc.Log = stepLog
		stepLog.Info("step starting")

		report.Steps[i].Status = StatusRunning
		start := r.now()
		err := step.Run(ctx, sc)
		elapsed := r.now().Sub(start)

		res := &report.Steps[i]
		res.Duration = elapsed

		if err == nil {
			res.Status = StatusCompleted
			r.metrics.observeStep(name, StatusCompleted, elapsed)
			stepLog.Info("step completed", "duration", elapsed.Round(time.Millisecond))
			continue
		}

		res.Status = StatusFailed
		res.Error = err.Error()
		r.metrics.observeStep(name, StatusFailed, elapsed)

		if r.ignore[name] && ctx.Err() == nil {
			res.Ignored = true
			stepLog.Error(err, "step failed, continuing")
			continue
		}

		stepLog.Error(err, "step failed")
		markSkipped(report.Steps[i+1:])
		return &StepError{Position: i + 1, Name: name, Err: err}
	}
	return nil
}

func markSkipped(results []StepResult) {
	for i := range results {
		results[i].Status = StatusSkipped
	}
}
