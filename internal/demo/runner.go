// Package demo runs the scripted git demonstrations: an ordered list of named
// steps executed against one working directory, with merge conflicts handed to
// a resolution step instead of aborting the script.
package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitdemo.dev/gitdemo/internal/conflict"
	demoerrors "gitdemo.dev/gitdemo/internal/errors"
	"gitdemo.dev/gitdemo/internal/output"
)

// Step is one named unit of a demo script
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepError reports the step that aborted a script
type StepError struct {
	// Index is 1-based
	Index int
	Name  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index, e.Name, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// StepResult records how an executed step ended
type StepResult struct {
	Index    int
	Name     string
	Duration time.Duration
	// Resolution is set when the step stopped on conflicts that were resolved
	Resolution *Resolution
	Err        error
}

// Reporter receives progress as a script runs
type Reporter interface {
	StepStarted(index, total int, name string)
	StepCompleted(index int)
	StepFailed(index int, err error)
	ConflictsResolved(index int, resolution *Resolution)
}

// Runner executes steps in declared order
type Runner struct {
	name     string
	steps    []Step
	splog    *output.Splog
	reporter Reporter
	policy   *conflict.Policy
	repo     Repository
	results  []StepResult
}

// NewRunner creates a runner that reports progress through splog
func NewRunner(name string, splog *output.Splog) *Runner {
	return &Runner{
		name:     name,
		splog:    splog,
		reporter: &splogReporter{splog: splog},
	}
}

// Name returns the script name
func (r *Runner) Name() string {
	return r.name
}

// Add appends a step
func (r *Runner) Add(name string, run func(ctx context.Context) error) *Runner {
	r.steps = append(r.steps, Step{Name: name, Run: run})
	return r
}

// Steps returns the declared steps
func (r *Runner) Steps() []Step {
	return r.steps
}

// WithPolicy enables conflict resolution with policy.
// Without a policy a MergeConflictError aborts the script like any other error.
func (r *Runner) WithPolicy(policy conflict.Policy) *Runner {
	r.policy = &policy
	return r
}

// Policy returns the configured conflict policy, if any
func (r *Runner) Policy() (conflict.Policy, bool) {
	if r.policy == nil {
		return conflict.DefaultPolicy, false
	}
	return *r.policy, true
}

// WithReporter replaces the default splog reporter
func (r *Runner) WithReporter(reporter Reporter) *Runner {
	r.reporter = reporter
	return r
}

// Attach sets the repository conflicts are resolved in. Steps that create the
// repository call it once the handle exists.
func (r *Runner) Attach(repo Repository) {
	r.repo = repo
}

// Results returns the steps executed by the last Run, the failing one included
func (r *Runner) Results() []StepResult {
	return r.results
}

// Run executes every step in order. The first failure stops the script and is
// returned as a *StepError; later steps never run.
func (r *Runner) Run(ctx context.Context) error {
	r.results = nil
	total := len(r.steps)

	for i, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Index: i + 1, Name: step.Name, Err: err}
		}

		r.reporter.StepStarted(i+1, total, step.Name)
		start := time.Now()
		err := step.Run(ctx)

		result := StepResult{Index: i + 1, Name: step.Name}
		var conflictErr *demoerrors.MergeConflictError
		if errors.As(err, &conflictErr) && r.policy != nil && r.repo != nil {
			var resolution *Resolution
			resolution, err = ResolveConflicts(ctx, r.repo, conflictErr, *r.policy)
			if err == nil {
				result.Resolution = resolution
				r.reporter.ConflictsResolved(i+1, resolution)
			}
		}

		result.Duration = time.Since(start)
		result.Err = err
		r.results = append(r.results, result)

		if err != nil {
			r.reporter.StepFailed(i+1, err)
			return &StepError{Index: i + 1, Name: step.Name, Err: err}
		}
		r.reporter.StepCompleted(i + 1)
	}
	return nil
}

// Report logs a summary of the last Run
func (r *Runner) Report() {
	if r.splog == nil {
		return
	}
	completed := 0
	resolved := 0
	for _, res := range r.results {
		if res.Err == nil {
			completed++
		}
		if res.Resolution != nil {
			resolved++
		}
	}

	r.splog.Newline()
	if completed == len(r.steps) {
		r.splog.Success("%s demo finished: %d steps", r.name, completed)
	} else {
		r.splog.Error("%s demo stopped after %d of %d steps", r.name, completed, len(r.steps))
	}
	if resolved > 0 {
		r.splog.Info("Merge conflicts resolved in %d step(s)", resolved)
	}
}

// splogReporter prints progress through the console logger
type splogReporter struct {
	splog *output.Splog
}

func (s *splogReporter) StepStarted(index, total int, name string) {
	s.splog.Step(index, total, name)
}

func (s *splogReporter) StepCompleted(index int) {
	s.splog.Debug("step %d completed", index)
}

func (s *splogReporter) StepFailed(_ int, err error) {
	s.splog.Error("%v", err)
}

func (s *splogReporter) ConflictsResolved(_ int, resolution *Resolution) {
	styles := s.splog.Styles()
	s.splog.Warn("Merge of %s stopped on conflicts in %d file(s)", styles.Branch.Render(resolution.Branch), len(resolution.Files))
	for _, f := range resolution.Files {
		s.splog.Output(fmt.Sprintf("%s (%s)", f.Path, f.Method))
	}
	s.splog.Success("Resolved with the %s policy, merge commit %s", resolution.Policy, shortSHA(resolution.Commit))
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
