package scenario

import (
	"io"
	"sync/atomic"

	"github.com/aretw0/lockstep"
	"github.com/aretw0/lockstep/pkg/domain"
)

// Result summarizes one script execution.
type Result struct {
	// Steps is the number of steps executed before the script ended.
	Steps int
	// Mismatches and Failures count the reports raised while running.
	Mismatches int
	Failures   int
	// Canceled is set when the script's cancel policy aborted the run.
	Canceled bool
}

// Passed reports whether the run completed without any report.
func (r Result) Passed() bool {
	return !r.Canceled && r.Mismatches == 0 && r.Failures == 0
}

// Runner executes a script against a subject program.
type Runner struct {
	script *Script

	// Output overrides the session's report writer when non-nil.
	Output io.Writer
	// Hooks are chained onto the runner's own counting hooks.
	Hooks domain.LifecycleHooks
}

// NewRunner returns a runner for the given script. The script must have
// been validated (Load and Parse do this).
func NewRunner(script *Script) *Runner {
	return &Runner{script: script}
}

// Run starts entry as the subject and plays the script against it. The
// subject is forced out at the end of the script, so a passing run
// never leaves it blocked. A cancellation raised by the script's cancel
// policy is absorbed into the result instead of unwinding the caller.
func (r *Runner) Run(entry func()) Result {
	var mismatches, failures atomic.Int64

	opts, err := r.script.Settings.Options()
	if err != nil {
		// Validate catches this for every script built through Parse.
		panic("scenario: " + err.Error())
	}
	if r.Output != nil {
		opts = append(opts, lockstep.WithOutput(r.Output))
	}
	opts = append(opts, lockstep.WithHooks(domain.LifecycleHooks{
		OnReport: func(ev *domain.ReportEvent) {
			if ev.Kind == domain.ReportMismatch {
				mismatches.Add(1)
			} else {
				failures.Add(1)
			}
		},
	}), lockstep.WithHooks(r.Hooks))

	var result Result
	result.Canceled = !r.play(entry, opts, &result.Steps)
	result.Mismatches = int(mismatches.Load())
	result.Failures = int(failures.Load())
	return result
}

// play runs the steps and reports false when the session's cancel
// policy unwound the script.
func (r *Runner) play(entry func(), opts []lockstep.Option, steps *int) (completed bool) {
	s := lockstep.Start(entry, opts...)
	defer s.EnforceExit()
	defer func() {
		if cause := recover(); cause != nil {
			if _, ok := cause.(*lockstep.CancelError); ok {
				return
			}
			panic(cause)
		}
		completed = true
	}()

	for _, step := range r.script.Steps {
		*steps++
		runStep(s, step)
	}
	return
}

func runStep(s *lockstep.Session, step Step) bool {
	switch {
	case step.ExpectExit:
		if step.Send != nil {
			return s.TestExit(*step.Send, messageArgs(step)...)
		}
		return s.ExpectExit(messageArgs(step)...)

	case step.ExpectList != nil:
		opts := listOptions(step)
		if step.Send != nil {
			return s.TestList(*step.Send, step.ExpectList, opts...)
		}
		return s.AssertList(step.ExpectList, opts...)

	case step.Expect != nil && step.Prefix:
		if step.Send != nil {
			return s.TestPrefix(*step.Send, *step.Expect, messageArgs(step)...)
		}
		return s.AssertPrefix(*step.Expect, messageArgs(step)...)

	case step.Expect != nil:
		if step.Send != nil {
			return s.TestOutput(*step.Send, *step.Expect, messageArgs(step)...)
		}
		return s.AssertOutput(*step.Expect, messageArgs(step)...)

	default:
		s.SendInput(*step.Send)
		return true
	}
}

func listOptions(step Step) []lockstep.MatchOption {
	var opts []lockstep.MatchOption
	if step.Prefix {
		opts = append(opts, lockstep.MatchPrefix())
	}
	if step.AnyOrder {
		opts = append(opts, lockstep.MatchAnyOrder())
	}
	if step.Message != "" {
		opts = append(opts, lockstep.MatchMessage(step.Message))
	}
	return opts
}

func messageArgs(step Step) []any {
	if step.Message == "" {
		return nil
	}
	return []any{step.Message}
}
