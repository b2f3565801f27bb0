package lockstep

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/lockstep/internal/logging"
	"github.com/aretw0/lockstep/internal/report"
	"github.com/aretw0/lockstep/internal/runtime"
	"github.com/aretw0/lockstep/pkg/domain"
)

// DefaultTimeout is the driver-side wait bound applied when no
// WithTimeout option is given. The subject side always waits twice the
// configured bound.
const DefaultTimeout = 100 * time.Millisecond

// Session is the driver's handle on one program-under-test. It is
// created by Start and owned exclusively by the driver; only
// EnforceExit crosses over to the subject's goroutine.
type Session struct {
	mu         sync.Mutex
	rt         *runtime.Session
	rep        *report.Reporter
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	out        io.Writer
	timeout    time.Duration
	verbosity  domain.Verbosity
	cancelMode domain.CancelMode
}

// Option defines a functional option for configuring a session.
type Option func(*Session)

// WithTimeout sets the driver-side wait bound. Must be positive.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d <= 0 {
			panic("lockstep: timeout must be positive")
		}
		s.timeout = d
	}
}

// WithVerbosity sets the print policy (default: domain.PrintAll).
func WithVerbosity(v domain.Verbosity) Option {
	return func(s *Session) {
		mustValidate(v.Validate())
		s.verbosity = v
	}
}

// WithCancelMode sets the cancellation policy (default: domain.CancelNever).
func WithCancelMode(m domain.CancelMode) Option {
	return func(s *Session) {
		mustValidate(m.Validate())
		s.cancelMode = m
	}
}

// WithOutput redirects the harness's echo and reports (default: os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(s *Session) { s.out = w }
}

// WithLogger sets a custom structured logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) { s.hooks = s.hooks.Chain(hooks) }
}

func mustValidate(err error) {
	if err != nil {
		panic("lockstep: " + err.Error())
	}
}

// At most one session is active per process. Start replaces the active
// session after forcing the previous subject to exit, so there is never
// more than one live subject.
var (
	sessionMu sync.Mutex
	active    atomic.Pointer[Session]
)

// Start begins a test session running entry as the subject. A previous
// session that is still running is terminated first.
//
// The entry action must not recover blanket panics: the harness stops
// the subject by unwinding its intercepted console calls, and a broad
// recover would defeat forced termination.
func Start(entry func(), opts ...Option) *Session {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if prev := active.Load(); prev != nil {
		prev.EnforceExit()
	}

	s := &Session{
		out:        os.Stdout,
		timeout:    DefaultTimeout,
		verbosity:  domain.PrintAll,
		cancelMode: domain.CancelNever,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.rep = report.New(s.out, s.verbosity)
	s.rt = runtime.New(runtime.Config{
		Timeout: s.timeout,
		Echo:    s.rep.Echo,
		Mismatch: func(message string) {
			// Subject-side mismatches (unanswered output, unanswered
			// read) are report-only: cancellation is a driver-side
			// escalation and must not unwind the subject.
			s.rep.Report(domain.ReportMismatch, message)
			s.fireReport(domain.ReportMismatch, message)
		},
		Logger: s.logger,
	})

	active.Store(s)
	if s.hooks.OnSessionStart != nil {
		s.hooks.OnSessionStart(eventBase(domain.EventSessionStart))
	}
	s.logger.Debug("test session started", "timeout", s.timeout)
	s.rt.Start(entry)
	return s
}

// EnforceExit sets the termination flag and wakes the subject if it is
// blocked in an intercepted call. It returns immediately; the subject
// stops the next time it touches the console surface. Use ExpectExit
// to wait for confirmation.
func (s *Session) EnforceExit() {
	s.rt.Interrupt()
}

// SetTimeout adjusts how long driver-side operations wait for the
// subject. Panics unless d is positive.
func (s *Session) SetTimeout(d time.Duration) {
	if d <= 0 {
		panic("lockstep: timeout must be positive")
	}
	s.mu.Lock()
	s.timeout = d
	s.mu.Unlock()
	s.rt.SetTimeout(d)
}

// SetVerbosity adjusts the print policy.
func (s *Session) SetVerbosity(v domain.Verbosity) {
	mustValidate(v.Validate())
	s.rep.SetVerbosity(v)
}

// SetCancelMode adjusts the cancellation policy.
func (s *Session) SetCancelMode(m domain.CancelMode) {
	mustValidate(m.Validate())
	s.mu.Lock()
	s.cancelMode = m
	s.mu.Unlock()
}

// SendInput defines the input the subject receives from its next
// ReadLine call. Blocks at most the configured timeout; if the subject
// is not waiting for input by then, a mismatch is reported.
func (s *Session) SendInput(input string) {
	if s.rt.OfferInput(input) {
		s.fireExchange(domain.EventInput, input)
		return
	}
	s.report(domain.ReportMismatch, "expected to be waiting for next input")
}

// ReceiveOutput returns the subject's next printed line. Blocks at most
// the configured timeout for the subject to reach its write; if no
// output arrives, a mismatch is reported and ok is false.
func (s *Session) ReceiveOutput() (out string, ok bool) {
	return s.receiveOutput("additional output expected")
}

func (s *Session) receiveOutput(message string) (string, bool) {
	out, ok := s.rt.PollOutput()
	if !ok {
		s.report(domain.ReportMismatch, message)
		return "", false
	}
	s.fireExchange(domain.EventOutput, out)
	return out, true
}

// ExpectExit reports whether the subject terminates as its next action.
// A subject that already died with no observed signal counts as a
// mismatch ("program already terminated").
func (s *Session) ExpectExit(msgAndArgs ...any) bool {
	message := messageOr("program exit expected", msgAndArgs)
	if !s.rt.Alive() {
		s.report(domain.ReportMismatch, "program already terminated")
		return false
	}
	sig, ok := s.rt.PollExit()
	if !ok || sig.Kind != domain.ExitNormal {
		s.report(domain.ReportFailure, message)
		return false
	}
	s.fireExit(sig)
	return true
}

// ExpectFailure reports whether the subject's next action is to die
// from an uncaught panic whose value satisfies match. See FailureIs,
// FailureAs and AnyFailure for common matchers.
func (s *Session) ExpectFailure(match func(cause any) bool, msgAndArgs ...any) bool {
	message := messageOr("expected failure did not occur", msgAndArgs)
	if !s.rt.Alive() {
		s.report(domain.ReportMismatch, "program already terminated")
		return false
	}
	sig, ok := s.rt.PollExit()
	if !ok || sig.Kind != domain.ExitFailure || !match(sig.Cause) {
		s.report(domain.ReportFailure, message)
		return false
	}
	s.fireExit(sig)
	return true
}

// report prints the mismatch/failure and escalates it to a scoped
// cancellation when the effective cancel mode asks for one. The
// cancellation forces the subject to exit first, so a canceled test
// never leaves a subject running.
func (s *Session) report(kind domain.ReportKind, message string) {
	s.rep.Report(kind, message)
	s.fireReport(kind, message)
	if s.effectiveCancelMode().Triggers(kind) {
		s.EnforceExit()
		panic(&CancelError{})
	}
}

func (s *Session) effectiveCancelMode() domain.CancelMode {
	if v := cancelOverride.Load(); v != 0 {
		return domain.CancelMode(v - 1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelMode
}

func eventBase(t domain.EventType) *domain.EventBase {
	return &domain.EventBase{Timestamp: time.Now(), Type: t}
}

func (s *Session) fireExchange(t domain.EventType, text string) {
	h := s.hooks.OnInput
	if t == domain.EventOutput {
		h = s.hooks.OnOutput
	}
	if h == nil {
		return
	}
	h(&domain.ExchangeEvent{EventBase: *eventBase(t), Text: text})
}

func (s *Session) fireReport(kind domain.ReportKind, message string) {
	if s.hooks.OnReport == nil {
		return
	}
	s.hooks.OnReport(&domain.ReportEvent{
		EventBase: *eventBase(domain.EventReport),
		Kind:      kind,
		Message:   message,
	})
}

func (s *Session) fireExit(sig runtime.ExitSignal) {
	if s.hooks.OnExit == nil {
		return
	}
	s.hooks.OnExit(&domain.ExitEvent{
		EventBase: *eventBase(domain.EventExit),
		Kind:      sig.Kind,
		Cause:     sig.Cause,
	})
}
