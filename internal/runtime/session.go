package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/lockstep/pkg/domain"
)

// Abort is the internal signal that makes a subject-side intercepted
// call unwind after observing forced termination or an unanswered
// hand-off. It is raised as a panic by the console surface and
// recovered exclusively by the session's own lifecycle goroutine; it
// must never be treated as a user-visible failure.
type Abort struct {
	// Interrupted is true when the abort was requested by the driver
	// (Interrupt), false when the subject's own hand-off went
	// unanswered within its bound.
	Interrupted bool
	Reason      string
}

func (a *Abort) Error() string { return a.Reason }

// ExitSignal is produced exactly once by the subject's goroutine, when
// the entry action returns or panics. Delivery is best-effort: if the
// driver is not polling within the timeout window, the signal is
// dropped.
type ExitSignal struct {
	Kind domain.ExitKind
	// Cause is the recovered panic value for ExitFailure signals.
	Cause any
}

// Config wires the session's reporting callbacks. Both callbacks are
// invoked from the subject goroutine and must be safe for that.
type Config struct {
	// Timeout is the driver-side wait bound. The subject side always
	// waits twice this long; its readiness is gated by the driver's
	// explicit requests, so it gets the extra slack.
	Timeout time.Duration
	// Echo receives the regular I/O exchange for printing.
	Echo func(text string)
	// Mismatch receives subject-side mismatch reports (unanswered
	// output, unanswered read). Report-only: escalation to
	// cancellation is a driver-side concern.
	Mismatch func(message string)
	Logger   *slog.Logger
}

// Session is the rendezvous engine plus lifecycle controller for one
// subject. The transfer slot, phase barrier and stop channel are the
// only state shared between the driver and subject goroutines.
type Session struct {
	cfg     Config
	timeout atomic.Int64 // nanoseconds

	slot *transferSlot
	exit chan ExitSignal

	mu      sync.Mutex
	barrier *phaseBarrier

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a session. Start must be called before the rendezvous
// operations are used.
func New(cfg Config) *Session {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 100 * time.Millisecond
	}
	if cfg.Echo == nil {
		cfg.Echo = func(string) {}
	}
	if cfg.Mismatch == nil {
		cfg.Mismatch = func(string) {}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Session{
		cfg:     cfg,
		slot:    newTransferSlot(),
		exit:    make(chan ExitSignal),
		barrier: newPhaseBarrier(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	s.timeout.Store(int64(cfg.Timeout))
	return s
}

// SetTimeout adjusts the driver-side wait bound. Safe to call between
// exchanges.
func (s *Session) SetTimeout(d time.Duration) {
	s.timeout.Store(int64(d))
}

// Timeout returns the current driver-side wait bound.
func (s *Session) Timeout() time.Duration {
	return time.Duration(s.timeout.Load())
}

// subjectBound is the doubled bound applied to subject-side waits.
func (s *Session) subjectBound() time.Duration {
	return 2 * s.Timeout()
}

func (s *Session) currentBarrier() *phaseBarrier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.barrier
}

// retireBarrier replaces old with a fresh barrier, unless another
// party already did. Compare-and-replace keeps a racing driver and
// subject from discarding a barrier the other side just installed.
func (s *Session) retireBarrier(old *phaseBarrier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.barrier == old {
		s.barrier = newPhaseBarrier()
	}
}

// Start launches the subject's goroutine running entry. The goroutine
// registers itself so the console surface can route its reads and
// writes back to this session, and deregisters before publishing the
// exit signal.
func (s *Session) Start(entry func()) {
	go func() {
		defer close(s.done)
		bindSubject(s)
		cause, abort := s.run(entry)
		unbindSubject()
		switch {
		case cause != nil:
			s.cfg.Echo(fmt.Sprintf("An exception occurred: %v", cause))
			s.cfg.Logger.Debug("subject failed", "cause", cause)
			s.offerExit(ExitSignal{Kind: domain.ExitFailure, Cause: cause})
		case abort != nil:
			if !abort.Interrupted {
				s.cfg.Mismatch(abort.Reason)
			}
			s.cfg.Logger.Debug("subject aborted", "interrupted", abort.Interrupted, "reason", abort.Reason)
			s.offerExit(ExitSignal{Kind: domain.ExitNormal})
		default:
			s.cfg.Logger.Debug("subject exited normally")
			s.offerExit(ExitSignal{Kind: domain.ExitNormal})
		}
	}()
}

// run executes entry, converting a panic into either an abort (the
// harness's own unwinding signal) or an uncaught failure cause.
func (s *Session) run(entry func()) (cause any, abort *Abort) {
	defer func() {
		if r := recover(); r != nil {
			if a, ok := r.(*Abort); ok {
				abort = a
			} else {
				cause = r
			}
		}
	}()
	entry()
	return nil, nil
}

// offerExit publishes the exit signal if the driver polls for it within
// the timeout window; otherwise the signal is dropped.
func (s *Session) offerExit(sig ExitSignal) {
	t := time.NewTimer(s.Timeout())
	defer t.Stop()
	select {
	case s.exit <- sig:
	case <-t.C:
		s.cfg.Logger.Debug("exit signal dropped", "kind", sig.Kind)
	}
}

// Interrupt sets the termination flag and wakes the subject if it is
// blocked in a rendezvous primitive. Fire-and-forget: it returns
// without waiting for the subject to actually stop.
func (s *Session) Interrupt() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.cfg.Logger.Debug("subject interrupt requested")
	})
}

func (s *Session) interrupted() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

// Alive reports whether the subject's goroutine has not yet fully
// returned. Once Alive is false no exit signal can still be pending:
// the goroutine only finishes after its offer attempt resolved.
func (s *Session) Alive() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Done returns a channel closed when the subject goroutine has fully
// returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// OfferInput places v into the transfer slot for the subject's next
// read. It reports false when the subject is not waiting for input
// within the bound.
func (s *Session) OfferInput(v string) bool {
	return s.slot.put(v, s.Timeout(), nil) == nil
}

// PollOutput synchronizes on the phase barrier and then withdraws the
// subject's next output from the transfer slot. A barrier timeout
// discards the barrier and installs a fresh one, so a later exchange
// starts clean instead of pairing with an abandoned wait.
func (s *Session) PollOutput() (string, bool) {
	b := s.currentBarrier()
	if err := b.await(s.Timeout(), nil); err != nil {
		s.retireBarrier(b)
		return "", false
	}
	v, err := s.slot.take(s.Timeout(), nil)
	if err != nil {
		return "", false
	}
	return v, true
}

// PollExit waits up to the timeout for the subject's exit signal.
func (s *Session) PollExit() (ExitSignal, bool) {
	t := time.NewTimer(s.Timeout())
	defer t.Stop()
	select {
	case sig := <-s.exit:
		return sig, true
	case <-t.C:
		return ExitSignal{}, false
	}
}

// EmitOutput is the subject-side write primitive. It observes the
// termination flag, meets the driver at the phase barrier and then
// deposits v into the transfer slot, each within the doubled bound.
// The barrier-before-slot order means the subject cannot deposit
// output the driver never committed to receiving.
func (s *Session) EmitOutput(v string) *Abort {
	if s.interrupted() {
		return &Abort{Interrupted: true, Reason: "interrupted"}
	}
	bound := s.subjectBound()
	b := s.currentBarrier()
	if err := b.await(bound, s.stop); err != nil {
		s.retireBarrier(b)
		s.cfg.Echo(v)
		return &Abort{Interrupted: err == errStopped, Reason: "unexpected output"}
	}
	s.cfg.Echo(v)
	if err := s.slot.put(v, bound, s.stop); err != nil {
		return &Abort{Interrupted: err == errStopped, Reason: "unexpected output"}
	}
	return nil
}

// TakeInput is the subject-side read primitive. It observes the
// termination flag and withdraws the driver's next input from the
// transfer slot within the doubled bound.
func (s *Session) TakeInput() (string, *Abort) {
	if s.interrupted() {
		return "", &Abort{Interrupted: true, Reason: "interrupted"}
	}
	v, err := s.slot.take(s.subjectBound(), s.stop)
	if err != nil {
		return "", &Abort{Interrupted: err == errStopped, Reason: "unexpected read"}
	}
	s.cfg.Echo("> " + v)
	return v, nil
}
