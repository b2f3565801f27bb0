package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventSessionStart EventType = "session_start"
	EventInput        EventType = "input"
	EventOutput       EventType = "output"
	EventReport       EventType = "report"
	EventExit         EventType = "exit"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ExchangeEvent represents one completed input or output hand-off
// between the driver and the subject.
type ExchangeEvent struct {
	EventBase
	Text string `json:"text"`
}

// ReportEvent represents a reported mismatch or value failure.
type ReportEvent struct {
	EventBase
	Kind    ReportKind `json:"kind"`
	Message string     `json:"message"`
}

// ExitEvent represents an observed subject exit.
type ExitEvent struct {
	EventBase
	Kind ExitKind `json:"kind"`
	// Cause carries the recovered panic value for ExitFailure exits.
	Cause any `json:"cause,omitempty"`
}

// LifecycleHooks defines callbacks for harness observability.
// Nil members are skipped. Hooks run synchronously on the goroutine
// that produced the event; OnReport in particular can fire from the
// subject's goroutine when its own hand-off goes unanswered, so hook
// implementations must be safe for concurrent use.
type LifecycleHooks struct {
	OnSessionStart func(*EventBase)
	OnInput        func(*ExchangeEvent)
	OnOutput       func(*ExchangeEvent)
	OnReport       func(*ReportEvent)
	OnExit         func(*ExitEvent)
}

// Chain returns hooks that invoke h first and then next, allowing
// multiple observers (e.g. a metrics collector plus a logger) to be
// stacked on one session.
func (h LifecycleHooks) Chain(next LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnSessionStart: chain(h.OnSessionStart, next.OnSessionStart),
		OnInput:        chain(h.OnInput, next.OnInput),
		OnOutput:       chain(h.OnOutput, next.OnOutput),
		OnReport:       chain(h.OnReport, next.OnReport),
		OnExit:         chain(h.OnExit, next.OnExit),
	}
}

func chain[E any](first, second func(*E)) func(*E) {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(e *E) {
		first(e)
		second(e)
	}
}
