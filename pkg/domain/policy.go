package domain

import "fmt"

// Verbosity controls what the harness prints to its output writer.
// The zero value prints nothing.
type Verbosity int

const (
	// PrintNone suppresses all harness output.
	PrintNone Verbosity = 0
	// PrintInOut echoes the subject's input and output, but not reports.
	PrintInOut Verbosity = 1
	// PrintFailures prints mismatch/failure reports, without the I/O echo.
	PrintFailures Verbosity = 2
	// PrintAll echoes I/O and prints reports (default).
	PrintAll Verbosity = 3
)

// EchoesIO reports whether the regular input/output exchange is echoed.
func (v Verbosity) EchoesIO() bool { return v&PrintInOut != 0 }

// ShowsReports reports whether mismatch and failure reports are printed.
func (v Verbosity) ShowsReports() bool { return v >= PrintFailures }

// Validate returns an error for values outside the defined range.
func (v Verbosity) Validate() error {
	if v < PrintNone || v > PrintAll {
		return fmt.Errorf("illegal verbosity value %d", int(v))
	}
	return nil
}

func (v Verbosity) String() string {
	switch v {
	case PrintNone:
		return "none"
	case PrintInOut:
		return "in-out"
	case PrintFailures:
		return "failures"
	case PrintAll:
		return "all"
	default:
		return fmt.Sprintf("verbosity(%d)", int(v))
	}
}

// ParseVerbosity maps the textual form used in scenario files back to a
// Verbosity value.
func ParseVerbosity(s string) (Verbosity, error) {
	switch s {
	case "none":
		return PrintNone, nil
	case "in-out":
		return PrintInOut, nil
	case "failures":
		return PrintFailures, nil
	case "", "all":
		return PrintAll, nil
	default:
		return 0, fmt.Errorf("unknown verbosity %q", s)
	}
}

// CancelMode controls whether a reported mismatch or failure escalates
// into a scoped cancellation of the running test routine.
type CancelMode int

const (
	// CancelNever continues the test after any report (default).
	CancelNever CancelMode = iota
	// CancelAtMismatch cancels on ordering mismatches only.
	CancelAtMismatch
	// CancelAlways cancels on mismatches and value failures alike.
	CancelAlways
)

// Triggers reports whether a report of the given kind cancels the test.
func (m CancelMode) Triggers(kind ReportKind) bool {
	switch m {
	case CancelAlways:
		return true
	case CancelAtMismatch:
		return kind == ReportMismatch
	default:
		return false
	}
}

// Validate returns an error for values outside the defined range.
func (m CancelMode) Validate() error {
	if m < CancelNever || m > CancelAlways {
		return fmt.Errorf("illegal cancel mode value %d", int(m))
	}
	return nil
}

func (m CancelMode) String() string {
	switch m {
	case CancelNever:
		return "never"
	case CancelAtMismatch:
		return "at-mismatch"
	case CancelAlways:
		return "always"
	default:
		return fmt.Sprintf("cancelmode(%d)", int(m))
	}
}

// ParseCancelMode maps the textual form used in scenario files back to
// a CancelMode value.
func ParseCancelMode(s string) (CancelMode, error) {
	switch s {
	case "", "never":
		return CancelNever, nil
	case "at-mismatch":
		return CancelAtMismatch, nil
	case "always":
		return CancelAlways, nil
	default:
		return 0, fmt.Errorf("unknown cancel mode %q", s)
	}
}

// ReportKind distinguishes ordering mismatches from value failures.
//
// A mismatch means the expected party was not ready (timing/order
// violation, e.g. output expected but none arrived). A failure means a
// value arrived but did not equal the expectation.
type ReportKind int

const (
	ReportMismatch ReportKind = iota
	ReportFailure
)

func (k ReportKind) String() string {
	if k == ReportMismatch {
		return "mismatch"
	}
	return "failure"
}

// ExitKind classifies how the subject's execution context ended.
type ExitKind int

const (
	// ExitNormal means the entry action returned, or the subject was
	// cleanly aborted by the harness.
	ExitNormal ExitKind = iota
	// ExitFailure means the entry action panicked with something other
	// than the harness's internal abort signal.
	ExitFailure
)

func (k ExitKind) String() string {
	if k == ExitNormal {
		return "normal"
	}
	return "failure"
}
