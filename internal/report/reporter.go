// Package report implements the harness's verbosity-filtered output:
// the plain echo of the subject's I/O exchange and the colored
// mismatch/failure reports.
package report

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/lockstep/pkg/domain"
)

const (
	mismatchPrefix = ">>> MISMATCH: "
	failurePrefix  = ">>> FAILURE: "
)

// Reporter prints the I/O echo and reports according to the verbosity
// policy. It is safe for concurrent use: the echo arrives from the
// subject goroutine while reports come from the driver.
type Reporter struct {
	mu        sync.Mutex
	w         io.Writer
	out       *termenv.Output
	verbosity domain.Verbosity
}

// New creates a reporter writing to w. Color is enabled only when w is
// an actual terminal.
func New(w io.Writer, verbosity domain.Verbosity) *Reporter {
	out := termenv.NewOutput(w)
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		out = termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	return &Reporter{w: w, out: out, verbosity: verbosity}
}

// SetVerbosity changes the print policy.
func (r *Reporter) SetVerbosity(v domain.Verbosity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verbosity = v
}

// Verbosity returns the current print policy.
func (r *Reporter) Verbosity() domain.Verbosity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.verbosity
}

// Echo prints one line of the regular exchange (subject output, or
// input echoed as "> "+input), if the policy permits it.
func (r *Reporter) Echo(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.verbosity.EchoesIO() {
		return
	}
	fmt.Fprintln(r.w, text)
}

// Report prints a mismatch or failure line, if the policy permits it.
// Mismatches render yellow and failures red on terminals.
func (r *Reporter) Report(kind domain.ReportKind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.verbosity.ShowsReports() {
		return
	}
	prefix := r.out.String(mismatchPrefix).Foreground(termenv.ANSIYellow)
	if kind == domain.ReportFailure {
		prefix = r.out.String(failurePrefix).Foreground(termenv.ANSIRed)
	}
	fmt.Fprintln(r.w, prefix.String()+message)
}

// Println writes a line unconditionally (used for cancellation notes).
func (r *Reporter) Println(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, text)
}
