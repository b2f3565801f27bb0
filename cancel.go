package lockstep

import (
	"fmt"
	"sync/atomic"

	"github.com/aretw0/lockstep/pkg/domain"
)

// CancelError is the distinguished stop condition raised when the
// cancel policy escalates a reported mismatch or failure. It unwinds
// only the current driver call chain; RunCanceling recovers it. The
// subject has already been forced to exit by the time it is raised.
type CancelError struct{}

func (*CancelError) Error() string { return "test canceled" }

// cancelOverride temporarily raises the effective cancel mode while a
// RunCanceling body executes. Stored as mode+1 so zero means "no
// override". It is process-wide because the body may start sessions of
// its own.
var cancelOverride atomic.Int32

// RunCanceling runs test with the cancel mode raised to CancelAlways,
// restoring the previous mode afterwards. A cancellation inside test
// is absorbed here instead of unwinding the caller; message (if
// non-empty) is printed when that happens. Returns false if the test
// was canceled.
func RunCanceling(test func(), message string) bool {
	return runCanceling(test, message, domain.CancelAlways)
}

// RunCancelingAtMismatch is RunCanceling with the mode raised only to
// CancelAtMismatch, so value failures report but do not cancel.
func RunCancelingAtMismatch(test func(), message string) bool {
	return runCanceling(test, message, domain.CancelAtMismatch)
}

func runCanceling(test func(), message string, mode domain.CancelMode) (completed bool) {
	prev := cancelOverride.Swap(int32(mode) + 1)
	defer cancelOverride.Store(prev)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(*CancelError); !ok {
			panic(r)
		}
		if message != "" {
			if s := active.Load(); s != nil {
				s.rep.Println(message)
			} else {
				fmt.Println(message)
			}
		}
	}()
	test()
	return true
}
