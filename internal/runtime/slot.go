package runtime

import (
	"errors"
	"time"
)

var (
	// errTimedOut indicates the other party did not show up in time.
	errTimedOut = errors.New("rendezvous timed out")
	// errStopped indicates the session's stop channel closed mid-wait.
	errStopped = errors.New("session stopped")
)

// transferSlot is a single-item, blocking hand-off point. It moves
// exactly one string per successful operation and never buffers: a put
// completes only when a take is simultaneously pending, which is what
// keeps driver and subject in lock-step.
type transferSlot struct {
	ch chan string
}

func newTransferSlot() *transferSlot {
	return &transferSlot{ch: make(chan string)}
}

// put offers v to a pending take, waiting at most bound. A nil stop
// channel never fires (driver side); the subject side passes the
// session's stop channel so a forced exit wakes it immediately.
func (s *transferSlot) put(v string, bound time.Duration, stop <-chan struct{}) error {
	t := time.NewTimer(bound)
	defer t.Stop()
	select {
	case s.ch <- v:
		return nil
	case <-stop:
		return errStopped
	case <-t.C:
		return errTimedOut
	}
}

// take withdraws the value offered by a pending put, waiting at most
// bound.
func (s *transferSlot) take(bound time.Duration, stop <-chan struct{}) (string, error) {
	t := time.NewTimer(bound)
	defer t.Stop()
	select {
	case v := <-s.ch:
		return v, nil
	case <-stop:
		return "", errStopped
	case <-t.C:
		return "", errTimedOut
	}
}
