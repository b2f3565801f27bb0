package runtime

import (
	"errors"
	"sync"
	"time"
)

// errBroken indicates the other party already abandoned the barrier.
var errBroken = errors.New("phase barrier broken")

// phaseBarrier is a two-party synchronization point. Both sides must
// reach await before either proceeds; whichever side times out (or is
// stopped) breaks the barrier, waking the other side.
//
// A broken barrier is never repaired or reused. The session swaps in a
// fresh one instead, which rules out the stuck-rendezvous state where
// one side waits forever on a barrier the other side gave up on.
type phaseBarrier struct {
	meet   chan struct{}
	broken chan struct{}
	once   sync.Once
}

func newPhaseBarrier() *phaseBarrier {
	return &phaseBarrier{
		meet:   make(chan struct{}),
		broken: make(chan struct{}),
	}
}

// await blocks until the other party also arrives, the bound elapses,
// the stop channel fires, or the barrier breaks. The send and receive
// cases on the same unbuffered channel let either party arrive first:
// the earlier arrival's send pairs with the later arrival's receive.
func (b *phaseBarrier) await(bound time.Duration, stop <-chan struct{}) error {
	t := time.NewTimer(bound)
	defer t.Stop()
	select {
	case b.meet <- struct{}{}:
		return nil
	case <-b.meet:
		return nil
	case <-b.broken:
		return errBroken
	case <-stop:
		b.breakBarrier()
		return errStopped
	case <-t.C:
		b.breakBarrier()
		return errTimedOut
	}
}

func (b *phaseBarrier) breakBarrier() {
	b.once.Do(func() { close(b.broken) })
}
