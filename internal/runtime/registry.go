package runtime

import (
	"sync"

	"github.com/petermattis/goid"
)

// subjects maps the goroutine id of each live subject to its session.
// The console surface uses it to route a subject's reads and writes to
// the session that launched it, which is what lets an interrupted
// subject of a replaced session observe its own stop signal instead of
// joining the successor's rendezvous.
var subjects sync.Map // int64 -> *Session

func bindSubject(s *Session) {
	subjects.Store(goid.Get(), s)
}

func unbindSubject() {
	subjects.Delete(goid.Get())
}

// CallerSubject returns the session whose subject goroutine is the
// caller, or nil when the caller is not a subject (driver code, or no
// session at all).
func CallerSubject() *Session {
	if v, ok := subjects.Load(goid.Get()); ok {
		return v.(*Session)
	}
	return nil
}
