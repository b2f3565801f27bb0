package runtime

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lockstep/pkg/domain"
)

func newTestSession(t *testing.T, timeout time.Duration) *Session {
	t.Helper()
	return New(Config{Timeout: timeout})
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("subject goroutine did not finish")
	}
}

func TestSession_OutputHandOff(t *testing.T) {
	s := newTestSession(t, 500*time.Millisecond)
	s.Start(func() {
		require.Nil(t, s.EmitOutput("A"))
		require.Nil(t, s.EmitOutput("B"))
	})

	v, ok := s.PollOutput()
	require.True(t, ok)
	assert.Equal(t, "A", v)

	v, ok = s.PollOutput()
	require.True(t, ok)
	assert.Equal(t, "B", v, "consecutive writes must arrive in order")

	waitDone(t, s)
}

func TestSession_InputHandOff(t *testing.T) {
	s := newTestSession(t, 500*time.Millisecond)
	got := make(chan string, 1)
	s.Start(func() {
		v, abort := s.TakeInput()
		require.Nil(t, abort)
		got <- v
	})

	assert.True(t, s.OfferInput("payload"))
	assert.Equal(t, "payload", <-got)
	waitDone(t, s)
}

func TestSession_RoundTrip(t *testing.T) {
	s := newTestSession(t, 500*time.Millisecond)
	s.Start(func() {
		require.Nil(t, s.EmitOutput("A"))
		in, abort := s.TakeInput()
		require.Nil(t, abort)
		require.Nil(t, s.EmitOutput("B:"+in))
	})

	v, ok := s.PollOutput()
	require.True(t, ok)
	assert.Equal(t, "A", v)

	require.True(t, s.OfferInput("x"))

	v, ok = s.PollOutput()
	require.True(t, ok)
	assert.Equal(t, "B:x", v)

	sig, ok := s.PollExit()
	require.True(t, ok)
	assert.Equal(t, domain.ExitNormal, sig.Kind)
	waitDone(t, s)
}

func TestSession_OfferInputFailsWhenSubjectNotReading(t *testing.T) {
	s := newTestSession(t, 50*time.Millisecond)
	block := make(chan struct{})
	s.Start(func() { <-block })

	assert.False(t, s.OfferInput("nobody wants this"))

	close(block)
	waitDone(t, s)
}

func TestSession_PollOutputMismatchThenRecovers(t *testing.T) {
	s := newTestSession(t, 100*time.Millisecond)
	proceed := make(chan struct{})
	s.Start(func() {
		<-proceed
		require.Nil(t, s.EmitOutput("late but fine"))
	})

	// No pending write: the poll must time out, not block forever.
	_, ok := s.PollOutput()
	assert.False(t, ok)

	// The barrier was replaced; the next exchange works immediately.
	close(proceed)
	v, ok := s.PollOutput()
	require.True(t, ok)
	assert.Equal(t, "late but fine", v)
	waitDone(t, s)
}

func TestSession_EmitOutputAbortsWhenDriverNeverCollects(t *testing.T) {
	s := newTestSession(t, 30*time.Millisecond)
	aborts := make(chan *Abort, 1)
	s.Start(func() {
		aborts <- s.EmitOutput("shouting into the void")
	})

	select {
	case abort := <-aborts:
		require.NotNil(t, abort)
		assert.False(t, abort.Interrupted)
		assert.Equal(t, "unexpected output", abort.Reason)
	case <-time.After(5 * time.Second):
		t.Fatal("subject write did not abort")
	}
	waitDone(t, s)
}

func TestSession_InterruptWakesBlockedRead(t *testing.T) {
	s := newTestSession(t, 10*time.Second)
	aborts := make(chan *Abort, 1)
	s.Start(func() {
		_, abort := s.TakeInput()
		aborts <- abort
	})

	time.Sleep(20 * time.Millisecond)
	s.Interrupt()

	select {
	case abort := <-aborts:
		require.NotNil(t, abort)
		assert.True(t, abort.Interrupted, "forced exit must classify as interrupted")
	case <-time.After(time.Second):
		t.Fatal("interrupt did not wake the blocked read")
	}
	waitDone(t, s)
}

func TestSession_InterruptObservedBeforeNextPrimitive(t *testing.T) {
	s := newTestSession(t, 500*time.Millisecond)
	s.Interrupt()

	aborts := make(chan *Abort, 1)
	s.Start(func() {
		abort := s.EmitOutput("never delivered")
		aborts <- abort
	})

	abort := <-aborts
	require.NotNil(t, abort)
	assert.True(t, abort.Interrupted)
	waitDone(t, s)
}

func TestSession_NormalExitSignal(t *testing.T) {
	s := newTestSession(t, 500*time.Millisecond)
	s.Start(func() {})

	sig, ok := s.PollExit()
	require.True(t, ok)
	assert.Equal(t, domain.ExitNormal, sig.Kind)
	waitDone(t, s)
	assert.False(t, s.Alive())
}

func TestSession_UncaughtFailureSignal(t *testing.T) {
	boom := errors.New("boom")
	s := newTestSession(t, 500*time.Millisecond)
	s.Start(func() { panic(boom) })

	sig, ok := s.PollExit()
	require.True(t, ok)
	assert.Equal(t, domain.ExitFailure, sig.Kind)
	assert.Equal(t, boom, sig.Cause)
	waitDone(t, s)
}

func TestSession_ExitSignalDroppedWhenUnobserved(t *testing.T) {
	s := newTestSession(t, 20*time.Millisecond)
	s.Start(func() {})

	// Let the best-effort offer lapse before asking.
	waitDone(t, s)

	_, ok := s.PollExit()
	assert.False(t, ok, "an unobserved exit signal is dropped, not queued")
	assert.False(t, s.Alive())
}

func TestSession_AbortPostsNormalExit(t *testing.T) {
	s := newTestSession(t, 200*time.Millisecond)
	s.Start(func() {
		panic(&Abort{Interrupted: true, Reason: "interrupted"})
	})

	sig, ok := s.PollExit()
	require.True(t, ok)
	assert.Equal(t, domain.ExitNormal, sig.Kind, "aborts are clean stops, not failures")
	waitDone(t, s)
}

func TestSession_SubjectMismatchReported(t *testing.T) {
	msgs := make(chan string, 1)
	s := New(Config{
		Timeout:  30 * time.Millisecond,
		Mismatch: func(m string) { msgs <- m },
	})
	s.Start(func() {
		_, abort := s.TakeInput()
		panic(abort)
	})

	select {
	case m := <-msgs:
		assert.Equal(t, "unexpected read", m)
	case <-time.After(5 * time.Second):
		t.Fatal("subject-side mismatch was not reported")
	}
	waitDone(t, s)
}

func TestSession_EchoFormatsInput(t *testing.T) {
	lines := make(chan string, 2)
	s := New(Config{
		Timeout: 500 * time.Millisecond,
		Echo:    func(l string) { lines <- l },
	})
	s.Start(func() {
		in, abort := s.TakeInput()
		require.Nil(t, abort)
		require.Nil(t, s.EmitOutput("got "+in))
	})

	require.True(t, s.OfferInput("ping"))
	assert.Equal(t, "> ping", <-lines)

	v, ok := s.PollOutput()
	require.True(t, ok)
	assert.Equal(t, "got ping", v)
	assert.Equal(t, "got ping", <-lines)
	waitDone(t, s)
}
