package lockstep_test

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lockstep"
	"github.com/aretw0/lockstep/pkg/domain"
)

// listSubject prints a fixed student listing, the classic shape of the
// programs this harness drives.
func listSubject() {
	lockstep.PrintLine("Ok")
	for {
		in, ok := lockstep.ReadLine()
		if !ok || in == "quit" {
			return
		}
		switch in {
		case "list":
			lockstep.PrintLine("123456 max mustermann")
			lockstep.PrintLine("654321 albert albertus")
		default:
			lockstep.PrintError("unknown command")
		}
	}
}

func TestAssertOutputMatches(t *testing.T) {
	s := lockstep.Start(listSubject, quiet()...)
	defer s.EnforceExit()

	assert.True(t, s.AssertOutput("Ok"))
	assert.True(t, s.TestExit("quit"))
}

func TestAssertOutputWrongValue(t *testing.T) {
	var buf strings.Builder
	s := lockstep.Start(listSubject,
		lockstep.WithOutput(&buf),
		lockstep.WithVerbosity(domain.PrintFailures),
		lockstep.WithTimeout(500*time.Millisecond))
	defer s.EnforceExit()

	assert.False(t, s.AssertOutput("Not Ok"))
	assert.Contains(t, buf.String(), ">>> FAILURE: ")
	assert.Contains(t, buf.String(), ">>> Expected: Not Ok")
}

func TestAssertPrefix(t *testing.T) {
	s := lockstep.Start(listSubject, quiet()...)
	defer s.EnforceExit()

	require.True(t, s.AssertOutput("Ok"))
	assert.True(t, s.TestPrefix("bogus", "Error, "))
	assert.True(t, s.TestExit("quit"))
}

func TestListInOrder(t *testing.T) {
	s := lockstep.Start(listSubject, quiet()...)
	defer s.EnforceExit()

	require.True(t, s.AssertOutput("Ok"))
	assert.True(t, s.TestList("list", []string{
		"123456 max mustermann",
		"654321 albert albertus",
	}))
	assert.True(t, s.TestExit("quit"))
}

func TestListAnyOrder(t *testing.T) {
	s := lockstep.Start(listSubject, quiet()...)
	defer s.EnforceExit()

	require.True(t, s.AssertOutput("Ok"))
	assert.True(t, s.TestList("list", []string{
		"654321 albert albertus",
		"123456 max mustermann",
	}, lockstep.MatchAnyOrder()))
	assert.True(t, s.TestExit("quit"))
}

func TestListAnyOrderDoesNotMutateInput(t *testing.T) {
	expected := []string{
		"654321 albert albertus",
		"123456 max mustermann",
	}
	s := lockstep.Start(listSubject, quiet()...)
	defer s.EnforceExit()

	require.True(t, s.AssertOutput("Ok"))
	require.True(t, s.TestList("list", expected, lockstep.MatchAnyOrder()))
	assert.Equal(t, []string{
		"654321 albert albertus",
		"123456 max mustermann",
	}, expected, "the caller's slice must stay intact")
}

func TestListPrefixAnyOrder(t *testing.T) {
	s := lockstep.Start(listSubject, quiet()...)
	defer s.EnforceExit()

	require.True(t, s.AssertOutput("Ok"))
	assert.True(t, s.TestList("list", []string{"654321", "123456"},
		lockstep.MatchPrefix(), lockstep.MatchAnyOrder()))
}

func TestListWrongOrderFails(t *testing.T) {
	s := lockstep.Start(listSubject,
		lockstep.WithOutput(io.Discard),
		lockstep.WithVerbosity(domain.PrintNone),
		lockstep.WithTimeout(500*time.Millisecond))
	defer s.EnforceExit()

	require.True(t, s.AssertOutput("Ok"))
	assert.False(t, s.TestList("list", []string{
		"654321 albert albertus",
		"123456 max mustermann",
	}), "strict order must reject swapped lines")
}

func TestTestOutputCombinesSendAndAssert(t *testing.T) {
	s := lockstep.Start(func() {
		in, _ := lockstep.ReadLine()
		lockstep.PrintLine("echo " + in)
	}, quiet()...)
	defer s.EnforceExit()

	assert.True(t, s.TestOutput("hello", "echo hello"))
}

func TestTestFailure(t *testing.T) {
	s := lockstep.Start(func() {
		in, _ := lockstep.ReadLine()
		if in == "explode" {
			panic(errStudyPortal)
		}
	}, quiet()...)

	assert.True(t, s.TestFailure("explode", lockstep.FailureIs(errStudyPortal)))
}

func TestAssertMessageFormatting(t *testing.T) {
	var buf strings.Builder
	s := lockstep.Start(listSubject,
		lockstep.WithOutput(&buf),
		lockstep.WithVerbosity(domain.PrintFailures),
		lockstep.WithTimeout(500*time.Millisecond))
	defer s.EnforceExit()

	assert.False(t, s.AssertOutput("Not Ok", "greeting for %s broken", "max"))
	assert.Contains(t, buf.String(), "greeting for max broken")
}
