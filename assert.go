package lockstep

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/lockstep/pkg/domain"
)

// matchSpec collects the optional knobs of the list assertions.
type matchSpec struct {
	prefix   bool
	anyOrder bool
	message  string
}

// MatchOption adjusts how AssertList and TestList compare output lines.
type MatchOption func(*matchSpec)

// MatchPrefix compares only the prefix of each output line.
func MatchPrefix() MatchOption {
	return func(m *matchSpec) { m.prefix = true }
}

// MatchAnyOrder accepts the expected lines in any order.
func MatchAnyOrder() MatchOption {
	return func(m *matchSpec) { m.anyOrder = true }
}

// MatchMessage sets the message reported when the comparison fails.
func MatchMessage(message string) MatchOption {
	return func(m *matchSpec) { m.message = message }
}

// AssertOutput tests whether the subject's next output equals expected.
func (s *Session) AssertOutput(expected string, msgAndArgs ...any) bool {
	return s.assertStrings(messageOr("", msgAndArgs), false, false, expected)
}

// AssertPrefix tests whether the subject's next output starts with
// prefix.
func (s *Session) AssertPrefix(prefix string, msgAndArgs ...any) bool {
	return s.assertStrings(messageOr("", msgAndArgs), true, false, prefix)
}

// AssertList tests whether the subject's next outputs match the
// expected lines, optionally by prefix or in any order.
func (s *Session) AssertList(expected []string, opts ...MatchOption) bool {
	var spec matchSpec
	for _, opt := range opts {
		opt(&spec)
	}
	return s.assertStrings(spec.message, spec.prefix, spec.anyOrder, expected...)
}

// TestOutput sends input and tests whether the subject's next output
// equals expected.
func (s *Session) TestOutput(input, expected string, msgAndArgs ...any) bool {
	s.SendInput(input)
	return s.AssertOutput(expected, msgAndArgs...)
}

// TestPrefix sends input and tests whether the subject's next output
// starts with prefix.
func (s *Session) TestPrefix(input, prefix string, msgAndArgs ...any) bool {
	s.SendInput(input)
	return s.AssertPrefix(prefix, msgAndArgs...)
}

// TestList sends input and tests whether the subject's next outputs
// match the expected lines.
func (s *Session) TestList(input string, expected []string, opts ...MatchOption) bool {
	s.SendInput(input)
	return s.AssertList(expected, opts...)
}

// TestExit sends input and tests whether the subject terminates as its
// next action.
func (s *Session) TestExit(input string, msgAndArgs ...any) bool {
	s.SendInput(input)
	return s.ExpectExit(msgAndArgs...)
}

// TestFailure sends input and tests whether the subject dies from an
// uncaught panic whose value satisfies match.
func (s *Session) TestFailure(input string, match func(cause any) bool, msgAndArgs ...any) bool {
	s.SendInput(input)
	return s.ExpectFailure(match, msgAndArgs...)
}

// assertStrings receives one output line per expected entry and checks
// it against the remaining candidates. With anyOrder a matched
// candidate is swapped into the current position so every expected
// line is consumed exactly once.
func (s *Session) assertStrings(message string, prefix, anyOrder bool, expected ...string) bool {
	want := make([]string, len(expected))
	copy(want, expected)

	mismatchMsg := message
	if mismatchMsg == "" {
		mismatchMsg = "additional output expected"
	}

	result := true
	for i := range want {
		out, ok := s.receiveOutput(mismatchMsg)
		if !ok {
			return false
		}
		pos := -1
		max := i + 1
		if anyOrder {
			max = len(want)
		}
		for j := i; j < max; j++ {
			if lineMatches(out, want[j], prefix) {
				pos = j
				if i != j {
					want[i], want[j] = want[j], want[i]
				}
			}
		}
		if pos == -1 {
			s.report(domain.ReportFailure, failureMessage(message, want[i]))
			result = false
		}
	}
	return result
}

func lineMatches(out, expected string, prefix bool) bool {
	if prefix {
		return strings.HasPrefix(out, expected)
	}
	return out == expected
}

func failureMessage(message, expected string) string {
	if message == "" {
		message = "unexpected output value"
	}
	return message + "\n>>> Expected: " + expected
}

// messageOr renders an optional testify-style message, falling back to
// def.
func messageOr(def string, msgAndArgs []any) string {
	switch len(msgAndArgs) {
	case 0:
		return def
	case 1:
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprint(msgAndArgs[0])
	default:
		if format, ok := msgAndArgs[0].(string); ok {
			return fmt.Sprintf(format, msgAndArgs[1:]...)
		}
		return fmt.Sprint(msgAndArgs...)
	}
}

// FailureIs matches uncaught failures whose cause is an error matching
// target (per errors.Is).
func FailureIs(target error) func(cause any) bool {
	return func(cause any) bool {
		err, ok := cause.(error)
		return ok && errors.Is(err, target)
	}
}

// FailureAs matches uncaught failures whose cause has dynamic type T.
func FailureAs[T any]() func(cause any) bool {
	return func(cause any) bool {
		_, ok := cause.(T)
		return ok
	}
}

// AnyFailure matches every uncaught failure.
func AnyFailure() func(cause any) bool {
	return func(any) bool { return true }
}
