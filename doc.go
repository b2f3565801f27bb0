/*
Package lockstep is a deterministic test harness for console programs: it lets a test driver control and observe a program that performs ordinary blocking line I/O, without modifying the program's code.

The subject runs in its own goroutine and believes it is talking to a real console through ReadLine, PrintLine and PrintError. The harness intercepts every call and hands control back and forth between driver and subject, so each side progresses only when the other is ready: the driver never receives output ahead of schedule, and never feeds input the subject is not yet waiting for. Every cross-goroutine wait is bounded, so a stalled or finished subject can time out a test but never hang it.

# Concept

Each exchange goes through a single-slot rendezvous. Output additionally passes a two-party phase barrier before the hand-off, which forces the driver to commit to receiving before the subject may deposit: strict alternation, no buffering, no reordering. When an exchange times out it is reported as a mismatch and the barrier is replaced, so the next exchange starts clean.

A mismatch (the expected party was not ready) is distinguished from a failure (a value arrived but was wrong); the cancel policy can escalate either into a scoped cancellation that forces the subject to exit and unwinds only the enclosing test routine.

# Usage

	package main

	import "github.com/aretw0/lockstep"

	func subject() {
		lockstep.PrintLine("A")
		in, _ := lockstep.ReadLine()
		lockstep.PrintLine("B:" + in)
	}

	func main() {
		s := lockstep.Start(subject)

		s.AssertOutput("A")
		s.TestOutput("x", "B:x")
		s.ExpectExit()
	}

Starting a new session forcibly terminates the previous one, so at most one subject is ever live. For forced termination to work, the subject must not recover blanket panics around its console calls.

Scenario files (see pkg/scenario) describe the same exchanges declaratively in YAML, and pkg/adapters/metrics exposes the session's lifecycle hooks as Prometheus collectors.
*/
package lockstep
