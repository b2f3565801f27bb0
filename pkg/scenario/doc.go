/*
Package scenario provides a declarative YAML format for lockstep test
scripts, so exchanges with a console program can be described as data
instead of Go code.

A script names the session settings and a sequence of steps. Each step
sends input, expects output (exact, by prefix, or as a list in any
order), or expects the program to terminate:

	name: greeter
	settings:
	  timeout: 500ms
	  print: none
	steps:
	  - expect: "Ok"
	  - send: list
	    expect_list:
	      - "123456 max mustermann"
	      - "654321 albert albertus"
	    any_order: true
	  - send: quit
	    expect_exit: true

Load or Parse a script, then execute it against a subject with a
Runner:

	script, err := scenario.Load("greeter.yaml")
	if err != nil {
	    // handle
	}
	result := scenario.NewRunner(script).Run(subject)
	if !result.Passed() {
	    // inspect result.Mismatches / result.Failures
	}
*/
package scenario
