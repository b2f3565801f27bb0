package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lockstep"
	"github.com/aretw0/lockstep/pkg/scenario"
)

const demoScript = `
name: student-portal
settings:
  timeout: 500ms
steps:
  - expect: "Ok"
  - send: list
    expect_list:
      - "123456 max mustermann"
      - "654321 albert albertus"
    any_order: true
  - send: bogus
    expect: "Error, "
    prefix: true
  - send: quit
    expect_exit: true
`

// demoSubject is a small student portal, the kind of program the
// harness is built to drive.
func demoSubject() {
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

var demoCmd = &cobra.Command{
	Use:   "demo [script]",
	Short: "Run a scenario against the built-in demo program",
	Long:  `Drives a small built-in console program through a scenario. Without arguments a bundled script is used; pass a scenario file to drive the demo program yourself.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var script *scenario.Script
		var err error
		if len(args) > 0 {
			script, err = scenario.Load(args[0])
		} else {
			script, err = scenario.Parse([]byte(demoScript))
		}
		if err != nil {
			fmt.Printf("Failed to load scenario: %v\n", err)
			os.Exit(1)
		}

		result := scenario.NewRunner(script).Run(demoSubject)
		fmt.Printf("\n%d steps, %d mismatches, %d failures\n",
			result.Steps, result.Mismatches, result.Failures)
		if !result.Passed() {
			os.Exit(1)
		}
		fmt.Println("Scenario passed! ✅")
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
