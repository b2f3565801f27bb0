package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/lockstep/internal/report"
	"github.com/aretw0/lockstep/pkg/scenario"
)

var explainCmd = &cobra.Command{
	Use:   "explain <script>",
	Short: "Render a readable summary of a scenario file",
	Long:  `Loads a scenario file and prints its settings and steps as formatted markdown.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		script, err := scenario.Load(args[0])
		if err != nil {
			fmt.Printf("Failed to load scenario: %v\n", err)
			os.Exit(1)
		}

		render := report.NewMarkdownRenderer()
		out, err := render(describeScript(script))
		if err != nil {
			// Render failures are cosmetic; fall back to the raw text.
			out = describeScript(script)
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func describeScript(script *scenario.Script) string {
	var b strings.Builder

	name := script.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&b, "# Scenario: %s\n\n", name)

	fmt.Fprintf(&b, "## Settings\n\n")
	fmt.Fprintf(&b, "- timeout: %s\n", orDefault(script.Settings.Timeout, "default"))
	fmt.Fprintf(&b, "- print: %s\n", orDefault(script.Settings.Print, "all"))
	fmt.Fprintf(&b, "- cancel: %s\n", orDefault(script.Settings.Cancel, "never"))

	fmt.Fprintf(&b, "\n## Steps\n\n")
	for i, step := range script.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, describeStep(step))
	}
	return b.String()
}

func describeStep(step scenario.Step) string {
	var parts []string
	if step.Send != nil {
		parts = append(parts, fmt.Sprintf("send `%s`", *step.Send))
	}
	switch {
	case step.ExpectExit:
		parts = append(parts, "expect the program to terminate")
	case step.ExpectList != nil:
		qualifier := ""
		if step.Prefix {
			qualifier = " by prefix"
		}
		if step.AnyOrder {
			qualifier += " in any order"
		}
		parts = append(parts, fmt.Sprintf("expect %d lines%s", len(step.ExpectList), qualifier))
	case step.Expect != nil && step.Prefix:
		parts = append(parts, fmt.Sprintf("expect a line starting with `%s`", *step.Expect))
	case step.Expect != nil:
		parts = append(parts, fmt.Sprintf("expect `%s`", *step.Expect))
	}
	return strings.Join(parts, ", then ")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
