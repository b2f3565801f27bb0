package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lockstep",
	Short: "Lockstep is a deterministic test harness for console programs",
	Long:  `Lockstep drives console programs in lock-step: the test controls every input and observes every output, with scenario files describing the exchanges as YAML.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
