package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/lockstep"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lockstep",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lockstep version %s\n", strings.TrimSpace(lockstep.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
