package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lockstep/pkg/scenario"
)

var validateCmd = &cobra.Command{
	Use:   "validate <script>...",
	Short: "Check scenario files for consistency",
	Long:  `Parses each scenario file and reports malformed settings or steps without executing anything.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		failed := false
		for _, path := range args {
			if _, err := scenario.Load(path); err != nil {
				fmt.Printf("Validation failed: %v\n", err)
				failed = true
				continue
			}
			fmt.Printf("%s is valid! ✅\n", path)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
