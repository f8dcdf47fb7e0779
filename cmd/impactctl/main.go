// Command impactctl runs one-shot impact assessments from the command line.
//
// Usage:
//
//	impactctl assess --diameter 20 --density 3000 --velocity 19000 --angle 45
//	impactctl assess -f data/mock/scenarios.yaml --name tunguska --zones
//	impactctl scenarios -f data/mock/scenarios.csv --check
//	impactctl overpressure --megatons 15 --altitude 8000 --pressure 6900
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "impactctl",
		Short:         "Estimate the effects of an asteroid or comet impact",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("output", "o", formatText, "output format: text or json")

	root.AddCommand(
		newAssessCmd(),
		newScenariosCmd(),
		newOverpressureCmd(),
	)
	return root
}
