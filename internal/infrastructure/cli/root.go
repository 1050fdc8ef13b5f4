// Package cli implements the flowlens command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mwaldron/flowlens/internal/infrastructure/logging"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	configDir string
	verbose   bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "flowlens",
	Version: Version,
	Short:   "Flow metrics for issue-tracker work items",
	Long: `FlowLens derives flow metrics from issue-tracker tickets and their
state-change history:
1. Lead time  — creation to completion
2. Cycle time — first active work to completion
3. Throughput — completion rate over a trailing window
4. WIP        — items currently in active states`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".flowlens", "configuration directory")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
