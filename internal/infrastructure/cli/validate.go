package cli

import (
	"github.com/spf13/cobra"

	"github.com/mwaldron/flowlens/pkg/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration directory",
	Long: `Validate the three configuration documents (workflow.yaml, types.yaml,
calculation.yaml) against their schemas and semantic rules, including
the one-state-one-category invariant.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configDir)
		if err != nil {
			return err
		}
		states, _, err := cfg.BuildRegistries()
		if err != nil {
			return err
		}
		stateCount := 0
		for _, cat := range states.Categories() {
			stateCount += len(cat.States)
		}
		cmd.Printf("configuration OK: %d categories, %d states, %d type profiles\n",
			len(states.Categories()), stateCount, len(cfg.Types.Profiles))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	RootCmd.AddCommand(configCmd)
}
