package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwaldron/flowlens/pkg/domain/flow"
	"github.com/mwaldron/flowlens/pkg/infrastructure/config"
)

var wipItemsFile string

var wipCmd = &cobra.Command{
	Use:   "wip",
	Short: "Count items currently in active states",
	RunE: func(cmd *cobra.Command, args []string) error {
		if wipItemsFile == "" {
			return fmt.Errorf("--items is required")
		}
		cfg, err := config.Load(configDir)
		if err != nil {
			return err
		}
		states, _, err := cfg.BuildRegistries()
		if err != nil {
			return err
		}
		items, err := loadItems(wipItemsFile)
		if err != nil {
			return err
		}
		wip := flow.NewWIPCounter(states).Count(items)
		cmd.Printf("%d items in progress\n", wip.Total)
		return nil
	},
}

func init() {
	wipCmd.Flags().StringVarP(&wipItemsFile, "items", "i", "", "JSON file with exported work items")
	RootCmd.AddCommand(wipCmd)
}
