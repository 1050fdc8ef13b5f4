package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwaldron/flowlens/internal/infrastructure/logging"
	"github.com/mwaldron/flowlens/pkg/application"
	"github.com/mwaldron/flowlens/pkg/domain/flow"
	"github.com/mwaldron/flowlens/pkg/domain/tracker"
	"github.com/mwaldron/flowlens/pkg/infrastructure/config"
	"github.com/mwaldron/flowlens/pkg/infrastructure/watch"
	"github.com/mwaldron/flowlens/pkg/plugin"
)

var (
	reportItemsFile  string
	reportPluginPath string
	reportQuery      string
	reportLimit      int
	reportJSON       bool
	reportWatch      bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a flow-metrics report",
	Long: `Generate a flow-metrics report from work items.

Items come from a JSON export (--items) or from a tracker provider
plugin (--plugin). With --watch the report re-renders whenever the
configuration directory changes.

Examples:
  flowlens report --items export.json
  flowlens report --plugin ./flowlens-plugin-jira --query "project = ENG"
  flowlens report --items export.json --watch`,
	RunE: runReportCmd,
}

func init() {
	reportCmd.Flags().StringVarP(&reportItemsFile, "items", "i", "", "JSON file with exported work items")
	reportCmd.Flags().StringVarP(&reportPluginPath, "plugin", "p", "", "path to a tracker provider plugin binary")
	reportCmd.Flags().StringVarP(&reportQuery, "query", "q", "", "provider-specific item query")
	reportCmd.Flags().IntVarP(&reportLimit, "limit", "n", 200, "maximum items fetched from the provider")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "output in JSON format")
	reportCmd.Flags().BoolVarP(&reportWatch, "watch", "w", false, "re-render on configuration changes")
	RootCmd.AddCommand(reportCmd)
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	if reportItemsFile == "" && reportPluginPath == "" {
		return fmt.Errorf("either --items or --plugin is required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	render := func() error {
		report, err := generateReport(ctx)
		if err != nil && report == nil {
			return err
		}
		if err != nil {
			// Partial report (interrupted enrichment): print what we
			// have, then surface the interruption.
			defer fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		return printReport(cmd, report)
	}

	if err := render(); err != nil {
		return err
	}
	if !reportWatch {
		return nil
	}

	watcher, err := watch.NewConfigWatcher(configDir, 0, func(path string) {
		fmt.Fprintf(os.Stderr, "config changed (%s), regenerating\n", path)
		if err := render(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	})
	if err != nil {
		return err
	}
	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// generateReport loads configuration fresh on every call so --watch
// reloads are full reconstructions, not in-place mutation.
func generateReport(ctx context.Context) (*flow.Report, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}
	states, types, err := cfg.BuildRegistries()
	if err != nil {
		return nil, err
	}

	var (
		items   []*tracker.WorkItem
		fetcher application.HistoryFetcher
	)

	if reportPluginPath != "" {
		loader := plugin.NewLoader()
		defer loader.Cleanup()

		prov, err := loader.Load(reportPluginPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load plugin: %w", err)
		}
		if err := prov.Init(map[string]string{}); err != nil {
			return nil, fmt.Errorf("failed to initialize plugin: %w", err)
		}
		fetched, err := prov.FetchItems(reportQuery, reportLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch items: %w", err)
		}
		for i := range fetched {
			items = append(items, &fetched[i])
		}
		fetcher = &application.ProviderFetcher{Provider: prov}
	} else {
		items, err = loadItems(reportItemsFile)
		if err != nil {
			return nil, err
		}
	}

	var enricher *application.EnrichmentService
	if fetcher != nil {
		enricher = application.NewEnrichmentService(fetcher, application.EnrichmentOptions{
			Logger: logging.Component("enricher"),
			Progress: func(completed, total int, message string) {
				fmt.Fprintln(os.Stderr, message)
			},
		})
	}

	svc := application.NewMetricsService(states, types, enricher,
		cfg.Calculation.ThroughputPeriodDays, logging.Component("metrics"))
	return svc.GenerateReport(ctx, items)
}

func loadItems(path string) ([]*tracker.WorkItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	var raw []tracker.WorkItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	items := make([]*tracker.WorkItem, len(raw))
	for i := range raw {
		items[i] = &raw[i]
	}
	return items, nil
}

func printReport(cmd *cobra.Command, report *flow.Report) error {
	if reportJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Flow report %s (%s)\n\n", report.ID, report.GeneratedAt.Format(time.RFC3339))
	cmd.Printf("Lead time:   avg %.2fd  median %dd  min %dd  max %dd  p85 %dd  p95 %dd  (n=%d, excluded=%d)\n",
		report.LeadTime.AverageDays, report.LeadTime.MedianDays, report.LeadTime.MinDays,
		report.LeadTime.MaxDays, report.LeadTime.Percentile85, report.LeadTime.Percentile95,
		report.LeadTime.Count, report.LeadTime.Excluded)
	cmd.Printf("Cycle time:  avg %.2fd  median %dd  min %dd  max %dd  p85 %dd  p95 %dd  (n=%d, excluded=%d)\n",
		report.CycleTime.AverageDays, report.CycleTime.MedianDays, report.CycleTime.MinDays,
		report.CycleTime.MaxDays, report.CycleTime.Percentile85, report.CycleTime.Percentile95,
		report.CycleTime.Count, report.CycleTime.Excluded)
	cmd.Printf("Throughput:  %.2f items/%dd  %.2f/day  %.2f/week  %.2f/month  (completed=%d over %dd)\n",
		report.Throughput.ItemsPerPeriod, report.Throughput.PeriodDays, report.Throughput.ItemsPerDay,
		report.Throughput.ItemsPerWeek, report.Throughput.ItemsPerMonth,
		report.Throughput.TotalCompleted, report.Throughput.AnalysisPeriodDays)
	cmd.Printf("WIP:         %d items\n", report.WorkInProgress.Total)
	return nil
}
