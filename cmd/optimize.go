package cmd

import (
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kilianp07/bessim/app"
	"github.com/kilianp07/bessim/config"
	"github.com/kilianp07/bessim/core/optimize"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search policy parameters and battery sizing",
}

var optimizeTOUCmd = &cobra.Command{
	Use:   "tou",
	Short: "Tune time-of-use charge/discharge thresholds",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOptimize(cmd, func(svc *app.Service) (optimize.Result, error) { return svc.OptimizeTOU() })
	},
}

var optimizePeakCmd = &cobra.Command{
	Use:   "peak",
	Short: "Tune the peak-shaving import threshold",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOptimize(cmd, func(svc *app.Service) (optimize.Result, error) { return svc.OptimizePeak() })
	},
}

var optimizeSizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Search the battery capacity with highest NPV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOptimize(cmd, func(svc *app.Service) (optimize.Result, error) { return svc.OptimizeSize() })
	},
}

func init() {
	optimizeCmd.AddCommand(optimizeTOUCmd, optimizePeakCmd, optimizeSizeCmd)
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, run func(*app.Service) (optimize.Result, error)) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	result, err := run(svc)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Parameter", "Value")
	keys := make([]string, 0, len(result.Parameters))
	for k := range result.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		table.Append(k, fmt.Sprintf("%.4f", result.Parameters[k]))
	}
	table.Append("daily_savings", fmt.Sprintf("%.4f", result.Savings))
	if result.NPV != 0 {
		table.Append("npv", fmt.Sprintf("%.2f", result.NPV))
	}
	table.Render()
	return nil
}
