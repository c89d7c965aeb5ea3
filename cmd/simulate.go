package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kilianp07/bessim/app"
	"github.com/kilianp07/bessim/config"
	"github.com/kilianp07/bessim/pkg/export"
)

var (
	exportCSV  string
	exportJSON string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate daily battery dispatch under the configured policy",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&exportCSV, "csv", "", "write hourly flows of the last day to a CSV file")
	simulateCmd.Flags().StringVar(&exportJSON, "json", "", "write the last daily result to a JSON file")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}

	results, err := svc.Simulate()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Day", "Cost", "Import kWh", "Export kWh", "Self-cons", "Self-suff", "Cycles", "Degradation")
	for i, r := range results {
		table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.3f", r.DailyCost),
			fmt.Sprintf("%.2f", r.GridImportKWh),
			fmt.Sprintf("%.2f", r.GridExportKWh),
			fmt.Sprintf("%.1f%%", r.SelfConsumptionRate*100),
			fmt.Sprintf("%.1f%%", r.SelfSufficiencyRate*100),
			fmt.Sprintf("%.3f", r.CycleEquivalent),
			fmt.Sprintf("%.4f", r.DegradationFactor),
		)
	}
	table.Render()

	if len(results) == 0 {
		return nil
	}
	last := results[len(results)-1]
	if exportCSV != "" {
		f, err := os.Create(exportCSV)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteCSV(f, last); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	if exportJSON != "" {
		f, err := os.Create(exportJSON)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteJSON(f, last); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}
	return nil
}
