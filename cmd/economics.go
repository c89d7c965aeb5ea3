package cmd

import (
	"fmt"
	"math"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kilianp07/bessim/app"
	"github.com/kilianp07/bessim/config"
)

var economicsCmd = &cobra.Command{
	Use:   "economics",
	Short: "Project multi-year cash flows for the configured battery",
	RunE:  runEconomics,
}

func init() {
	rootCmd.AddCommand(economicsCmd)
}

func runEconomics(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	report, err := svc.Economics()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Metric", "Value")
	table.Append("Initial investment", fmt.Sprintf("%.2f", report.InitialInvestment))
	table.Append("Annual savings", fmt.Sprintf("%.2f", report.AnnualSavings))
	table.Append("NPV", fmt.Sprintf("%.2f", report.NPV))
	table.Append("IRR", fmt.Sprintf("%.2f%%", report.IRR*100))
	table.Append("Simple payback", paybackLabel(report.SimplePayback))
	table.Append("Discounted payback", paybackLabel(report.DiscountedPayback))
	table.Append("Replacements", fmt.Sprintf("%v", report.ReplacementYears))
	table.Render()
	return nil
}

func paybackLabel(years float64) string {
	if math.IsInf(years, 1) {
		return "beyond horizon"
	}
	return fmt.Sprintf("%.1f years", years)
}
