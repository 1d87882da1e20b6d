package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rentbook/rentbook/internal/printer"
	"github.com/rentbook/rentbook/internal/report"
)

var (
	summaryProperty string
	summaryYear     string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show income and expense totals",
	Long: `Show income, expense, and net totals across recorded transactions.

Financial years run July to June and are written as the pair of
calendar years they span, e.g. 2024-2025.

Examples:
  rentbook summary
  rentbook summary --fy 2024-2025
  rentbook summary --property <id> --fy 2024-2025`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryProperty, "property", "", "Only this property")
	summaryCmd.Flags().StringVar(&summaryYear, "fy", report.AllYears, "Financial year, e.g. 2024-2025")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	s := report.Summarize(k.Transactions(ctx), summaryProperty, summaryYear)

	scope := "all properties"
	if summaryProperty != "" {
		scope = "property " + summaryProperty
	}
	period := "all years"
	if summaryYear != "" && summaryYear != report.AllYears {
		period = "FY " + summaryYear
	}

	printer.Printf("%s, %s (%d transactions)\n", scope, period, s.Count)
	printer.Printf("  Income:  %s\n", s.Income)
	printer.Printf("  Expense: %s\n", s.Expense)
	printer.Printf("  Net:     %s\n", s.Net())
	return nil
}
