package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rentbook/rentbook/internal/printer"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all records and stored files",
	Long: `Erase every record collection and every stored file, returning the
namespace to a fresh state. Requires --force.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Confirm the wipe")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if !resetForce {
		return printer.Error(
			"reset erases everything",
			"All properties, tenants, transactions, documents, reminders, the owner profile, and every stored file will be gone.",
			[]string{"Re-run with --force to confirm:\n  rentbook reset --force"},
		)
	}

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := k.ResetAllData(ctx); err != nil {
		return printer.Error("reset did not complete", err.Error(), nil)
	}

	printer.Success("all data erased\n")
	return nil
}
