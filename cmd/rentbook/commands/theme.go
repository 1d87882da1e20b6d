package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rentbook/rentbook/internal/keeper"
	"github.com/rentbook/rentbook/internal/printer"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark|system]",
	Short: "Show or set the display theme preference",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(args) == 0 {
		printer.Printf("%s\n", k.Theme(ctx))
		return nil
	}

	th := keeper.Theme(args[0])
	if err := k.SaveTheme(ctx, th); err != nil {
		return printer.Error(
			"invalid theme",
			err.Error(),
			[]string{"Valid themes: light, dark, system"},
		)
	}

	printer.Success("theme set to %s\n", th)
	return nil
}
