package commands

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/rentbook/rentbook/internal/keeper"
	"github.com/rentbook/rentbook/internal/printer"
)

var (
	reminderAddTitle string
	reminderAddDue   string
	reminderAddNote  string

	reminderListJSON bool
)

var reminderCmd = &cobra.Command{
	Use:   "reminder",
	Short: "Keep dated notes to self",
}

var reminderAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a reminder",
	RunE:  runReminderAdd,
}

var reminderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders",
	RunE:  runReminderList,
}

func init() {
	reminderAddCmd.Flags().StringVar(&reminderAddTitle, "title", "", "Reminder title (required)")
	reminderAddCmd.Flags().StringVar(&reminderAddDue, "due", "", "Due date, YYYY-MM-DD")
	reminderAddCmd.Flags().StringVar(&reminderAddNote, "note", "", "Free-text note")
	reminderAddCmd.MarkFlagRequired("title")

	reminderListCmd.Flags().BoolVar(&reminderListJSON, "json", false, "Output in JSON format")

	reminderCmd.AddCommand(reminderAddCmd)
	reminderCmd.AddCommand(reminderListCmd)
	rootCmd.AddCommand(reminderCmd)
}

func runReminderAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	r, err := k.AddReminder(ctx, keeper.Reminder{
		Title:   reminderAddTitle,
		DueDate: reminderAddDue,
		Note:    reminderAddNote,
	})
	if err != nil {
		return err
	}

	printer.Success("added reminder %q (%s)\n", r.Title, r.ID)
	return nil
}

func runReminderList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	reminders := k.Reminders(ctx)

	if reminderListJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reminders)
	}

	if len(reminders) == 0 {
		printer.Info("No reminders.\n")
		return nil
	}

	for _, r := range reminders {
		if r.DueDate != "" {
			printer.Printf("%-10s  %s\n", r.DueDate, r.Title)
		} else {
			printer.Printf("%-10s  %s\n", "-", r.Title)
		}
		if r.Note != "" {
			printer.Printf("            %s\n", r.Note)
		}
	}
	return nil
}
