package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rentbook/rentbook/internal/keeper"
	"github.com/rentbook/rentbook/internal/printer"
	"github.com/rentbook/rentbook/internal/report"
)

var (
	txAddProperty string
	txAddType     string
	txAddDesc     string
	txAddAmount   string
	txAddDate     string
	txAddMode     string
	txAddTenant   string
	txAddRemarks  string
	txAddCategory string
	txAddReceipts []string

	txListProperty string
	txListYear     string
	txListJSON     bool
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Record and list income/expense transactions",
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a transaction against a property",
	Long: `Record an income or expense transaction.

Expense transactions require a --category. Receipt images given with
--receipt are uploaded before the transaction record is written.

Examples:
  rentbook tx add --property <id> --type Income --description "January rent" \
    --amount 1200 --date 2025-01-05 --mode Cash
  rentbook tx add --property <id> --type Expense --description "Roof repair" \
    --amount 450 --date 2025-02-11 --category Repairs --receipt invoice.jpg`,
	RunE: runTxAdd,
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	RunE:  runTxList,
}

func init() {
	txAddCmd.Flags().StringVar(&txAddProperty, "property", "", "Property id (required)")
	txAddCmd.Flags().StringVar(&txAddType, "type", "", "Income or Expense (required)")
	txAddCmd.Flags().StringVar(&txAddDesc, "description", "", "What the money was for (required)")
	txAddCmd.Flags().StringVar(&txAddAmount, "amount", "", "Amount, positive (required)")
	txAddCmd.Flags().StringVar(&txAddDate, "date", "", "Date, YYYY-MM-DD (required)")
	txAddCmd.Flags().StringVar(&txAddMode, "mode", "", "Payment mode: Cash, Bank Transfer, or Credit Card")
	txAddCmd.Flags().StringVar(&txAddTenant, "tenant-name", "", "Tenant name for the ledger line")
	txAddCmd.Flags().StringVar(&txAddRemarks, "remarks", "", "Free-text remarks")
	txAddCmd.Flags().StringVar(&txAddCategory, "category", "",
		"Expense category: Deprecation, CleaningMaintenance, Taxes, AutoAndTravel, Other, Repairs")
	txAddCmd.Flags().StringArrayVar(&txAddReceipts, "receipt", nil, "Receipt image to upload (repeatable)")
	txAddCmd.MarkFlagRequired("property")
	txAddCmd.MarkFlagRequired("type")
	txAddCmd.MarkFlagRequired("description")
	txAddCmd.MarkFlagRequired("amount")
	txAddCmd.MarkFlagRequired("date")

	txListCmd.Flags().StringVar(&txListProperty, "property", "", "Only this property")
	txListCmd.Flags().StringVar(&txListYear, "fy", report.AllYears, "Financial year, e.g. 2024-2025")
	txListCmd.Flags().BoolVar(&txListJSON, "json", false, "Output in JSON format")

	txCmd.AddCommand(txAddCmd)
	txCmd.AddCommand(txListCmd)
	rootCmd.AddCommand(txCmd)
}

func runTxAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	amount, err := decimal.NewFromString(txAddAmount)
	if err != nil {
		return printer.Error("invalid amount", fmt.Sprintf("%q is not a number", txAddAmount), nil)
	}

	tx := keeper.Transaction{
		PropertyID:  txAddProperty,
		Type:        keeper.TransactionType(txAddType),
		Description: txAddDesc,
		Amount:      amount,
		Date:        txAddDate,
		PaymentMode: keeper.PaymentMode(txAddMode),
		TenantName:  txAddTenant,
		Remarks:     txAddRemarks,
		Category:    keeper.ExpenseCategory(txAddCategory),
	}

	files, err := readUploads(txAddReceipts)
	if err != nil {
		return err
	}

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	receiptIDs, err := k.UploadFiles(ctx, files)
	if err != nil {
		return printer.Error(
			"failed to process one or more files",
			err.Error(),
			[]string{"No transaction was recorded. Re-run once the files are readable."},
		)
	}
	tx.ReceiptFileIDs = receiptIDs

	tx, err = k.AddTransaction(ctx, tx)
	if err != nil {
		return err
	}

	printer.Success("recorded %s of %s on %s (%s)\n", tx.Type, tx.Amount, tx.Date, tx.ID)
	return nil
}

func runTxList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	all := k.Transactions(ctx)
	filterYear := txListYear != "" && txListYear != report.AllYears

	var matched []keeper.Transaction
	for _, tx := range all {
		if txListProperty != "" && tx.PropertyID != txListProperty {
			continue
		}
		if filterYear {
			fy, err := report.FinancialYear(tx.Date)
			if err != nil || fy != txListYear {
				continue
			}
		}
		matched = append(matched, tx)
	}

	if txListJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matched)
	}

	if len(matched) == 0 {
		printer.Info("No matching transactions.\n")
		return nil
	}

	printer.Printf("%-10s  %-7s  %-10s  %-24s  %s\n", "DATE", "TYPE", "AMOUNT", "DESCRIPTION", "PROPERTY")
	for _, tx := range matched {
		printer.Printf("%-10s  %-7s  %-10s  %-24s  %s\n", tx.Date, tx.Type, tx.Amount, tx.Description, tx.PropertyID)
	}
	return nil
}
