package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rentbook/rentbook/internal/keeper"
	"github.com/rentbook/rentbook/internal/printer"
)

var (
	tenantAddProperty   string
	tenantAddName       string
	tenantAddMobile     string
	tenantAddEmail      string
	tenantAddLeaseStart string
	tenantAddLeaseEnd   string
	tenantAddLeaseTerm  string
	tenantAddRenewal    string
	tenantAddAmount     string
	tenantAddDueDay     int
	tenantAddDeposit    string
	tenantAddCharges    []string
	tenantAddPhoto      string
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenants",
}

var tenantAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a tenant to a property",
	Long: `Add a tenant to a property. The property's status flips to Rented.

Examples:
  rentbook tenant add --property <id> --name "Asha Rahman" --mobile "+880..." \
    --lease-start 2025-01-01 --lease-end 2025-12-31 --amount 1200 --due-day 5`,
	RunE: runTenantAdd,
}

var tenantDeleteCmd = &cobra.Command{
	Use:   "delete TENANT_ID",
	Short: "Remove a tenant and their documents",
	Long: `Remove a tenant, their uploaded documents and photo, and flip the
owning property's status back to Vacant.`,
	Args: cobra.ExactArgs(1),
	RunE: runTenantDelete,
}

func init() {
	tenantAddCmd.Flags().StringVar(&tenantAddProperty, "property", "", "Owning property id (required)")
	tenantAddCmd.Flags().StringVar(&tenantAddName, "name", "", "Tenant name (required)")
	tenantAddCmd.Flags().StringVar(&tenantAddMobile, "mobile", "", "Mobile number (required)")
	tenantAddCmd.Flags().StringVar(&tenantAddEmail, "email", "", "Email address")
	tenantAddCmd.Flags().StringVar(&tenantAddLeaseStart, "lease-start", "", "Lease start date, YYYY-MM-DD (required)")
	tenantAddCmd.Flags().StringVar(&tenantAddLeaseEnd, "lease-end", "", "Lease end date, YYYY-MM-DD (required)")
	tenantAddCmd.Flags().StringVar(&tenantAddLeaseTerm, "lease-term", "", "Lease term description, e.g. \"12 months\"")
	tenantAddCmd.Flags().StringVar(&tenantAddRenewal, "renewal", "", "Renewal date, YYYY-MM-DD")
	tenantAddCmd.Flags().StringVar(&tenantAddAmount, "amount", "", "Monthly lease amount (required)")
	tenantAddCmd.Flags().IntVar(&tenantAddDueDay, "due-day", 1, "Payment due day of month, 1-31")
	tenantAddCmd.Flags().StringVar(&tenantAddDeposit, "deposit", "", "Deposit amount")
	tenantAddCmd.Flags().StringArrayVar(&tenantAddCharges, "inclusive", nil,
		"Charge included in the rent: Light Bill, Government Taxes, Water Charges, Maintenance Charges (repeatable)")
	tenantAddCmd.Flags().StringVar(&tenantAddPhoto, "photo", "", "Tenant photo file to upload")
	tenantAddCmd.MarkFlagRequired("property")
	tenantAddCmd.MarkFlagRequired("name")
	tenantAddCmd.MarkFlagRequired("mobile")
	tenantAddCmd.MarkFlagRequired("lease-start")
	tenantAddCmd.MarkFlagRequired("lease-end")
	tenantAddCmd.MarkFlagRequired("amount")

	tenantCmd.AddCommand(tenantAddCmd)
	tenantCmd.AddCommand(tenantDeleteCmd)
	rootCmd.AddCommand(tenantCmd)
}

func runTenantAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	amount, err := decimal.NewFromString(tenantAddAmount)
	if err != nil {
		return printer.Error("invalid lease amount", fmt.Sprintf("%q is not a number", tenantAddAmount), nil)
	}

	t := keeper.Tenant{
		PropertyID:     tenantAddProperty,
		Name:           tenantAddName,
		Mobile:         tenantAddMobile,
		Email:          tenantAddEmail,
		LeaseStartDate: tenantAddLeaseStart,
		LeaseEndDate:   tenantAddLeaseEnd,
		LeaseTerm:      tenantAddLeaseTerm,
		RenewalDate:    tenantAddRenewal,
		LeaseAmount:    amount,
		PaymentDueDay:  tenantAddDueDay,
	}
	if tenantAddDeposit != "" {
		deposit, err := decimal.NewFromString(tenantAddDeposit)
		if err != nil {
			return printer.Error("invalid deposit", fmt.Sprintf("%q is not a number", tenantAddDeposit), nil)
		}
		t.Deposit = deposit
	}
	for _, charge := range tenantAddCharges {
		t.InclusiveCharges = append(t.InclusiveCharges, keeper.InclusiveCharge(charge))
	}

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if tenantAddPhoto != "" {
		file, err := readUpload(tenantAddPhoto)
		if err != nil {
			return err
		}
		photoID, err := k.UploadFile(ctx, file)
		if err != nil {
			return printer.Error("failed to upload tenant photo", err.Error(), nil)
		}
		t.PhotoFileID = photoID
	}

	t, err = k.AddTenant(ctx, t)
	if err != nil {
		return err
	}

	printer.Success("added tenant %s (%s); property is now Rented\n", t.Name, t.ID)
	return nil
}

func runTenantDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	tenantID := args[0]

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := k.DeleteTenant(ctx, tenantID); err != nil {
		return printer.Error(
			"failed to delete tenant",
			err.Error(),
			[]string{"Nothing was removed. Fix the underlying problem and re-run."},
		)
	}

	printer.Success("deleted tenant %s; property is now Vacant\n", tenantID)
	return nil
}
