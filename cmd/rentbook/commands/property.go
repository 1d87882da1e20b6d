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
)

var (
	propertyAddName    string
	propertyAddAddress string
	propertyAddUnit    string
	propertyAddType    string
	propertyAddRent    string
	propertyAddPhotos  []string

	propertyListJSON bool
)

var propertyCmd = &cobra.Command{
	Use:   "property",
	Short: "Manage properties",
}

var propertyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a property",
	Long: `Add a property to the portfolio.

Photos given with --photo are uploaded to the file store first; the
property record is only written once every photo is confirmed stored.

Examples:
  rentbook property add --name "Rose Villa" --address "12 Hill Road" --type House
  rentbook property add --name "Shop 4" --address "Market Lane" --type Shop \
    --rent 800 --photo front.jpg --photo inside.jpg`,
	RunE: runPropertyAdd,
}

var propertyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List properties",
	RunE:  runPropertyList,
}

var propertyShowCmd = &cobra.Command{
	Use:   "show PROPERTY_ID",
	Short: "Show one property with its tenant, documents, and totals",
	Args:  cobra.ExactArgs(1),
	RunE:  runPropertyShow,
}

var propertyDeleteCmd = &cobra.Command{
	Use:   "delete PROPERTY_ID",
	Short: "Delete a property and everything attached to it",
	Long: `Delete a property along with its tenants, transactions, documents,
and every uploaded file any of them reference.

File blobs are removed first; if that fails the records are left
untouched and the command reports the error.`,
	Args: cobra.ExactArgs(1),
	RunE: runPropertyDelete,
}

func init() {
	propertyAddCmd.Flags().StringVar(&propertyAddName, "name", "", "Property name (required)")
	propertyAddCmd.Flags().StringVar(&propertyAddAddress, "address", "", "Street address (required)")
	propertyAddCmd.Flags().StringVar(&propertyAddUnit, "unit", "", "Unit number")
	propertyAddCmd.Flags().StringVar(&propertyAddType, "type", "", "Type: House, Shop, Land, Apartment, or Commercial (required)")
	propertyAddCmd.Flags().StringVar(&propertyAddRent, "rent", "", "Expected monthly rent")
	propertyAddCmd.Flags().StringArrayVar(&propertyAddPhotos, "photo", nil, "Photo file to upload (repeatable)")
	propertyAddCmd.MarkFlagRequired("name")
	propertyAddCmd.MarkFlagRequired("address")
	propertyAddCmd.MarkFlagRequired("type")

	propertyListCmd.Flags().BoolVar(&propertyListJSON, "json", false, "Output in JSON format")

	propertyCmd.AddCommand(propertyAddCmd)
	propertyCmd.AddCommand(propertyListCmd)
	propertyCmd.AddCommand(propertyShowCmd)
	propertyCmd.AddCommand(propertyDeleteCmd)
	rootCmd.AddCommand(propertyCmd)
}

func runPropertyAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Validate everything we can before touching either store.
	p := keeper.Property{
		Name:       propertyAddName,
		Address:    propertyAddAddress,
		UnitNumber: propertyAddUnit,
		Type:       keeper.PropertyType(propertyAddType),
	}
	if err := p.Type.Validate(); err != nil {
		return printer.Error(
			"invalid property type",
			err.Error(),
			[]string{"Valid types: House, Shop, Land, Apartment, Commercial"},
		)
	}
	if propertyAddRent != "" {
		rent, err := decimal.NewFromString(propertyAddRent)
		if err != nil {
			return printer.Error("invalid rent amount", fmt.Sprintf("%q is not a number", propertyAddRent), nil)
		}
		p.ExpectedRent = rent
	}

	files, err := readUploads(propertyAddPhotos)
	if err != nil {
		return err
	}

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	// Blobs first, record second: the record must never reference an
	// unconfirmed upload.
	photoIDs, err := k.UploadFiles(ctx, files)
	if err != nil {
		return printer.Error(
			"failed to process one or more files",
			err.Error(),
			[]string{"No property was created. Re-run once the files are readable."},
		)
	}
	p.PhotoFileIDs = photoIDs

	p, err = k.AddProperty(ctx, p)
	if err != nil {
		return err
	}

	printer.Success("added property %s (%s)\n", p.Name, p.ID)
	if len(photoIDs) > 0 {
		printer.Info("  %d photo(s) uploaded\n", len(photoIDs))
	}
	return nil
}

func runPropertyList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	properties := k.Properties(ctx)

	if propertyListJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(properties)
	}

	if len(properties) == 0 {
		printer.Info("No properties yet. Add one with: rentbook property add\n")
		return nil
	}

	printer.Printf("%-36s  %-20s  %-10s  %-7s  %s\n", "ID", "NAME", "TYPE", "STATUS", "ADDRESS")
	for _, p := range properties {
		name := p.Name
		if p.UnitNumber != "" {
			name = fmt.Sprintf("%s, %s", p.UnitNumber, p.Name)
		}
		printer.Printf("%-36s  %-20s  %-10s  %-7s  %s\n", p.ID, name, p.Type, p.Status, p.Address)
	}
	return nil
}

func runPropertyShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	propertyID := args[0]

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var property *keeper.Property
	for _, p := range k.Properties(ctx) {
		if p.ID == propertyID {
			property = &p
			break
		}
	}
	if property == nil {
		return printer.Error(
			fmt.Sprintf("property %q not found", propertyID),
			"",
			[]string{"List properties:\n  rentbook property list"},
		)
	}

	printer.Printf("%s (%s)\n", property.Name, property.Status)
	printer.Printf("  Address: %s\n", property.Address)
	printer.Printf("  Type:    %s\n", property.Type)
	if !property.ExpectedRent.IsZero() {
		printer.Printf("  Rent:    %s per month (expected)\n", property.ExpectedRent)
	}
	if len(property.PhotoFileIDs) > 0 {
		printer.Printf("  Photos:  %d\n", len(property.PhotoFileIDs))
	}

	for _, t := range k.Tenants(ctx) {
		if t.PropertyID == propertyID {
			printer.Printf("  Tenant:  %s (%s), lease %s to %s, %s per month\n",
				t.Name, t.Mobile, t.LeaseStartDate, t.LeaseEndDate, t.LeaseAmount)
		}
	}

	var docs int
	for _, d := range k.Documents(ctx) {
		if d.PropertyID == propertyID {
			docs++
		}
	}
	if docs > 0 {
		printer.Printf("  Documents: %d\n", docs)
	}
	return nil
}

func runPropertyDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	propertyID := args[0]

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := k.DeleteProperty(ctx, propertyID); err != nil {
		return printer.Error(
			"failed to delete property",
			err.Error(),
			[]string{"Nothing was removed. Fix the underlying problem and re-run."},
		)
	}

	printer.Success("deleted property %s and everything attached to it\n", propertyID)
	return nil
}
