package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rentbook/rentbook/internal/printer"
)

var (
	ownerSetName    string
	ownerSetPhone   string
	ownerSetEmail   string
	ownerSetAddress string
	ownerSetPhoto   string
)

var ownerCmd = &cobra.Command{
	Use:   "owner",
	Short: "Show or update the owner profile",
}

var ownerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the owner profile",
	RunE:  runOwnerShow,
}

var ownerSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the owner profile",
	Long: `Update the owner profile. Only the flags you pass change; the rest
of the profile keeps its current values.`,
	RunE: runOwnerSet,
}

func init() {
	ownerSetCmd.Flags().StringVar(&ownerSetName, "name", "", "Owner name")
	ownerSetCmd.Flags().StringVar(&ownerSetPhone, "phone", "", "Phone number")
	ownerSetCmd.Flags().StringVar(&ownerSetEmail, "email", "", "Email address")
	ownerSetCmd.Flags().StringVar(&ownerSetAddress, "address", "", "Postal address")
	ownerSetCmd.Flags().StringVar(&ownerSetPhoto, "photo", "", "Profile photo file to upload")

	ownerCmd.AddCommand(ownerShowCmd)
	ownerCmd.AddCommand(ownerSetCmd)
	rootCmd.AddCommand(ownerCmd)
}

func runOwnerShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	owner := k.Owner(ctx)
	printer.Printf("%s\n", owner.Name)
	printer.Printf("  Phone:   %s\n", owner.Phone)
	printer.Printf("  Email:   %s\n", owner.Email)
	printer.Printf("  Address: %s\n", owner.Address)
	return nil
}

func runOwnerSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	owner := k.Owner(ctx)
	if ownerSetName != "" {
		owner.Name = ownerSetName
	}
	if ownerSetPhone != "" {
		owner.Phone = ownerSetPhone
	}
	if ownerSetEmail != "" {
		owner.Email = ownerSetEmail
	}
	if ownerSetAddress != "" {
		owner.Address = ownerSetAddress
	}
	if ownerSetPhoto != "" {
		file, err := readUpload(ownerSetPhoto)
		if err != nil {
			return err
		}
		// Replace the old photo blob, upload first.
		photoID, err := k.UploadFile(ctx, file)
		if err != nil {
			return printer.Error("failed to upload photo", err.Error(), nil)
		}
		if owner.PhotoFileID != "" {
			if err := k.RemoveFile(ctx, owner.PhotoFileID); err != nil {
				printer.Warning("old profile photo could not be removed: %v\n", err)
			}
		}
		owner.PhotoFileID = photoID
	}

	if err := k.SaveOwner(ctx, owner); err != nil {
		return err
	}

	printer.Success("owner profile updated\n")
	return nil
}
