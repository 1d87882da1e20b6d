package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rentbook/rentbook/internal/keeper"
	"github.com/rentbook/rentbook/internal/printer"
	"github.com/rentbook/rentbook/pkg/blobstore"
)

var (
	docAddProperty string
	docAddTenant   string
	docAddFile     string
	docAddName     string

	docListJSON bool

	docGetOut string
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage uploaded documents",
}

var docAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Upload a document for a property or a tenant",
	Long: `Upload a document and attach it to exactly one of a property or a
tenant. The file is stored first; the document record is only written
once the upload is confirmed.

Examples:
  rentbook doc add --property <id> --file deed.pdf
  rentbook doc add --tenant <id> --file lease.pdf --name "Signed lease"`,
	RunE: runDocAdd,
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE:  runDocList,
}

var docGetCmd = &cobra.Command{
	Use:   "get DOCUMENT_ID",
	Short: "Download a document's file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocGet,
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete DOCUMENT_ID",
	Short: "Delete a document and its stored file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocDelete,
}

func init() {
	docAddCmd.Flags().StringVar(&docAddProperty, "property", "", "Attach to this property")
	docAddCmd.Flags().StringVar(&docAddTenant, "tenant", "", "Attach to this tenant")
	docAddCmd.Flags().StringVar(&docAddFile, "file", "", "File to upload (required)")
	docAddCmd.Flags().StringVar(&docAddName, "name", "", "Display name (defaults to the file name)")
	docAddCmd.MarkFlagRequired("file")

	docListCmd.Flags().BoolVar(&docListJSON, "json", false, "Output in JSON format")

	docGetCmd.Flags().StringVar(&docGetOut, "out", "", "Write to this path (defaults to the document name)")

	docCmd.AddCommand(docAddCmd)
	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docGetCmd)
	docCmd.AddCommand(docDeleteCmd)
	rootCmd.AddCommand(docCmd)
}

func runDocAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if (docAddProperty == "") == (docAddTenant == "") {
		return printer.Error(
			"document needs exactly one owner",
			"Pass --property or --tenant, not both and not neither.",
			nil,
		)
	}

	file, err := readUpload(docAddFile)
	if err != nil {
		return err
	}
	name := docAddName
	if name == "" {
		name = file.Name
	}

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	fileID, err := k.UploadFile(ctx, file)
	if err != nil {
		return printer.Error("failed to store the file", err.Error(), nil)
	}

	doc, err := k.AddDocument(ctx, keeper.Document{
		PropertyID:  docAddProperty,
		TenantID:    docAddTenant,
		Name:        name,
		ContentType: file.ContentType,
		FileID:      fileID,
	})
	if err != nil {
		return err
	}

	printer.Success("uploaded %s (%s)\n", doc.Name, doc.ID)
	return nil
}

func runDocList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	documents := k.Documents(ctx)

	if docListJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(documents)
	}

	if len(documents) == 0 {
		printer.Info("No documents yet.\n")
		return nil
	}

	printer.Printf("%-36s  %-24s  %-24s  %s\n", "ID", "NAME", "TYPE", "OWNER")
	for _, d := range documents {
		owner := "property " + d.PropertyID
		if d.TenantID != "" {
			owner = "tenant " + d.TenantID
		}
		printer.Printf("%-36s  %-24s  %-24s  %s\n", d.ID, d.Name, d.ContentType, owner)
	}
	return nil
}

func runDocGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	documentID := args[0]

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var doc *keeper.Document
	for _, d := range k.Documents(ctx) {
		if d.ID == documentID {
			doc = &d
			break
		}
	}
	if doc == nil {
		return printer.Error(
			fmt.Sprintf("document %q not found", documentID),
			"",
			[]string{"List documents:\n  rentbook doc list"},
		)
	}

	blob, err := k.FetchFile(ctx, doc.FileID)
	if err != nil {
		if blobstore.IsNotFound(err) {
			// The record survived a blob-side failure at some point;
			// surface the degraded state rather than a crash.
			return printer.Error(
				"the document's file is missing from the store",
				fmt.Sprintf("Document %s exists but its file %s is gone.", doc.ID, doc.FileID),
				[]string{"Delete the record:\n  rentbook doc delete " + doc.ID},
			)
		}
		return err
	}

	out := docGetOut
	if out == "" {
		out = doc.Name
	}
	if err := os.WriteFile(out, blob.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	printer.Success("wrote %s (%d bytes)\n", out, len(blob.Data))
	return nil
}

func runDocDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	documentID := args[0]

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := k.DeleteDocument(ctx, documentID); err != nil {
		return printer.Error(
			"failed to delete document",
			err.Error(),
			[]string{"Nothing was removed. Fix the underlying problem and re-run."},
		)
	}

	printer.Success("deleted document %s\n", documentID)
	return nil
}
