package keeper

import (
	"context"
	"fmt"

	"github.com/rentbook/rentbook/pkg/blobstore"
	"github.com/rentbook/rentbook/pkg/recordstore"
)

// Keeper is the orchestration layer over the two stores. It is explicitly
// constructed with its dependencies; there are no package-level singletons.
// Lifecycle: build the stores, build the keeper, Close the stores when done.
type Keeper struct {
	records *recordstore.Store
	blobs   *blobstore.Store
}

// New creates a keeper over the given stores.
func New(records *recordstore.Store, blobs *blobstore.Store) *Keeper {
	return &Keeper{records: records, blobs: blobs}
}

// Properties returns a snapshot of the property collection.
// Mutate the copy, then persist through an Add/Update/Delete operation.
func (k *Keeper) Properties(ctx context.Context) []Property {
	return recordstore.Read(ctx, k.records, recordstore.KeyProperties, []Property{})
}

// Tenants returns a snapshot of the tenant collection.
func (k *Keeper) Tenants(ctx context.Context) []Tenant {
	return recordstore.Read(ctx, k.records, recordstore.KeyTenants, []Tenant{})
}

// Transactions returns a snapshot of the transaction collection.
func (k *Keeper) Transactions(ctx context.Context) []Transaction {
	return recordstore.Read(ctx, k.records, recordstore.KeyTransactions, []Transaction{})
}

// Documents returns a snapshot of the document collection.
func (k *Keeper) Documents(ctx context.Context) []Document {
	return recordstore.Read(ctx, k.records, recordstore.KeyDocuments, []Document{})
}

// Reminders returns a snapshot of the reminder collection.
func (k *Keeper) Reminders(ctx context.Context) []Reminder {
	return recordstore.Read(ctx, k.records, recordstore.KeyReminders, []Reminder{})
}

// Owner returns the owner profile, or the default profile if none has been
// saved yet.
func (k *Keeper) Owner(ctx context.Context) Owner {
	return recordstore.Read(ctx, k.records, recordstore.KeyOwner, DefaultOwner())
}

// SaveOwner validates and persists the owner profile. The singleton id is
// pinned: whatever the caller passes, the stored record keeps OwnerID.
func (k *Keeper) SaveOwner(ctx context.Context, o Owner) error {
	o.ID = OwnerID
	if err := o.Validate(); err != nil {
		return fmt.Errorf("invalid owner: %w", err)
	}
	k.records.Write(ctx, recordstore.KeyOwner, o)
	return nil
}

// Theme returns the stored theme preference, defaulting to light.
func (k *Keeper) Theme(ctx context.Context) Theme {
	return recordstore.Read(ctx, k.records, recordstore.KeyTheme, ThemeLight)
}

// SaveTheme validates and persists the theme preference.
func (k *Keeper) SaveTheme(ctx context.Context, th Theme) error {
	if err := th.Validate(); err != nil {
		return err
	}
	k.records.Write(ctx, recordstore.KeyTheme, th)
	return nil
}

// UploadFile stores one file and returns its blob id. The caller embeds the
// id in a record afterwards - never the other way round.
func (k *Keeper) UploadFile(ctx context.Context, file blobstore.File) (string, error) {
	return k.blobs.Put(ctx, file)
}

// UploadFiles stores a batch of files, returning blob ids in input order.
// A single failure rejects the whole batch; already-stored blobs remain.
func (k *Keeper) UploadFiles(ctx context.Context, files []blobstore.File) ([]string, error) {
	return k.blobs.PutAll(ctx, files)
}

// FetchFile retrieves a stored file. A missing id reports
// blobstore.IsNotFound; callers show a placeholder rather than fail.
func (k *Keeper) FetchFile(ctx context.Context, fileID string) (*blobstore.Blob, error) {
	return k.blobs.Get(ctx, fileID)
}

// RemoveFile deletes one blob. Idempotent.
func (k *Keeper) RemoveFile(ctx context.Context, fileID string) error {
	return k.blobs.Delete(ctx, fileID)
}

// RemoveFiles deletes a batch of blobs as one logical operation.
func (k *Keeper) RemoveFiles(ctx context.Context, fileIDs []string) error {
	return k.blobs.DeleteMany(ctx, fileIDs)
}

// Subscribe watches a record collection for changes made by other processes.
// Self-writes through this keeper do not fire the subscription.
func (k *Keeper) Subscribe(ctx context.Context, key string) (*recordstore.Subscription, error) {
	return k.records.Subscribe(ctx, key)
}

// ResetAllData clears every record collection back to its default and empties
// the blob store. The record keys are cleared in sequence - the operation is
// not atomic across keys - and the blob store is emptied last.
func (k *Keeper) ResetAllData(ctx context.Context) error {
	for _, key := range recordstore.AllKeys() {
		k.records.Clear(ctx, key)
	}
	if err := k.blobs.DeleteAll(ctx); err != nil {
		return fmt.Errorf("records cleared but blob store reset failed: %w", err)
	}
	return nil
}
