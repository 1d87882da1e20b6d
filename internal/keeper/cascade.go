package keeper

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentbook/rentbook/pkg/recordstore"
)

// Cascade rules
//
// Blob deletion always runs before record removal, and a blob deletion
// failure aborts the whole operation with both stores untouched. The failure
// direction this buys: a crash mid-cascade can leave orphan blobs (a resource
// leak, cleaned up by later explicit deletes or reset), never a record
// pointing at a blob that was silently dropped with no recovery path.
//
// The same policy applies uniformly to every delete path.

// AddProperty validates and persists a new property. Photo blobs must already
// be stored - the ids in PhotoFileIDs are taken as confirmed. A missing id is
// generated; status defaults to Vacant.
func (k *Keeper) AddProperty(ctx context.Context, p Property) (Property, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = PropertyStatusVacant
	}
	if p.OwnerID == "" {
		p.OwnerID = OwnerID
	}
	if err := p.Validate(); err != nil {
		return Property{}, fmt.Errorf("invalid property: %w", err)
	}

	properties := append(k.Properties(ctx), p)
	k.records.Write(ctx, recordstore.KeyProperties, properties)
	return p, nil
}

// UpdateProperty replaces a property record. removedPhotoIDs lists photo blobs
// no longer referenced by the final PhotoFileIDs; their blobs are deleted
// before the record is written. Newly added photos must already be uploaded.
// Removals and additions touch disjoint ids, so their relative order is free.
func (k *Keeper) UpdateProperty(ctx context.Context, p Property, removedPhotoIDs []string) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid property: %w", err)
	}

	properties := k.Properties(ctx)
	idx := -1
	for i := range properties {
		if properties[i].ID == p.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("property %q not found", p.ID)
	}

	if err := k.blobs.DeleteMany(ctx, removedPhotoIDs); err != nil {
		return fmt.Errorf("failed to delete removed photos: %w", err)
	}

	properties[idx] = p
	k.records.Write(ctx, recordstore.KeyProperties, properties)
	return nil
}

// DeleteProperty removes a property and everything that hangs off it: its
// photo blobs, its transactions (and their receipt blobs), its documents, its
// tenants, and those tenants' documents and photos. All referenced blobs are
// deleted in one batch before any record is removed.
func (k *Keeper) DeleteProperty(ctx context.Context, propertyID string) error {
	properties := k.Properties(ctx)
	var target *Property
	for i := range properties {
		if properties[i].ID == propertyID {
			target = &properties[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("property %q not found", propertyID)
	}

	tenants := k.Tenants(ctx)
	documents := k.Documents(ctx)
	transactions := k.Transactions(ctx)

	ownedTenant := make(map[string]bool)
	for _, t := range tenants {
		if t.PropertyID == propertyID {
			ownedTenant[t.ID] = true
		}
	}

	// Union of every blob id the property's subtree references.
	var blobIDs []string
	blobIDs = append(blobIDs, target.PhotoFileIDs...)
	for _, t := range tenants {
		if ownedTenant[t.ID] && t.PhotoFileID != "" {
			blobIDs = append(blobIDs, t.PhotoFileID)
		}
	}
	for _, d := range documents {
		if d.PropertyID == propertyID || ownedTenant[d.TenantID] {
			blobIDs = append(blobIDs, d.FileID)
		}
	}
	for _, tx := range transactions {
		if tx.PropertyID == propertyID {
			blobIDs = append(blobIDs, tx.ReceiptFileIDs...)
		}
	}

	if err := k.blobs.DeleteMany(ctx, blobIDs); err != nil {
		return fmt.Errorf("cascade aborted, records untouched: %w", err)
	}

	remainingProperties := properties[:0]
	for _, p := range properties {
		if p.ID != propertyID {
			remainingProperties = append(remainingProperties, p)
		}
	}
	remainingTransactions := transactions[:0]
	for _, tx := range transactions {
		if tx.PropertyID != propertyID {
			remainingTransactions = append(remainingTransactions, tx)
		}
	}
	remainingTenants := tenants[:0]
	for _, t := range tenants {
		if t.PropertyID != propertyID {
			remainingTenants = append(remainingTenants, t)
		}
	}
	remainingDocuments := documents[:0]
	for _, d := range documents {
		if d.PropertyID != propertyID && !ownedTenant[d.TenantID] {
			remainingDocuments = append(remainingDocuments, d)
		}
	}

	k.records.Write(ctx, recordstore.KeyProperties, remainingProperties)
	k.records.Write(ctx, recordstore.KeyTransactions, remainingTransactions)
	k.records.Write(ctx, recordstore.KeyTenants, remainingTenants)
	k.records.Write(ctx, recordstore.KeyDocuments, remainingDocuments)
	return nil
}

// AddTenant validates and persists a new tenant, then flips the owning
// property's status to Rented. The tenant's photo, if any, must already be
// uploaded.
func (k *Keeper) AddTenant(ctx context.Context, t Tenant) (Tenant, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if err := t.Validate(); err != nil {
		return Tenant{}, fmt.Errorf("invalid tenant: %w", err)
	}

	properties := k.Properties(ctx)
	idx := -1
	for i := range properties {
		if properties[i].ID == t.PropertyID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Tenant{}, fmt.Errorf("property %q not found", t.PropertyID)
	}

	k.records.Write(ctx, recordstore.KeyTenants, append(k.Tenants(ctx), t))

	properties[idx].Status = PropertyStatusRented
	k.records.Write(ctx, recordstore.KeyProperties, properties)
	return t, nil
}

// DeleteTenant removes a tenant, their documents and document blobs, and their
// photo blob, then sets the owning property's status back to Vacant regardless
// of its prior value.
func (k *Keeper) DeleteTenant(ctx context.Context, tenantID string) error {
	tenants := k.Tenants(ctx)
	var target *Tenant
	for i := range tenants {
		if tenants[i].ID == tenantID {
			target = &tenants[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("tenant %q not found", tenantID)
	}

	documents := k.Documents(ctx)
	var blobIDs []string
	if target.PhotoFileID != "" {
		blobIDs = append(blobIDs, target.PhotoFileID)
	}
	for _, d := range documents {
		if d.TenantID == tenantID {
			blobIDs = append(blobIDs, d.FileID)
		}
	}

	if err := k.blobs.DeleteMany(ctx, blobIDs); err != nil {
		return fmt.Errorf("cascade aborted, records untouched: %w", err)
	}

	remainingDocuments := documents[:0]
	for _, d := range documents {
		if d.TenantID != tenantID {
			remainingDocuments = append(remainingDocuments, d)
		}
	}
	k.records.Write(ctx, recordstore.KeyDocuments, remainingDocuments)

	propertyID := target.PropertyID
	remainingTenants := tenants[:0]
	for _, t := range tenants {
		if t.ID != tenantID {
			remainingTenants = append(remainingTenants, t)
		}
	}
	k.records.Write(ctx, recordstore.KeyTenants, remainingTenants)

	properties := k.Properties(ctx)
	for i := range properties {
		if properties[i].ID == propertyID {
			properties[i].Status = PropertyStatusVacant
		}
	}
	k.records.Write(ctx, recordstore.KeyProperties, properties)
	return nil
}

// AddDocument validates and persists a document record. The blob it references
// must already be stored: upload first, obtain the id, then call this.
func (k *Keeper) AddDocument(ctx context.Context, d Document) (Document, error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	if err := d.Validate(); err != nil {
		return Document{}, fmt.Errorf("invalid document: %w", err)
	}

	k.records.Write(ctx, recordstore.KeyDocuments, append(k.Documents(ctx), d))
	return d, nil
}

// DeleteDocument removes a document and its blob, blob first. If the blob
// deletion fails the record survives, pointing at a degraded blob - preferable
// to a dangling reference with no recovery path.
func (k *Keeper) DeleteDocument(ctx context.Context, documentID string) error {
	documents := k.Documents(ctx)
	var target *Document
	for i := range documents {
		if documents[i].ID == documentID {
			target = &documents[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("document %q not found", documentID)
	}

	if err := k.blobs.Delete(ctx, target.FileID); err != nil {
		return fmt.Errorf("cascade aborted, record untouched: %w", err)
	}

	remaining := documents[:0]
	for _, d := range documents {
		if d.ID != documentID {
			remaining = append(remaining, d)
		}
	}
	k.records.Write(ctx, recordstore.KeyDocuments, remaining)
	return nil
}

// AddTransaction validates and persists a transaction. Receipt blobs must
// already be uploaded.
func (k *Keeper) AddTransaction(ctx context.Context, tx Transaction) (Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, fmt.Errorf("invalid transaction: %w", err)
	}

	k.records.Write(ctx, recordstore.KeyTransactions, append(k.Transactions(ctx), tx))
	return tx, nil
}

// AddReminder validates and persists a reminder.
func (k *Keeper) AddReminder(ctx context.Context, r Reminder) (Reminder, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if err := r.Validate(); err != nil {
		return Reminder{}, fmt.Errorf("invalid reminder: %w", err)
	}

	k.records.Write(ctx, recordstore.KeyReminders, append(k.Reminders(ctx), r))
	return r, nil
}
