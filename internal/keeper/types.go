// Package keeper holds the rentbook domain model and the orchestration layer
// that keeps the record store and the blob store referentially consistent.
//
// Neither store enforces foreign keys: a Property's photo ids and a Document's
// file id point into the blob store by convention only. The keeper upholds the
// discipline the stores cannot - blobs are written before the records that
// reference them, and cascade deletes remove dependent records and their blobs
// together.
package keeper

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayout is the storage format for all date fields.
const dateLayout = "2006-01-02"

// OwnerID is the fixed id of the singleton owner profile record.
const OwnerID = "owner_1"

// PropertyType classifies a property.
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "House"
	PropertyTypeShop       PropertyType = "Shop"
	PropertyTypeLand       PropertyType = "Land"
	PropertyTypeApartment  PropertyType = "Apartment"
	PropertyTypeCommercial PropertyType = "Commercial"
)

// PropertyStatus tracks occupancy. It is maintained by tenant lifecycle
// transitions: adding a tenant flips the property to Rented, removing the
// tenant flips it back to Vacant.
type PropertyStatus string

const (
	PropertyStatusVacant PropertyStatus = "Vacant"
	PropertyStatusRented PropertyStatus = "Rented"
)

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "Income"
	TransactionTypeExpense TransactionType = "Expense"
)

// PaymentMode records how a transaction was settled.
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "Cash"
	PaymentModeBankTransfer PaymentMode = "Bank Transfer"
	PaymentModeCreditCard   PaymentMode = "Credit Card"
)

// ExpenseCategory buckets expense transactions. Required when the transaction
// type is Expense.
type ExpenseCategory string

const (
	ExpenseCategoryDeprecation         ExpenseCategory = "Deprecation"
	ExpenseCategoryCleaningMaintenance ExpenseCategory = "CleaningMaintenance"
	ExpenseCategoryTaxes               ExpenseCategory = "Taxes"
	ExpenseCategoryAutoAndTravel       ExpenseCategory = "AutoAndTravel"
	ExpenseCategoryOther               ExpenseCategory = "Other"
	ExpenseCategoryRepairs             ExpenseCategory = "Repairs"
)

// InclusiveCharge enumerates charges a lease amount may cover.
type InclusiveCharge string

const (
	InclusiveChargeLightBill          InclusiveCharge = "Light Bill"
	InclusiveChargeGovernmentTaxes    InclusiveCharge = "Government Taxes"
	InclusiveChargeWaterCharges       InclusiveCharge = "Water Charges"
	InclusiveChargeMaintenanceCharges InclusiveCharge = "Maintenance Charges"
)

// Theme is the UI theme preference, stored as its own record key.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Property is a rentable unit. PhotoFileIDs is an ordered list of blob-store
// keys; every id must reference a live blob until the property (or the
// reference itself) is deleted.
type Property struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	UnitNumber   string          `json:"unit_number,omitempty"`
	Type         PropertyType    `json:"type"`
	Status       PropertyStatus  `json:"status"`
	OwnerID      string          `json:"owner_id"`
	PhotoFileIDs []string        `json:"photo_file_ids"`
	ExpectedRent decimal.Decimal `json:"expected_rent"`
}

// Tenant occupies a property. Current usage keeps one active tenant per
// property; the detail views assume it but the stores do not enforce it.
type Tenant struct {
	ID               string            `json:"id"`
	PropertyID       string            `json:"property_id"`
	Name             string            `json:"name"`
	Mobile           string            `json:"mobile"`
	Email            string            `json:"email,omitempty"`
	LeaseStartDate   string            `json:"lease_start_date"`
	LeaseEndDate     string            `json:"lease_end_date"`
	LeaseTerm        string            `json:"lease_term,omitempty"`
	RenewalDate      string            `json:"renewal_date,omitempty"`
	LeaseAmount      decimal.Decimal   `json:"lease_amount"`
	PaymentDueDay    int               `json:"payment_due_day"`
	Deposit          decimal.Decimal   `json:"deposit"`
	InclusiveCharges []InclusiveCharge `json:"inclusive_charges,omitempty"`
	PhotoFileID      string            `json:"photo_file_id,omitempty"`
}

// Transaction is one income or expense entry against a property. Transactions
// are removed only when their property is deleted.
type Transaction struct {
	ID             string          `json:"id"`
	PropertyID     string          `json:"property_id"`
	Type           TransactionType `json:"type"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Date           string          `json:"date"`
	PaymentMode    PaymentMode     `json:"payment_mode,omitempty"`
	TenantName     string          `json:"tenant_name,omitempty"`
	Remarks        string          `json:"remarks,omitempty"`
	ReceiptFileIDs []string        `json:"receipt_file_ids,omitempty"`
	Category       ExpenseCategory `json:"category,omitempty"`
}

// Document is an uploaded file attached to exactly one of a property or a
// tenant. FileID is the foreign key into the blob store.
type Document struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id,omitempty"`
	TenantID    string    `json:"tenant_id,omitempty"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	FileID      string    `json:"file_id"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Owner is the singleton profile of the person running the books.
type Owner struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PhotoFileID string `json:"photo_file_id,omitempty"`
}

// Reminder is a dated note to self. Append-only collection.
type Reminder struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	DueDate string `json:"due_date,omitempty"`
	Note    string `json:"note,omitempty"`
}

// DefaultOwner returns the owner profile used before the user edits it.
func DefaultOwner() Owner {
	return Owner{
		ID:      OwnerID,
		Name:    "John Doe",
		Phone:   "+61 412 345 678",
		Email:   "john.doe@example.com",
		Address: "123 Example St, Sydney, NSW 2000",
	}
}

// Validate checks if the PropertyType is a valid enum value.
func (pt PropertyType) Validate() error {
	switch pt {
	case PropertyTypeHouse, PropertyTypeShop, PropertyTypeLand,
		PropertyTypeApartment, PropertyTypeCommercial:
		return nil
	default:
		return fmt.Errorf("unknown property type: %q", pt)
	}
}

// Validate checks if the PropertyStatus is a valid enum value.
func (ps PropertyStatus) Validate() error {
	switch ps {
	case PropertyStatusVacant, PropertyStatusRented:
		return nil
	default:
		return fmt.Errorf("unknown property status: %q", ps)
	}
}

// Validate checks if the TransactionType is a valid enum value.
func (tt TransactionType) Validate() error {
	switch tt {
	case TransactionTypeIncome, TransactionTypeExpense:
		return nil
	default:
		return fmt.Errorf("unknown transaction type: %q", tt)
	}
}

// Validate checks if the PaymentMode is a valid enum value.
func (pm PaymentMode) Validate() error {
	switch pm {
	case PaymentModeCash, PaymentModeBankTransfer, PaymentModeCreditCard:
		return nil
	default:
		return fmt.Errorf("unknown payment mode: %q", pm)
	}
}

// Validate checks if the ExpenseCategory is a valid enum value.
func (ec ExpenseCategory) Validate() error {
	switch ec {
	case ExpenseCategoryDeprecation, ExpenseCategoryCleaningMaintenance,
		ExpenseCategoryTaxes, ExpenseCategoryAutoAndTravel,
		ExpenseCategoryOther, ExpenseCategoryRepairs:
		return nil
	default:
		return fmt.Errorf("unknown expense category: %q", ec)
	}
}

// Validate checks if the InclusiveCharge is a valid enum value.
func (ic InclusiveCharge) Validate() error {
	switch ic {
	case InclusiveChargeLightBill, InclusiveChargeGovernmentTaxes,
		InclusiveChargeWaterCharges, InclusiveChargeMaintenanceCharges:
		return nil
	default:
		return fmt.Errorf("unknown inclusive charge: %q", ic)
	}
}

// Validate checks if the Theme is a valid enum value.
func (th Theme) Validate() error {
	switch th {
	case ThemeLight, ThemeDark, ThemeSystem:
		return nil
	default:
		return fmt.Errorf("unknown theme: %q", th)
	}
}

// Validate checks if the Property has valid field values.
func (p *Property) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("property id cannot be empty")
	}
	if p.Name == "" {
		return fmt.Errorf("property name cannot be empty")
	}
	if p.Address == "" {
		return fmt.Errorf("property address cannot be empty")
	}
	if err := p.Type.Validate(); err != nil {
		return fmt.Errorf("invalid property type: %w", err)
	}
	if err := p.Status.Validate(); err != nil {
		return fmt.Errorf("invalid property status: %w", err)
	}
	if p.OwnerID == "" {
		return fmt.Errorf("property owner id cannot be empty")
	}
	if p.ExpectedRent.IsNegative() {
		return fmt.Errorf("expected rent cannot be negative")
	}
	return nil
}

// Validate checks if the Tenant has valid field values.
func (t *Tenant) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tenant id cannot be empty")
	}
	if t.PropertyID == "" {
		return fmt.Errorf("tenant property id cannot be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("tenant name cannot be empty")
	}
	if t.Mobile == "" {
		return fmt.Errorf("tenant mobile cannot be empty")
	}
	if err := validateDate(t.LeaseStartDate); err != nil {
		return fmt.Errorf("invalid lease start date: %w", err)
	}
	if err := validateDate(t.LeaseEndDate); err != nil {
		return fmt.Errorf("invalid lease end date: %w", err)
	}
	if t.RenewalDate != "" {
		if err := validateDate(t.RenewalDate); err != nil {
			return fmt.Errorf("invalid renewal date: %w", err)
		}
	}
	if !t.LeaseAmount.IsPositive() {
		return fmt.Errorf("lease amount must be positive, got %s", t.LeaseAmount)
	}
	if t.PaymentDueDay < 1 || t.PaymentDueDay > 31 {
		return fmt.Errorf("payment due day must be between 1 and 31, got %d", t.PaymentDueDay)
	}
	if t.Deposit.IsNegative() {
		return fmt.Errorf("deposit cannot be negative")
	}
	for i, charge := range t.InclusiveCharges {
		if err := charge.Validate(); err != nil {
			return fmt.Errorf("invalid inclusive charge at index %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks if the Transaction has valid field values.
// A category is required when the type is Expense.
func (tx *Transaction) Validate() error {
	if tx.ID == "" {
		return fmt.Errorf("transaction id cannot be empty")
	}
	if tx.PropertyID == "" {
		return fmt.Errorf("transaction property id cannot be empty")
	}
	if err := tx.Type.Validate(); err != nil {
		return fmt.Errorf("invalid transaction type: %w", err)
	}
	if tx.Description == "" {
		return fmt.Errorf("transaction description cannot be empty")
	}
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", tx.Amount)
	}
	if err := validateDate(tx.Date); err != nil {
		return fmt.Errorf("invalid transaction date: %w", err)
	}
	if tx.PaymentMode != "" {
		if err := tx.PaymentMode.Validate(); err != nil {
			return fmt.Errorf("invalid payment mode: %w", err)
		}
	}
	switch tx.Type {
	case TransactionTypeExpense:
		if tx.Category == "" {
			return fmt.Errorf("expense transactions require a category")
		}
		if err := tx.Category.Validate(); err != nil {
			return fmt.Errorf("invalid expense category: %w", err)
		}
	case TransactionTypeIncome:
		if tx.Category != "" {
			return fmt.Errorf("income transactions cannot carry an expense category")
		}
	}
	return nil
}

// Validate checks if the Document has valid field values.
// Exactly one of PropertyID or TenantID must be set - a document belongs to a
// property or a tenant, never both and never neither.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document id cannot be empty")
	}
	if d.PropertyID == "" && d.TenantID == "" {
		return fmt.Errorf("document must belong to a property or a tenant")
	}
	if d.PropertyID != "" && d.TenantID != "" {
		return fmt.Errorf("document cannot belong to both a property and a tenant")
	}
	if d.Name == "" {
		return fmt.Errorf("document name cannot be empty")
	}
	if d.FileID == "" {
		return fmt.Errorf("document file id cannot be empty")
	}
	return nil
}

// Validate checks if the Owner has valid field values.
func (o *Owner) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("owner id cannot be empty")
	}
	if o.Name == "" {
		return fmt.Errorf("owner name cannot be empty")
	}
	return nil
}

// Validate checks if the Reminder has valid field values.
func (r *Reminder) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("reminder id cannot be empty")
	}
	if r.Title == "" {
		return fmt.Errorf("reminder title cannot be empty")
	}
	if r.DueDate != "" {
		if err := validateDate(r.DueDate); err != nil {
			return fmt.Errorf("invalid reminder due date: %w", err)
		}
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	return nil
}
