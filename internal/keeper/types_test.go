package keeper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionValidate(t *testing.T) {
	base := Transaction{
		ID:          "tx-1",
		PropertyID:  "p-1",
		Type:        TransactionTypeIncome,
		Description: "January rent",
		Amount:      decimal.NewFromInt(1200),
		Date:        "2025-01-05",
	}

	t.Run("valid income", func(t *testing.T) {
		tx := base
		assert.NoError(t, tx.Validate())
	})

	t.Run("expense requires a category", func(t *testing.T) {
		tx := base
		tx.Type = TransactionTypeExpense
		err := tx.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "require a category")

		tx.Category = ExpenseCategoryRepairs
		assert.NoError(t, tx.Validate())
	})

	t.Run("income cannot carry a category", func(t *testing.T) {
		tx := base
		tx.Category = ExpenseCategoryOther
		assert.Error(t, tx.Validate())
	})

	t.Run("amount must be positive", func(t *testing.T) {
		tx := base
		tx.Amount = decimal.Zero
		assert.Error(t, tx.Validate())

		tx.Amount = decimal.NewFromInt(-50)
		assert.Error(t, tx.Validate())
	})

	t.Run("date must be YYYY-MM-DD", func(t *testing.T) {
		tx := base
		tx.Date = "05/01/2025"
		err := tx.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "YYYY-MM-DD")
	})

	t.Run("unknown payment mode is rejected", func(t *testing.T) {
		tx := base
		tx.PaymentMode = "Barter"
		assert.Error(t, tx.Validate())
	})
}

func TestTenantValidate(t *testing.T) {
	base := Tenant{
		ID:             "t-1",
		PropertyID:     "p-1",
		Name:           "Asha Rahman",
		Mobile:         "+880 1712 000000",
		LeaseStartDate: "2025-01-01",
		LeaseEndDate:   "2025-12-31",
		LeaseAmount:    decimal.NewFromInt(1200),
		PaymentDueDay:  5,
	}

	t.Run("valid tenant", func(t *testing.T) {
		tn := base
		assert.NoError(t, tn.Validate())
	})

	t.Run("payment due day bounds", func(t *testing.T) {
		for _, day := range []int{0, 32, -3} {
			tn := base
			tn.PaymentDueDay = day
			assert.Error(t, tn.Validate(), "day %d should be rejected", day)
		}
		for _, day := range []int{1, 15, 31} {
			tn := base
			tn.PaymentDueDay = day
			assert.NoError(t, tn.Validate(), "day %d should be accepted", day)
		}
	})

	t.Run("unknown inclusive charge is rejected", func(t *testing.T) {
		tn := base
		tn.InclusiveCharges = []InclusiveCharge{InclusiveChargeLightBill, "Wifi"}
		err := tn.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index 1")
	})

	t.Run("lease amount must be positive", func(t *testing.T) {
		tn := base
		tn.LeaseAmount = decimal.Zero
		assert.Error(t, tn.Validate())
	})
}

func TestDocumentValidate(t *testing.T) {
	t.Run("property-owned document", func(t *testing.T) {
		d := Document{ID: "d-1", PropertyID: "p-1", Name: "deed.pdf", ContentType: "application/pdf", FileID: "f-1"}
		assert.NoError(t, d.Validate())
	})

	t.Run("tenant-owned document", func(t *testing.T) {
		d := Document{ID: "d-1", TenantID: "t-1", Name: "lease.pdf", ContentType: "application/pdf", FileID: "f-1"}
		assert.NoError(t, d.Validate())
	})

	t.Run("missing file id", func(t *testing.T) {
		d := Document{ID: "d-1", PropertyID: "p-1", Name: "deed.pdf", ContentType: "application/pdf"}
		assert.Error(t, d.Validate())
	})
}

func TestEnumValidate(t *testing.T) {
	assert.NoError(t, PropertyTypeShop.Validate())
	assert.Error(t, PropertyType("Castle").Validate())

	assert.NoError(t, PropertyStatusRented.Validate())
	assert.Error(t, PropertyStatus("Occupied").Validate())

	assert.NoError(t, ExpenseCategoryCleaningMaintenance.Validate())
	assert.Error(t, ExpenseCategory("Gardening").Validate())

	assert.NoError(t, ThemeSystem.Validate())
	assert.Error(t, Theme("sepia").Validate())
}
