package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentbook/rentbook/internal/keeper"
)

func TestFinancialYear(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-07-01", "2025-2026"}, // first day of a new financial year
		{"2025-06-30", "2024-2025"}, // last day of the old one
		{"2025-01-15", "2024-2025"},
		{"2025-12-31", "2025-2026"},
	}

	for _, tc := range tests {
		got, err := FinancialYear(tc.date)
		require.NoError(t, err, tc.date)
		assert.Equal(t, tc.want, got, tc.date)
	}

	_, err := FinancialYear("not-a-date")
	assert.Error(t, err)
}

func testTransactions() []keeper.Transaction {
	income := func(property, date string, amount int64) keeper.Transaction {
		return keeper.Transaction{
			PropertyID: property, Type: keeper.TransactionTypeIncome,
			Amount: decimal.NewFromInt(amount), Date: date, Description: "rent",
		}
	}
	expense := func(property, date string, amount int64) keeper.Transaction {
		return keeper.Transaction{
			PropertyID: property, Type: keeper.TransactionTypeExpense,
			Amount: decimal.NewFromInt(amount), Date: date, Description: "repair",
			Category: keeper.ExpenseCategoryRepairs,
		}
	}

	return []keeper.Transaction{
		income("p1", "2024-08-01", 1200),
		income("p1", "2025-06-01", 1200),
		expense("p1", "2024-09-10", 300),
		income("p1", "2025-07-15", 1300), // next financial year
		income("p2", "2024-08-01", 800),
		expense("p2", "2025-07-02", 150), // next financial year
	}
}

func TestSummarize(t *testing.T) {
	txs := testTransactions()

	t.Run("all properties, all years", func(t *testing.T) {
		s := Summarize(txs, "", AllYears)
		assert.True(t, s.Income.Equal(decimal.NewFromInt(4500)), "income %s", s.Income)
		assert.True(t, s.Expense.Equal(decimal.NewFromInt(450)), "expense %s", s.Expense)
		assert.True(t, s.Net().Equal(decimal.NewFromInt(4050)), "net %s", s.Net())
		assert.Equal(t, 6, s.Count)
	})

	t.Run("single property", func(t *testing.T) {
		s := Summarize(txs, "p2", "")
		assert.True(t, s.Income.Equal(decimal.NewFromInt(800)))
		assert.True(t, s.Expense.Equal(decimal.NewFromInt(150)))
		assert.Equal(t, 2, s.Count)
	})

	t.Run("single financial year", func(t *testing.T) {
		s := Summarize(txs, "p1", "2024-2025")
		assert.True(t, s.Income.Equal(decimal.NewFromInt(2400)), "income %s", s.Income)
		assert.True(t, s.Expense.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, 3, s.Count)
	})

	t.Run("no matches yields zero totals", func(t *testing.T) {
		s := Summarize(txs, "p3", AllYears)
		assert.True(t, s.Income.IsZero())
		assert.True(t, s.Expense.IsZero())
		assert.Zero(t, s.Count)
	})
}
