// Package report computes the simple aggregations the dashboard and property
// detail views display: income and expense totals over transactions, bucketed
// by financial year.
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rentbook/rentbook/internal/keeper"
)

// AllYears selects every financial year in Summarize.
const AllYears = "all"

// Summary holds decimal income/expense totals for a filtered set of
// transactions.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int
}

// Net returns income minus expense.
func (s Summary) Net() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

// FinancialYear returns the July-to-June reporting period a date falls in,
// formatted "2024-2025". Dates from July onwards open a new year.
func FinancialYear(date string) (string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	year := d.Year()
	if d.Month() >= time.July {
		return fmt.Sprintf("%d-%d", year, year+1), nil
	}
	return fmt.Sprintf("%d-%d", year-1, year), nil
}

// Summarize totals the transactions matching the filters. propertyID narrows
// to one property when non-empty; financialYear narrows to one July-June
// period unless it is AllYears or empty. Transactions with unparsable dates
// are skipped when a financial year filter is active; they were validated on
// the way in, so this only matters for hand-edited data.
func Summarize(transactions []keeper.Transaction, propertyID, financialYear string) Summary {
	var s Summary
	s.Income = decimal.Zero
	s.Expense = decimal.Zero

	filterYear := financialYear != "" && financialYear != AllYears

	for _, tx := range transactions {
		if propertyID != "" && tx.PropertyID != propertyID {
			continue
		}
		if filterYear {
			fy, err := FinancialYear(tx.Date)
			if err != nil || fy != financialYear {
				continue
			}
		}

		switch tx.Type {
		case keeper.TransactionTypeIncome:
			s.Income = s.Income.Add(tx.Amount)
		case keeper.TransactionTypeExpense:
			s.Expense = s.Expense.Add(tx.Amount)
		default:
			continue
		}
		s.Count++
	}

	return s
}
