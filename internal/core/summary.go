package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Summary holds the derived financial totals for a transaction collection.
// It is never persisted and never patched incrementally: every observed
// change to the collection triggers a full recompute, which eliminates
// drift at the cost of a linear scan. At hundreds to low thousands of
// records per identity that is the right trade.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

// KeyTotal is one row of a rollup: a dimension key (category name or
// "YYYY-MM" month bucket) and the summed amount for that key.
type KeyTotal struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

// Summarize recomputes the summary from scratch.
func Summarize(txs []Transaction) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			income = income.Add(tx.Amount)
		case Expense:
			expense = expense.Add(tx.Amount)
		}
	}
	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}
}

// CategoryTotals sums transactions of the given type by category name,
// sorted by total descending. Ties keep first-encountered order.
func CategoryTotals(txs []Transaction, t TransactionType) []KeyTotal {
	return rollup(txs, t, func(tx Transaction) string { return tx.Category })
}

// MonthlyTotals sums transactions of the given type by calendar month
// ("YYYY-MM" buckets), sorted by total descending. Ties keep
// first-encountered order.
func MonthlyTotals(txs []Transaction, t TransactionType) []KeyTotal {
	return rollup(txs, t, func(tx Transaction) string {
		return fmt.Sprintf("%04d-%02d", tx.Date.Year(), int(tx.Date.Month()))
	})
}

func rollup(txs []Transaction, t TransactionType, key func(Transaction) string) []KeyTotal {
	totals := map[string]decimal.Decimal{}
	order := make([]string, 0)
	for _, tx := range txs {
		if tx.Type != t {
			continue
		}
		k := key(tx)
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] = totals[k].Add(tx.Amount)
	}
	out := make([]KeyTotal, 0, len(order))
	for _, k := range order {
		out = append(out, KeyTotal{Key: k, Total: totals[k]})
	}
	// Stable sort: equal totals preserve first-encountered order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}
