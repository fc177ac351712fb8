// Package aggregate derives balances and category breakdowns from a ledger
// snapshot. Every function is pure and recomputes from scratch; nothing is
// cached between calls.
//
// Sums use plain float64 accumulation. Drift across many entries is a known
// limitation and is not corrected here.
package aggregate

import (
	"github.com/dvloznov/financeflow/internal/domain"
)

// Totals is the income/expense summary of a snapshot.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// CategoryTotal is the summed expense of one category.
type CategoryTotal struct {
	Category domain.Category `json:"category"`
	Total    float64         `json:"total"`
}

// CategorySlice is one category as seen by the dashboard charts.
// Share is the fraction of total expense (the proportional view) and
// Magnitude is the fraction of the largest category (the comparative view).
type CategorySlice struct {
	Category  domain.Category `json:"category"`
	Total     float64         `json:"total"`
	Share     float64         `json:"share"`
	Magnitude float64         `json:"magnitude"`
}

// ComputeTotals sums income and expense and derives the balance.
// An empty snapshot yields all zeros.
func ComputeTotals(snapshot []domain.Transaction) Totals {
	var t Totals
	for _, tx := range snapshot {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			t.Income += tx.Amount
		case domain.TransactionTypeExpense:
			t.Expense += tx.Amount
		}
	}
	t.Balance = t.Income - t.Expense
	return t
}

// ByCategory groups expense transactions by category. Output order follows
// the first appearance of each category in the snapshot; categories without
// any expense are absent.
func ByCategory(snapshot []domain.Transaction) []CategoryTotal {
	index := make(map[domain.Category]int)
	out := []CategoryTotal{}

	for _, tx := range snapshot {
		if !tx.IsExpense() {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryTotal{Category: tx.Category})
		}
		out[i].Total += tx.Amount
	}

	// A category whose expenses sum to zero has nothing to chart.
	filtered := out[:0]
	for _, ct := range out {
		if ct.Total != 0 {
			filtered = append(filtered, ct)
		}
	}
	return filtered
}

// Breakdown projects category totals onto the two dashboard charts.
func Breakdown(totals []CategoryTotal) []CategorySlice {
	var sum, max float64
	for _, ct := range totals {
		sum += ct.Total
		if ct.Total > max {
			max = ct.Total
		}
	}

	out := make([]CategorySlice, 0, len(totals))
	for _, ct := range totals {
		slice := CategorySlice{Category: ct.Category, Total: ct.Total}
		if sum != 0 {
			slice.Share = ct.Total / sum
		}
		if max != 0 {
			slice.Magnitude = ct.Total / max
		}
		out = append(out, slice)
	}
	return out
}
