package aggregate

import (
	"testing"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(amount float64, typ domain.TransactionType, cat domain.Category) domain.Transaction {
	return domain.Transaction{Amount: amount, Type: typ, Category: cat}
}

func demoSnapshot() []domain.Transaction {
	return []domain.Transaction{
		tx(5000, domain.TransactionTypeIncome, domain.CategorySalary),
		tx(1500, domain.TransactionTypeExpense, domain.CategoryHousing),
		tx(600, domain.TransactionTypeExpense, domain.CategoryFood),
	}
}

func TestComputeTotals_DemoLedger(t *testing.T) {
	got := ComputeTotals(demoSnapshot())
	assert.Equal(t, Totals{Income: 5000, Expense: 2100, Balance: 2900}, got)
}

func TestComputeTotals_Empty(t *testing.T) {
	assert.Equal(t, Totals{}, ComputeTotals(nil))
	assert.Equal(t, Totals{}, ComputeTotals([]domain.Transaction{}))
}

func TestComputeTotals_BalanceIdentity(t *testing.T) {
	snapshots := [][]domain.Transaction{
		nil,
		demoSnapshot(),
		{tx(10, domain.TransactionTypeExpense, domain.CategoryLeisure)},
		{tx(0.1, domain.TransactionTypeIncome, domain.CategorySalary), tx(0.2, domain.TransactionTypeIncome, domain.CategoryOther)},
	}
	for _, snap := range snapshots {
		got := ComputeTotals(snap)
		assert.Equal(t, got.Income-got.Expense, got.Balance)
	}
}

func TestComputeTotals_FloatDrift(t *testing.T) {
	// 0.1 + 0.2 is not exactly 0.3 in float64; callers round for display.
	got := ComputeTotals([]domain.Transaction{
		tx(0.1, domain.TransactionTypeExpense, domain.CategoryFood),
		tx(0.2, domain.TransactionTypeExpense, domain.CategoryFood),
	})
	assert.InDelta(t, 0.3, got.Expense, 1e-9)
}

func TestByCategory_FirstSeenOrder(t *testing.T) {
	got := ByCategory(demoSnapshot())
	assert.Equal(t, []CategoryTotal{
		{Category: domain.CategoryHousing, Total: 1500},
		{Category: domain.CategoryFood, Total: 600},
	}, got)
}

func TestByCategory_GroupsAndIgnoresIncome(t *testing.T) {
	snap := []domain.Transaction{
		tx(30, domain.TransactionTypeExpense, domain.CategoryLeisure),
		tx(1000, domain.TransactionTypeIncome, domain.CategoryLeisure),
		tx(20, domain.TransactionTypeExpense, domain.CategoryTransport),
		tx(45, domain.TransactionTypeExpense, domain.CategoryLeisure),
	}

	got := ByCategory(snap)
	require.Len(t, got, 2)
	assert.Equal(t, CategoryTotal{Category: domain.CategoryLeisure, Total: 75}, got[0])
	assert.Equal(t, CategoryTotal{Category: domain.CategoryTransport, Total: 20}, got[1])
}

func TestByCategory_OmitsZeroTotals(t *testing.T) {
	snap := []domain.Transaction{
		tx(0, domain.TransactionTypeExpense, domain.CategoryEducation),
		tx(12, domain.TransactionTypeExpense, domain.CategoryHealth),
		tx(3000, domain.TransactionTypeIncome, domain.CategorySalary),
	}

	got := ByCategory(snap)
	assert.Equal(t, []CategoryTotal{{Category: domain.CategoryHealth, Total: 12}}, got)
}

func TestByCategory_NeverDoubleCounts(t *testing.T) {
	snap := demoSnapshot()
	var sum float64
	for _, ct := range ByCategory(snap) {
		sum += ct.Total
	}
	assert.Equal(t, ComputeTotals(snap).Expense, sum)
}

func TestByCategory_Empty(t *testing.T) {
	got := ByCategory(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBreakdown(t *testing.T) {
	got := Breakdown([]CategoryTotal{
		{Category: domain.CategoryHousing, Total: 1500},
		{Category: domain.CategoryFood, Total: 500},
	})

	require.Len(t, got, 2)
	assert.Equal(t, domain.CategoryHousing, got[0].Category)
	assert.InDelta(t, 0.75, got[0].Share, 1e-9)
	assert.InDelta(t, 1.0, got[0].Magnitude, 1e-9)
	assert.InDelta(t, 0.25, got[1].Share, 1e-9)
	assert.InDelta(t, 1.0/3.0, got[1].Magnitude, 1e-9)
}

func TestBreakdown_Empty(t *testing.T) {
	assert.Empty(t, Breakdown(nil))
}
