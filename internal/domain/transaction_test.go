package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), "category %q should be valid", c)
	}
	assert.Len(t, Categories, 9)
	assert.False(t, Category("Viagem").Valid())
	assert.False(t, Category("").Valid())
}

func TestTransactionTypeValid(t *testing.T) {
	assert.True(t, TransactionTypeIncome.Valid())
	assert.True(t, TransactionTypeExpense.Valid())
	assert.False(t, TransactionType("income").Valid())
	assert.False(t, TransactionType("TRANSFER").Valid())
}

func TestPriorityValid(t *testing.T) {
	for _, p := range Priorities {
		assert.True(t, p.Valid())
	}
	assert.False(t, Priority("HIGH").Valid())
	assert.False(t, Priority("urgent").Valid())
}

func TestTransactionEntry(t *testing.T) {
	tx := Transaction{
		ID:          "abc",
		Description: "Aluguel",
		Amount:      1500,
		Type:        TransactionTypeExpense,
		Category:    CategoryHousing,
		Date:        time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, Entry{
		Description: "Aluguel",
		Amount:      1500,
		Type:        TransactionTypeExpense,
		Category:    CategoryHousing,
	}, tx.Entry())
	assert.True(t, tx.IsExpense())
}
