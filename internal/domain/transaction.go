package domain

import (
	"time"
)

// TransactionType is the direction of a ledger entry. Amounts are stored as
// magnitudes; the type decides whether they add to income or expense.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Category is one of the fixed spending/earning buckets offered by the entry form.
type Category string

const (
	CategoryFood        Category = "Alimentação"
	CategoryTransport   Category = "Transporte"
	CategoryHousing     Category = "Moradia"
	CategoryLeisure     Category = "Lazer"
	CategoryHealth      Category = "Saúde"
	CategoryEducation   Category = "Educação"
	CategoryInvestments Category = "Investimentos"
	CategoryOther       Category = "Outros"
	// CategorySalary is meant for income entries, but nothing enforces it.
	CategorySalary Category = "Salário"
)

// Categories lists every category in the order the entry form presents them.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryHousing,
	CategoryLeisure,
	CategoryHealth,
	CategoryEducation,
	CategoryInvestments,
	CategoryOther,
	CategorySalary,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Entry is a transaction as submitted by the entry form, before the ledger
// assigns it an identifier and a timestamp.
type Entry struct {
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
}

// Transaction is one ledger record. It is immutable once created: the ledger
// only ever inserts or removes whole records.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"` // magnitude, never signed
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
	Date        time.Time       `json:"date"` // fixed at insertion
}

// Entry returns the form-level view of the transaction.
func (t Transaction) Entry() Entry {
	return Entry{
		Description: t.Description,
		Amount:      t.Amount,
		Type:        t.Type,
		Category:    t.Category,
	}
}

// IsExpense reports whether the transaction counts against the balance.
func (t Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}
