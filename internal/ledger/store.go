package ledger

import (
	"sync"
	"time"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/google/uuid"
)

// Store is the in-memory ledger. It owns the canonical transaction set and is
// safe for concurrent use. Records are kept most-recent-first.
// Data is lost when the process exits.
type Store struct {
	mu    sync.RWMutex
	txs   []domain.Transaction
	now   func() time.Time
	newID func() string
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the timestamp source used by Add.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides the identifier source used by Add.
// Generated identifiers must never repeat.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// NewStore creates an empty ledger.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records a new transaction at the front of the ledger and returns it.
// The entry is not re-validated here; callers go through the entry form first.
func (s *Store) Add(entry domain.Entry) domain.Transaction {
	tx := domain.Transaction{
		ID:          s.newID(),
		Description: entry.Description,
		Amount:      entry.Amount,
		Type:        entry.Type,
		Category:    entry.Category,
		Date:        s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = append(s.txs, domain.Transaction{})
	copy(s.txs[1:], s.txs)
	s.txs[0] = tx

	return tx
}

// Seed adds entries so that the resulting ledger starts with them in the
// given order.
func (s *Store) Seed(entries ...domain.Entry) {
	for i := len(entries) - 1; i >= 0; i-- {
		s.Add(entries[i])
	}
}

// Remove deletes the transaction with the given id. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range s.txs {
		if tx.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return
		}
	}
}

// Snapshot returns a copy of the ledger in display order.
func (s *Store) Snapshot() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Len returns the number of transactions currently recorded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs)
}

// DemoEntries is the starter ledger shown on a fresh session.
func DemoEntries() []domain.Entry {
	return []domain.Entry{
		{Description: "Salário Mensal", Amount: 5000, Type: domain.TransactionTypeIncome, Category: domain.CategorySalary},
		{Description: "Aluguel", Amount: 1500, Type: domain.TransactionTypeExpense, Category: domain.CategoryHousing},
		{Description: "Supermercado", Amount: 600, Type: domain.TransactionTypeExpense, Category: domain.CategoryFood},
	}
}
