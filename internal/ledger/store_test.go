package ledger

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(desc string, amount float64, cat domain.Category) domain.Entry {
	return domain.Entry{Description: desc, Amount: amount, Type: domain.TransactionTypeExpense, Category: cat}
}

func TestStore_AddPrepends(t *testing.T) {
	s := NewStore()

	first := s.Add(expense("Padaria", 12.5, domain.CategoryFood))
	second := s.Add(expense("Ônibus", 4.4, domain.CategoryTransport))

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, second.ID, snap[0].ID, "newest entry must be at position 0")
	assert.Equal(t, first.ID, snap[1].ID)
}

func TestStore_AddAssignsIDAndDate(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	s := NewStore(WithClock(func() time.Time { return fixed }))

	tx := s.Add(expense("Farmácia", 80, domain.CategoryHealth))

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, fixed, tx.Date)
	assert.Equal(t, "Farmácia", tx.Description)
	assert.Equal(t, 80.0, tx.Amount)
	assert.Equal(t, domain.CategoryHealth, tx.Category)
}

func TestStore_IDsStayUnique(t *testing.T) {
	s := NewStore()
	adds, deletes := 200, 50

	var ids []string
	for i := 0; i < adds; i++ {
		ids = append(ids, s.Add(expense(fmt.Sprintf("item %d", i), float64(i+1), domain.CategoryOther)).ID)
	}
	for i := 0; i < deletes; i++ {
		s.Remove(ids[i*2])
	}

	snap := s.Snapshot()
	assert.Len(t, snap, adds-deletes)

	seen := make(map[string]bool)
	for _, tx := range snap {
		assert.False(t, seen[tx.ID], "duplicate id %s", tx.ID)
		seen[tx.ID] = true
	}
}

func TestStore_RemoveUnknownIsNoop(t *testing.T) {
	s := NewStore()
	s.Seed(DemoEntries()...)
	before := s.Snapshot()

	s.Remove("does-not-exist")

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 3, s.Len())
}

func TestStore_RemoveByID(t *testing.T) {
	s := NewStore()
	s.Seed(DemoEntries()...)
	snap := s.Snapshot()

	s.Remove(snap[1].ID)

	after := s.Snapshot()
	require.Len(t, after, 2)
	assert.Equal(t, snap[0].ID, after[0].ID)
	assert.Equal(t, snap[2].ID, after[1].ID)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Add(expense("Cinema", 40, domain.CategoryLeisure))

	snap := s.Snapshot()
	snap[0].Amount = 9999
	snap[0].Description = "mutated"

	fresh := s.Snapshot()
	assert.Equal(t, 40.0, fresh[0].Amount)
	assert.Equal(t, "Cinema", fresh[0].Description)
}

func TestStore_SeedKeepsGivenOrder(t *testing.T) {
	s := NewStore()
	s.Seed(DemoEntries()...)

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "Salário Mensal", snap[0].Description)
	assert.Equal(t, "Aluguel", snap[1].Description)
	assert.Equal(t, "Supermercado", snap[2].Description)
}

func TestStore_EmptySnapshot(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.Snapshot())
	assert.Equal(t, 0, s.Len())
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				s.Add(expense("concurrent", 1, domain.CategoryOther))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 500, s.Len())
}

func TestStore_CustomIDGenerator(t *testing.T) {
	n := 0
	s := NewStore(WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("tx-%d", n)
	}))

	s.Add(expense("a", 1, domain.CategoryOther))
	s.Add(expense("b", 2, domain.CategoryOther))

	snap := s.Snapshot()
	assert.Equal(t, "tx-2", snap[0].ID)
	assert.Equal(t, "tx-1", snap[1].ID)
}
